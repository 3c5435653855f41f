package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	t.Setenv("LISTENFY_SPOTIFY_ID", "client-id")
	t.Setenv("LISTENFY_SPOTIFY_SECRET", "client-secret")
	t.Setenv("LISTENFY_TOKEN_CACHE", path)
	t.Setenv("LISTENFY_LOG_LEVEL", "error")

	if err := os.WriteFile(path, []byte(`{"client_id":"client-id"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "", "logout")
	if err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if strings.TrimSpace(out) != "Logged out of Spotify." {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("token cache still present: %v", err)
	}

	out, err = runCmd(t, "", "logout")
	if err != nil {
		t.Fatalf("second logout error = %v", err)
	}
	if strings.TrimSpace(out) != "Not logged in." {
		t.Errorf("second output = %q", out)
	}
}
