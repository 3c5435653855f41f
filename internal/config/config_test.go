package config

import (
	"errors"
	"os"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LISTENFY_SPOTIFY_ID", "client-id")
	t.Setenv("LISTENFY_SPOTIFY_SECRET", "client-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SpotifyID", cfg.SpotifyID, "client-id"},
		{"SpotifySecret", cfg.SpotifySecret, "client-secret"},
		{"SpotifyRedirectURI", cfg.SpotifyRedirectURI, "http://127.0.0.1:8080/api/auth/callback"},
		{"CLIRedirectURI", cfg.CLIRedirectURI, "http://127.0.0.1:8888/callback"},
		{"Addr", cfg.Addr, "127.0.0.1:8080"},
		{"GeminiModel", cfg.GeminiModel, "gemini-1.5-flash"},
		{"OllamaModel", cfg.OllamaModel, "llama3.1"},
		{"LogLevel", cfg.LogLevel, "info"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	if cfg.HasDatabase() {
		t.Error("HasDatabase() = true with no DATABASE_URL")
	}
	if cfg.TokenCache != "" || cfg.SpotifyAPIURL != "" {
		t.Errorf("TokenCache = %q, SpotifyAPIURL = %q, want both empty", cfg.TokenCache, cfg.SpotifyAPIURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LISTENFY_ADDR", ":9090")
	t.Setenv("LISTENFY_DATABASE_URL", "postgres://localhost/listenfy")
	t.Setenv("LISTENFY_DEVELOPMENT", "true")
	t.Setenv("LISTENFY_GEMINI_API_KEY", "real-key")
	t.Setenv("LISTENFY_TOKEN_CACHE", "/tmp/listenfy/token.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":9090")
	}
	if !cfg.HasDatabase() {
		t.Error("HasDatabase() = false, want true")
	}
	if !cfg.Development {
		t.Error("Development = false, want true")
	}
	if cfg.GeminiAPIKey != "real-key" {
		t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "real-key")
	}
	if cfg.TokenCache != "/tmp/listenfy/token.json" {
		t.Errorf("TokenCache = %q, want %q", cfg.TokenCache, "/tmp/listenfy/token.json")
	}
}

func TestLoadPlaceholderGeminiKey(t *testing.T) {
	setRequired(t)
	t.Setenv("LISTENFY_GEMINI_API_KEY", "your_gemini_api_key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want placeholder treated as unset", cfg.GeminiAPIKey)
	}
}

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // restores the original value after the test
		os.Unsetenv(k)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	unset(t, "LISTENFY_SPOTIFY_ID", "LISTENFY_SPOTIFY_SECRET", "SPOTIFY_ID", "SPOTIFY_SECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for missing Spotify credentials")
	}
}

func TestLoadEmptyCredentials(t *testing.T) {
	unset(t, "SPOTIFY_ID", "SPOTIFY_SECRET")
	t.Setenv("LISTENFY_SPOTIFY_ID", "")
	t.Setenv("LISTENFY_SPOTIFY_SECRET", "secret")

	if _, err := Load(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Load() error = %v, want ErrMissingCredentials", err)
	}
}

func TestLoadUnprefixed(t *testing.T) {
	unset(t, "LISTENFY_SPOTIFY_ID", "LISTENFY_SPOTIFY_SECRET")
	t.Setenv("SPOTIFY_ID", "plain-id")
	t.Setenv("SPOTIFY_SECRET", "plain-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SpotifyID != "plain-id" {
		t.Errorf("SpotifyID = %q, want %q", cfg.SpotifyID, "plain-id")
	}
}
