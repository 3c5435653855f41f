// Package auth runs the command line Spotify login and keeps its token on disk.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// cachedLogin is the file format. The client ID ties the token to the app
// that issued it; a token from another app cannot be refreshed.
type cachedLogin struct {
	ClientID string        `json:"client_id"`
	SavedAt  time.Time     `json:"saved_at"`
	Token    *oauth2.Token `json:"token"`
}

// TokenCache stores one Spotify login for one app in a JSON file.
type TokenCache struct {
	path     string
	clientID string
	log      *zap.Logger
}

// tokenCachePath returns configured, or listenfy/token.json under the user
// config directory when configured is empty.
func tokenCachePath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "listenfy", "token.json"), nil
}

func newTokenCache(path, clientID string, log *zap.Logger) *TokenCache {
	return &TokenCache{
		path:     path,
		clientID: clientID,
		log:      log.With(zap.String("path", path)),
	}
}

// Path returns the cache file location.
func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached token, or nil when there is no usable login.
// A file that cannot be read or parsed, or that belongs to another client
// ID, is logged and treated as absent so the caller logs in again.
func (c *TokenCache) Load() *oauth2.Token {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		c.log.Warn("reading token cache", zap.Error(err))
		return nil
	}

	var login cachedLogin
	if err := json.Unmarshal(data, &login); err != nil || login.Token == nil {
		c.log.Warn("ignoring corrupt token cache", zap.Error(err))
		return nil
	}
	if login.ClientID != c.clientID {
		c.log.Info("ignoring token cached for another client", zap.String("client_id", login.ClientID))
		return nil
	}
	return login.Token
}

// Save replaces the cached login with token. The file is written to a
// temporary name and renamed so a crash never leaves a partial token.
func (c *TokenCache) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("saving nil token")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token cache dir: %w", err)
	}

	data, err := json.MarshalIndent(cachedLogin{
		ClientID: c.clientID,
		SavedAt:  time.Now().UTC(),
		Token:    token,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	// CreateTemp opens the file 0600.
	tmp, err := os.CreateTemp(dir, ".token-*.json")
	if err != nil {
		return fmt.Errorf("creating token cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing token cache: %w", err)
	}

	c.log.Debug("token cached", zap.Time("expiry", token.Expiry))
	return nil
}

// Clear removes the cached login and reports whether one existed.
func (c *TokenCache) Clear() (bool, error) {
	err := os.Remove(c.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		c.log.Error("removing token cache", zap.Error(err))
		return false, fmt.Errorf("removing token cache: %w", err)
	}
	c.log.Info("token cache removed")
	return true, nil
}
