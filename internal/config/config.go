// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix. Every variable is also
// accepted without it, e.g. SPOTIFY_ID as well as LISTENFY_SPOTIFY_ID.
const Prefix = "listenfy"

// placeholderGeminiKey is the value shipped in example env files.
const placeholderGeminiKey = "your_gemini_api_key"

// ErrMissingCredentials is returned when the Spotify app credentials are empty.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET")

// Config holds all runtime settings.
type Config struct {
	SpotifyID          string `envconfig:"SPOTIFY_ID" required:"true"`
	SpotifySecret      string `envconfig:"SPOTIFY_SECRET" required:"true"`
	SpotifyRedirectURI string `envconfig:"SPOTIFY_REDIRECT_URI" default:"http://127.0.0.1:8080/api/auth/callback"`
	CLIRedirectURI     string `envconfig:"CLI_REDIRECT_URI" default:"http://127.0.0.1:8888/callback"`
	// SpotifyAPIURL overrides the Web API base URL. Empty uses Spotify's.
	SpotifyAPIURL string `envconfig:"SPOTIFY_API_URL"`
	// TokenCache is the file holding the command line login. Empty uses
	// listenfy/token.json under the user config directory.
	TokenCache string `envconfig:"TOKEN_CACHE"`

	Addr        string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OllamaHost   string `envconfig:"OLLAMA_HOST"`
	OllamaModel  string `envconfig:"OLLAMA_MODEL" default:"llama3.1"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	Development   bool   `envconfig:"DEVELOPMENT"`
	SecureCookies bool   `envconfig:"SECURE_COOKIES"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.SpotifyID == "" || cfg.SpotifySecret == "" {
		return Config{}, ErrMissingCredentials
	}
	if cfg.GeminiAPIKey == placeholderGeminiKey {
		cfg.GeminiAPIKey = ""
	}
	return cfg, nil
}

// HasDatabase reports whether a Postgres URL is configured.
func (c Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
