package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/justestif/go-listenfy/internal/config"
	"github.com/justestif/go-listenfy/internal/spotify"
)

const callbackTimeout = 2 * time.Minute

var (
	// ErrAuthTimeout is returned when the OAuth callback is not received in time.
	ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Authenticator handles Spotify OAuth2 authentication for the command line.
// It listens for the callback on the loopback redirect URI.
type Authenticator struct {
	connector *spotify.Connector
	callback  *url.URL
	cache     *TokenCache
	log       *zap.Logger
	out       io.Writer
}

// New creates an Authenticator from the app credentials, CLI redirect URI
// and token cache location in cfg. Prompts are written to out.
func New(cfg config.Config, log *zap.Logger, out io.Writer) (*Authenticator, error) {
	if cfg.SpotifyID == "" || cfg.SpotifySecret == "" {
		return nil, config.ErrMissingCredentials
	}

	callback, err := url.Parse(cfg.CLIRedirectURI)
	if err != nil || callback.Host == "" {
		return nil, fmt.Errorf("invalid CLI redirect URI %q", cfg.CLIRedirectURI)
	}
	if callback.Path == "" {
		callback.Path = "/"
	}

	path, err := tokenCachePath(cfg.TokenCache)
	if err != nil {
		return nil, err
	}

	var opts []spotify.ConnectorOption
	if cfg.SpotifyAPIURL != "" {
		opts = append(opts, spotify.WithAPIURL(cfg.SpotifyAPIURL))
	}

	log = log.Named("auth")
	return &Authenticator{
		connector: spotify.NewConnector(cfg.SpotifyID, cfg.SpotifySecret, cfg.CLIRedirectURI, opts...),
		callback:  callback,
		cache:     newTokenCache(path, cfg.SpotifyID, log),
		log:       log,
		out:       out,
	}, nil
}

// Authenticate returns an authenticated Spotify client.
// It first checks for a cached token and uses it if valid/refreshable.
// Otherwise, it runs the full OAuth flow.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	if token := a.cache.Load(); token != nil {
		// oauth2 refreshes the token on first use when it has expired.
		client := a.connector.Client(ctx, token)

		_, err := client.Profile(ctx)
		if err == nil {
			if fresh, err := client.Token(); err == nil && fresh.AccessToken != token.AccessToken {
				if err := a.cache.Save(fresh); err != nil {
					a.log.Warn("caching refreshed token", zap.Error(err))
				}
			}
			return client, nil
		}

		a.log.Info("cached token rejected, starting new authentication", zap.Error(err))
	}

	return a.runOAuthFlow(ctx)
}

// runOAuthFlow performs the full OAuth authorization code flow.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(a.callback.Path, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, tokenCh, errCh)
	})

	ln, err := net.Listen("tcp", a.callback.Host)
	if err != nil {
		return nil, fmt.Errorf("listening for callback on %s: %w", a.callback.Host, err)
	}
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	fmt.Fprintln(a.out, "\nTo authenticate, open this URL in your browser:")
	fmt.Fprintln(a.out, a.connector.AuthURL(state))
	fmt.Fprintln(a.out, "\nWaiting for authentication...")

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		shutdown()
		return nil, err
	case <-time.After(callbackTimeout):
		shutdown()
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		shutdown()
		return nil, ctx.Err()
	}
	shutdown()

	// Auth succeeded even if the token cannot be cached.
	if err := a.cache.Save(token); err != nil {
		a.log.Warn("caching token", zap.String("path", a.cache.Path()), zap.Error(err))
	}

	return a.connector.Client(ctx, token), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, expectedState string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	if r.URL.Query().Get("state") != expectedState {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		errCh <- ErrStateMismatch
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, "Authentication failed: "+errMsg, http.StatusBadRequest)
		errCh <- fmt.Errorf("spotify auth error: %s", errMsg)
		return
	}

	token, err := a.connector.Exchange(r.Context(), expectedState, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		errCh <- err
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Listenfy</title></head>
<body>
<h1>Connected to Spotify</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)

	tokenCh <- token
}

// generateState creates a random state string for OAuth.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Logout removes the cached login and reports whether there was one.
func (a *Authenticator) Logout() (bool, error) {
	return a.cache.Clear()
}
