package spotify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Scopes requested from Spotify.
var Scopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
}

// Connector runs the server-side OAuth authorization code flow and builds
// API clients from the resulting tokens.
type Connector struct {
	auth   *spotifyauth.Authenticator
	apiURL string
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithAPIURL points the API clients built by the Connector at an
// alternative Web API base URL. The URL must end with a slash.
func WithAPIURL(apiURL string) ConnectorOption {
	return func(c *Connector) {
		c.apiURL = apiURL
	}
}

// NewConnector creates a Connector for the given app credentials.
func NewConnector(clientID, clientSecret, redirectURL string, opts ...ConnectorOption) *Connector {
	c := &Connector{
		auth: spotifyauth.New(
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
			spotifyauth.WithRedirectURL(redirectURL),
			spotifyauth.WithScopes(Scopes...),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthURL returns the Spotify consent page URL for the given state.
func (c *Connector) AuthURL(state string) string {
	return c.auth.AuthURL(state)
}

// Exchange trades the authorization code on the callback request for a token.
// It verifies the state parameter matches.
func (c *Connector) Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error) {
	token, err := c.auth.Token(ctx, state, r)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}
	return token, nil
}

// Client returns an API client for the token. The underlying HTTP client
// refreshes the token automatically.
func (c *Connector) Client(ctx context.Context, token *oauth2.Token) *Client {
	opts := []spotify.ClientOption{spotify.WithRetry(true)}
	if c.apiURL != "" {
		opts = append(opts, spotify.WithBaseURL(c.apiURL))
	}
	return New(spotify.New(c.auth.Client(ctx, token), opts...))
}
