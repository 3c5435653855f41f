// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// Profile returns the current user's profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("getting current user: %w", err)
	}
	return Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
	}, nil
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	profile, err := c.Profile(ctx)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

// Token returns the client's current OAuth token, which may have been
// refreshed since the client was created.
func (c *Client) Token() (*oauth2.Token, error) {
	token, err := c.api.Token()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}
