package web

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/justestif/go-listenfy/internal/mood"
	"github.com/justestif/go-listenfy/internal/spotify"
)

// Connector runs the OAuth flow and opens a Library for a token.
type Connector interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error)
	Library(ctx context.Context, token *oauth2.Token) Library
}

// Library is the slice of the Spotify API the handlers use.
type Library interface {
	Profile(ctx context.Context) (spotify.Profile, error)
	TopTracks(ctx context.Context, timeRange spotify.TimeRange, limit int) ([]spotify.Track, error)
	TopArtists(ctx context.Context, timeRange spotify.TimeRange, limit int) ([]spotify.Artist, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.Play, error)
	AudioFeatures(ctx context.Context, ids []string) ([]*mood.AudioFeatures, error)
	CreatePlaylist(ctx context.Context, name, description string, public bool, tracks []string) (spotify.Playlist, error)
	Token() (*oauth2.Token, error)
}

type spotifyConnector struct {
	*spotify.Connector
}

// NewSpotifyConnector adapts a spotify.Connector to Connector.
func NewSpotifyConnector(c *spotify.Connector) Connector {
	return spotifyConnector{c}
}

func (c spotifyConnector) Library(ctx context.Context, token *oauth2.Token) Library {
	return c.Client(ctx, token)
}

var _ Library = (*spotify.Client)(nil)
