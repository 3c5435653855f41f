package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
)

const trackURIPrefix = "spotify:track:"

// CreatePlaylist creates a new playlist for the current user and adds the
// given tracks. Tracks may be given as IDs or spotify:track: URIs.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool, tracks []string) (Playlist, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return Playlist{}, err
	}

	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return Playlist{}, fmt.Errorf("creating playlist: %w", err)
	}

	if err := c.AddTracksToPlaylist(ctx, playlist.ID.String(), trackIDs(tracks)); err != nil {
		return Playlist{}, err
	}

	return Playlist{
		ID:   playlist.ID.String(),
		Name: playlist.Name,
		URI:  string(playlist.URI),
		URL:  playlist.ExternalURLs["spotify"],
	}, nil
}

// AddTracksToPlaylist adds tracks to a playlist, handling batching for large sets.
// Spotify allows max 100 tracks per request.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for i := 0; i < len(ids); i += MaxTracksPerRequest {
		end := min(i+MaxTracksPerRequest, len(ids))
		batch := ids[i:end]

		_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), batch...)
		if err != nil {
			return fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, end, err)
		}
	}

	return nil
}

// trackIDs strips the spotify:track: prefix from URIs and drops blanks.
func trackIDs(tracks []string) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), trackURIPrefix))
		if t != "" {
			ids = append(ids, t)
		}
	}
	return ids
}
