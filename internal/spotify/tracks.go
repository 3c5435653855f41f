package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
)

const (
	// maxPageLimit is the largest page Spotify serves for top items and history.
	maxPageLimit = 50

	// DefaultLimit is used when the caller does not ask for a page size.
	DefaultLimit = maxPageLimit
)

// TimeRange is the period over which Spotify computes top items.
type TimeRange = spotify.Range

// Time ranges accepted by the top items endpoints.
const (
	ShortTerm  TimeRange = spotify.ShortTermRange
	MediumTerm TimeRange = spotify.MediumTermRange
	LongTerm   TimeRange = spotify.LongTermRange
)

// ErrInvalidTimeRange is returned for a time range other than
// short_term, medium_term or long_term.
var ErrInvalidTimeRange = errors.New("invalid time range")

// ParseTimeRange parses a time_range query value. An empty value is
// medium_term.
func ParseTimeRange(s string) (TimeRange, error) {
	switch s {
	case "":
		return MediumTerm, nil
	case "short_term":
		return ShortTerm, nil
	case "medium_term":
		return MediumTerm, nil
	case "long_term":
		return LongTerm, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
}

// ClampLimit bounds a requested page size to 1..50, treating
// non-positive values as the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, maxPageLimit)
}

// TopTracks returns the user's top tracks for the time range.
func (c *Client) TopTracks(ctx context.Context, timeRange TimeRange, limit int) ([]Track, error) {
	page, err := c.api.CurrentUsersTopTracks(ctx,
		spotify.Timerange(timeRange),
		spotify.Limit(ClampLimit(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	tracks := make([]Track, len(page.Tracks))
	for i, t := range page.Tracks {
		tracks[i] = convertTrack(t.SimpleTrack)
		tracks[i].Album = t.Album.Name
	}
	return tracks, nil
}

// TopArtists returns the user's top artists for the time range.
func (c *Client) TopArtists(ctx context.Context, timeRange TimeRange, limit int) ([]Artist, error) {
	page, err := c.api.CurrentUsersTopArtists(ctx,
		spotify.Timerange(timeRange),
		spotify.Limit(ClampLimit(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}

	artists := make([]Artist, len(page.Artists))
	for i, a := range page.Artists {
		artists[i] = convertArtist(a)
	}
	return artists, nil
}

// RecentlyPlayed returns the user's most recently played tracks.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]Play, error) {
	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{
		Limit: spotify.Numeric(ClampLimit(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	plays := make([]Play, len(items))
	for i, item := range items {
		plays[i] = Play{
			Track:    convertTrack(item.Track),
			PlayedAt: item.PlayedAt,
		}
	}
	return plays, nil
}

// convertTrack converts a Spotify SimpleTrack to a Track with artists
// joined by ", ".
func convertTrack(t spotify.SimpleTrack) Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return Track{
		ID:     t.ID.String(),
		Name:   t.Name,
		Artist: strings.Join(artists, ", "),
		URI:    string(t.URI),
	}
}

func convertArtist(a spotify.FullArtist) Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return Artist{
		ID:     a.ID.String(),
		Name:   a.Name,
		Genres: genres,
	}
}
