package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-listenfy/internal/mood"
)

// MaxTracksPerRequest is Spotify's limit on IDs per audio features request.
const MaxTracksPerRequest = 100

// ErrTooManyIDs is returned when more than MaxTracksPerRequest IDs are
// requested at once.
var ErrTooManyIDs = errors.New("too many track IDs")

// AudioFeatures retrieves audio features for up to 100 tracks.
// The result is aligned with ids; tracks Spotify has no features for are nil.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*mood.AudioFeatures, error) {
	if len(ids) == 0 {
		return []*mood.AudioFeatures{}, nil
	}
	if len(ids) > MaxTracksPerRequest {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyIDs, len(ids), MaxTracksPerRequest)
	}

	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
	}

	features, err := c.api.GetAudioFeatures(ctx, spotifyIDs...)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	return alignAudioFeatures(ids, features), nil
}

// TrackFeatures fetches the user's top tracks for the time range and
// their audio features.
func (c *Client) TrackFeatures(ctx context.Context, timeRange TimeRange, limit int) ([]Track, []*mood.AudioFeatures, error) {
	tracks, err := c.TopTracks(ctx, timeRange, limit)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	features, err := c.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return tracks, features, nil
}

// alignAudioFeatures maps features back to the requested IDs so the
// result lines up with ids regardless of what Spotify returned.
func alignAudioFeatures(ids []string, features []*spotify.AudioFeatures) []*mood.AudioFeatures {
	byID := make(map[string]*spotify.AudioFeatures, len(features))
	for _, f := range features {
		if f == nil {
			continue // Track has no audio features
		}
		byID[f.ID.String()] = f
	}

	result := make([]*mood.AudioFeatures, len(ids))
	for i, id := range ids {
		if f, ok := byID[id]; ok {
			result[i] = convertAudioFeatures(f)
		}
	}
	return result
}

// convertAudioFeatures copies the features used for mood analysis.
func convertAudioFeatures(f *spotify.AudioFeatures) *mood.AudioFeatures {
	return &mood.AudioFeatures{
		Valence:          float64(f.Valence),
		Energy:           float64(f.Energy),
		Danceability:     float64(f.Danceability),
		Acousticness:     float64(f.Acousticness),
		Instrumentalness: float64(f.Instrumentalness),
		Liveness:         float64(f.Liveness),
		Speechiness:      float64(f.Speechiness),
		Tempo:            float64(f.Tempo),
	}
}
