package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	fallbackName      = "Personalized Mood Playlist"
	fallbackRationale = "AI-generated recommendation based on your current emotional state."

	// fallbackDescriptionLen is how much raw model output becomes the
	// description when no JSON could be parsed.
	fallbackDescriptionLen = 200
)

// PlaylistRequest describes the mood journey a playlist should support.
type PlaylistRequest struct {
	CurrentMood string `json:"currentMood"`
	DesiredMood string `json:"desiredMood"`
	Context     string `json:"context"`
}

// Song is a suggested track.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Recommendation is a suggested playlist.
type Recommendation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Songs       []Song `json:"songs"`
	Rationale   string `json:"rationale"`
}

// RecommendPlaylist asks the model for a playlist. If the model output
// contains no parsable JSON object, a generic recommendation built from
// the raw text is returned instead.
func (s *Service) RecommendPlaylist(ctx context.Context, req PlaylistRequest) (Recommendation, error) {
	if !s.Available() {
		return Recommendation{}, ErrUnavailable
	}

	text, err := s.model.Generate(ctx, playlistPrompt(req))
	if err != nil {
		return Recommendation{}, fmt.Errorf("generating playlist: %w", err)
	}

	rec, err := parseRecommendation(text)
	if err != nil {
		s.log.Warn("falling back to generic playlist", zap.Error(err))
		return fallbackRecommendation(text), nil
	}
	return rec, nil
}

func playlistPrompt(req PlaylistRequest) string {
	extra := req.Context
	if extra == "" {
		extra = "No additional context"
	}

	return fmt.Sprintf(`Based on the user's current mood (%s) and desired mood (%s), suggest a therapeutic playlist. Context: %s. 

Provide:
1. A playlist name
2. Brief description (2-3 sentences)
3. 8-12 specific song suggestions with artist names
4. Explanation of how this playlist supports their emotional journey

Format your response as a JSON object with the following structure:
{
  "name": "playlist name",
  "description": "brief description",
  "songs": [
    {"title": "song title", "artist": "artist name"},
    ...
  ],
  "rationale": "explanation of how this playlist helps"
}`, req.CurrentMood, req.DesiredMood, extra)
}

// parseRecommendation decodes the span from the first '{' to the last '}'.
func parseRecommendation(text string) (Recommendation, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Recommendation{}, errors.New("no JSON object in response")
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(text[start:end+1]), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("decoding recommendation: %w", err)
	}
	if rec.Songs == nil {
		rec.Songs = []Song{}
	}
	return rec, nil
}

func fallbackRecommendation(text string) Recommendation {
	runes := []rune(text)
	if len(runes) > fallbackDescriptionLen {
		runes = runes[:fallbackDescriptionLen]
	}
	return Recommendation{
		Name:        fallbackName,
		Description: string(runes) + "...",
		Songs:       []Song{},
		Rationale:   fallbackRationale,
	}
}
