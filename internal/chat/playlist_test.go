package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestRecommendPlaylist(t *testing.T) {
	model := &fakeModel{reply: "Here you go:\n```json\n" +
		`{"name":"Lift","description":"Up.","songs":[{"title":"Here Comes the Sun","artist":"The Beatles"}],"rationale":"Bright."}` +
		"\n```"}
	svc := NewService(model, zap.NewNop())

	got, err := svc.RecommendPlaylist(context.Background(), PlaylistRequest{
		CurrentMood: "sad",
		DesiredMood: "happy",
	})
	if err != nil {
		t.Fatalf("RecommendPlaylist() error = %v", err)
	}

	if got.Name != "Lift" || got.Rationale != "Bright." {
		t.Errorf("RecommendPlaylist() = %+v", got)
	}
	if len(got.Songs) != 1 || got.Songs[0].Artist != "The Beatles" {
		t.Errorf("Songs = %+v", got.Songs)
	}

	prompt := model.prompts[0]
	if !strings.Contains(prompt, "current mood (sad) and desired mood (happy)") {
		t.Errorf("prompt missing moods: %s", prompt)
	}
	if !strings.Contains(prompt, "Context: No additional context.") {
		t.Errorf("prompt missing default context: %s", prompt)
	}
}

func TestRecommendPlaylistFallback(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantDesc string
	}{
		{
			name:     "no json",
			reply:    "Try some calm piano music.",
			wantDesc: "Try some calm piano music....",
		},
		{
			name:     "broken json",
			reply:    `{"name": "Oops",`,
			wantDesc: `{"name": "Oops",...`,
		},
		{
			name:     "long text is truncated",
			reply:    strings.Repeat("a", 250),
			wantDesc: strings.Repeat("a", 200) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeModel{reply: tt.reply}, zap.NewNop())

			got, err := svc.RecommendPlaylist(context.Background(), PlaylistRequest{})
			if err != nil {
				t.Fatalf("RecommendPlaylist() error = %v", err)
			}
			if got.Name != fallbackName {
				t.Errorf("Name = %q, want %q", got.Name, fallbackName)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.Songs == nil || len(got.Songs) != 0 {
				t.Errorf("Songs = %v, want empty slice", got.Songs)
			}
			if got.Rationale != fallbackRationale {
				t.Errorf("Rationale = %q, want %q", got.Rationale, fallbackRationale)
			}
		})
	}
}

func TestRecommendPlaylistUnavailable(t *testing.T) {
	svc := NewService(nil, zap.NewNop())
	if _, err := svc.RecommendPlaylist(context.Background(), PlaylistRequest{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("RecommendPlaylist() error = %v, want ErrUnavailable", err)
	}
}
