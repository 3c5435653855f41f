package spotify

import (
	"errors"
	"slices"
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestConvertTrack(t *testing.T) {
	tests := []struct {
		name           string
		track          spotify.SimpleTrack
		expectedID     string
		expectedName   string
		expectedArtist string
		expectedURI    string
	}{
		{
			name: "single artist",
			track: spotify.SimpleTrack{
				ID:   "track123",
				Name: "Test Song",
				URI:  "spotify:track:track123",
				Artists: []spotify.SimpleArtist{
					{Name: "Artist One"},
				},
			},
			expectedID:     "track123",
			expectedName:   "Test Song",
			expectedArtist: "Artist One",
			expectedURI:    "spotify:track:track123",
		},
		{
			name: "multiple artists",
			track: spotify.SimpleTrack{
				ID:   "track456",
				Name: "Collab Track",
				Artists: []spotify.SimpleArtist{
					{Name: "Artist A"},
					{Name: "Artist B"},
					{Name: "Artist C"},
				},
			},
			expectedID:     "track456",
			expectedName:   "Collab Track",
			expectedArtist: "Artist A, Artist B, Artist C",
		},
		{
			name: "no artists",
			track: spotify.SimpleTrack{
				ID:      "track000",
				Name:    "Unknown Track",
				Artists: []spotify.SimpleArtist{},
			},
			expectedID:     "track000",
			expectedName:   "Unknown Track",
			expectedArtist: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertTrack(tt.track)

			if got.ID != tt.expectedID {
				t.Errorf("ID = %q, want %q", got.ID, tt.expectedID)
			}
			if got.Name != tt.expectedName {
				t.Errorf("Name = %q, want %q", got.Name, tt.expectedName)
			}
			if got.Artist != tt.expectedArtist {
				t.Errorf("Artist = %q, want %q", got.Artist, tt.expectedArtist)
			}
			if got.URI != tt.expectedURI {
				t.Errorf("URI = %q, want %q", got.URI, tt.expectedURI)
			}
		})
	}
}

func TestConvertArtistNeverNilGenres(t *testing.T) {
	got := convertArtist(spotify.FullArtist{
		SimpleArtist: spotify.SimpleArtist{ID: "a1", Name: "No Genre"},
	})

	if got.Genres == nil {
		t.Error("Genres = nil, want empty slice")
	}
	if got.ID != "a1" || got.Name != "No Genre" {
		t.Errorf("convertArtist() = %+v", got)
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeRange
		wantErr bool
	}{
		{"", MediumTerm, false},
		{"short_term", ShortTerm, false},
		{"medium_term", MediumTerm, false},
		{"long_term", LongTerm, false},
		{"forever", "", true},
		{"SHORT_TERM", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeRange(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeRange) {
					t.Errorf("ParseTimeRange(%q) error = %v, want ErrInvalidTimeRange", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeRange(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeRange(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-5, DefaultLimit},
		{0, DefaultLimit},
		{1, 1},
		{20, 20},
		{50, 50},
		{51, 50},
		{1000, 50},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.input); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTrackIDs(t *testing.T) {
	got := trackIDs([]string{
		"spotify:track:abc",
		"def",
		"  ",
		" spotify:track:ghi ",
		"",
	})
	want := []string{"abc", "def", "ghi"}

	if !slices.Equal(got, want) {
		t.Errorf("trackIDs() = %q, want %q", got, want)
	}
}

func TestBatchChunking(t *testing.T) {
	tests := []struct {
		name          string
		totalTracks   int
		expectedBatch []struct{ start, end int }
	}{
		{
			name:        "less than 100",
			totalTracks: 50,
			expectedBatch: []struct{ start, end int }{
				{0, 50},
			},
		},
		{
			name:        "exactly 100",
			totalTracks: 100,
			expectedBatch: []struct{ start, end int }{
				{0, 100},
			},
		},
		{
			name:        "more than 100",
			totalTracks: 250,
			expectedBatch: []struct{ start, end int }{
				{0, 100},
				{100, 200},
				{200, 250},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var batches []struct{ start, end int }

			for i := 0; i < tt.totalTracks; i += MaxTracksPerRequest {
				end := min(i+MaxTracksPerRequest, tt.totalTracks)
				batches = append(batches, struct{ start, end int }{i, end})
			}

			if len(batches) != len(tt.expectedBatch) {
				t.Errorf("got %d batches, want %d", len(batches), len(tt.expectedBatch))
				return
			}

			for i, batch := range batches {
				if batch.start != tt.expectedBatch[i].start || batch.end != tt.expectedBatch[i].end {
					t.Errorf("batch %d = {%d, %d}, want {%d, %d}",
						i, batch.start, batch.end,
						tt.expectedBatch[i].start, tt.expectedBatch[i].end)
				}
			}
		})
	}
}
