package mood

import (
	"slices"
	"testing"
)

func TestClassifyGenres(t *testing.T) {
	tests := []struct {
		name       string
		genres     [][]string
		wantLabel  string
		wantGenres []string
	}{
		{
			name:       "no artists",
			genres:     nil,
			wantLabel:  GenreReflective,
			wantGenres: []string{},
		},
		{
			name: "ranked by artist count then name",
			genres: [][]string{
				{"indie rock", "dream pop"},
				{"dream pop", "shoegaze"},
				{"dream pop", "indie rock"},
			},
			wantLabel:  GenreReflective,
			wantGenres: []string{"dream pop", "indie rock", "shoegaze"},
		},
		{
			name: "spiritual",
			genres: [][]string{
				{"pop"},
				{"gregorian chant"},
			},
			wantLabel:  GenreSpiritual,
			wantGenres: []string{"gregorian chant", "pop"},
		},
		{
			name: "emotional",
			genres: [][]string{
				{"sad indie"},
				{"alt z"},
			},
			wantLabel:  GenreEmotional,
			wantGenres: []string{"alt z", "sad indie"},
		},
		{
			name: "spiritual beats emotional",
			genres: [][]string{
				{"melancholy folk", "sad rap"},
				{"christian rock"},
			},
			wantLabel:  GenreSpiritual,
			wantGenres: []string{"christian rock", "melancholy folk", "sad rap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyGenres(tt.genres)

			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Summary != genreSummaries[tt.wantLabel] {
				t.Errorf("Summary = %q, want %q", got.Summary, genreSummaries[tt.wantLabel])
			}
			if !slices.Equal(got.Genres, tt.wantGenres) {
				t.Errorf("Genres = %q, want %q", got.Genres, tt.wantGenres)
			}
		})
	}
}
