package mood

import (
	"slices"
	"strings"
)

// GenreMood is a mood read from the genres of a user's top artists.
type GenreMood struct {
	Label   string   `json:"mood"`
	Summary string   `json:"summary"`
	Genres  []string `json:"genres"` // Most frequent first
}

// Genre mood labels.
const (
	GenreSpiritual  = "Spiritual"
	GenreEmotional  = "Emotional"
	GenreReflective = "Reflective"
)

var genreSummaries = map[string]string{
	GenreSpiritual:  "You have been in a meditative and spiritual space. Keep it up.",
	GenreEmotional:  "Your music suggests you might be feeling a little down. Be kind to yourself.",
	GenreReflective: "Your recent music taste seems deep and meaningful.",
}

// ClassifyGenres ranks genres across artists by how many artists carry
// them and picks a label. Spiritual genres take precedence over sad ones;
// anything else is Reflective.
func ClassifyGenres(artistGenres [][]string) GenreMood {
	counts := make(map[string]int)
	for _, genres := range artistGenres {
		for _, g := range genres {
			counts[g]++
		}
	}

	ranked := make([]string, 0, len(counts))
	for g := range counts {
		ranked = append(ranked, g)
	}
	slices.SortFunc(ranked, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	label := GenreReflective
	switch {
	case anyContains(ranked, "gospel", "christian", "chant"):
		label = GenreSpiritual
	case anyContains(ranked, "sad", "melancholy"):
		label = GenreEmotional
	}

	return GenreMood{
		Label:   label,
		Summary: genreSummaries[label],
		Genres:  ranked,
	}
}

func anyContains(genres []string, needles ...string) bool {
	return slices.ContainsFunc(genres, func(g string) bool {
		for _, n := range needles {
			if strings.Contains(g, n) {
				return true
			}
		}
		return false
	})
}
