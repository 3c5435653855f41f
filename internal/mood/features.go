// Package mood derives a coarse mood label from averaged audio features.
package mood

import (
	"bytes"
	"encoding/json"
)

// AudioFeatures holds the per-track audio features used for mood analysis.
// Absent fields are zero.
type AudioFeatures struct {
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"` // beats per minute
}

// UnmarshalJSON decodes a feature record leniently: a field that is not a
// number decodes as 0, and a value that is not an object decodes as a
// record with every field 0.
func (f *AudioFeatures) UnmarshalJSON(data []byte) error {
	*f = AudioFeatures{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	fields := map[string]*float64{
		"valence":          &f.Valence,
		"energy":           &f.Energy,
		"danceability":     &f.Danceability,
		"acousticness":     &f.Acousticness,
		"instrumentalness": &f.Instrumentalness,
		"liveness":         &f.Liveness,
		"speechiness":      &f.Speechiness,
		"tempo":            &f.Tempo,
	}
	for name, dst := range fields {
		value, ok := raw[name]
		if !ok || bytes.Equal(value, []byte("null")) {
			continue
		}
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			continue
		}
		*dst = v
	}
	return nil
}

// Averages is the mean of each audio feature across a batch of records.
// Count is the number of non-nil records that contributed.
type Averages struct {
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Count            int     `json:"count"`
}

// MarshalJSON encodes an empty batch as {}.
func (a Averages) MarshalJSON() ([]byte, error) {
	if a.Count == 0 {
		return []byte("{}"), nil
	}
	type plain Averages
	return json.Marshal(plain(a))
}

// Aggregate sums every feature over the non-nil records and then divides
// each sum by the number of records consumed. Nil records are skipped.
// An empty or all-nil input returns the zero Averages (Count == 0).
func Aggregate(records []*AudioFeatures) Averages {
	var sum Averages
	for _, r := range records {
		if r == nil {
			continue
		}
		sum.Valence += r.Valence
		sum.Energy += r.Energy
		sum.Danceability += r.Danceability
		sum.Acousticness += r.Acousticness
		sum.Instrumentalness += r.Instrumentalness
		sum.Liveness += r.Liveness
		sum.Speechiness += r.Speechiness
		sum.Tempo += r.Tempo
		sum.Count++
	}

	if sum.Count == 0 {
		return Averages{}
	}

	n := float64(sum.Count)
	return Averages{
		Valence:          sum.Valence / n,
		Energy:           sum.Energy / n,
		Danceability:     sum.Danceability / n,
		Acousticness:     sum.Acousticness / n,
		Instrumentalness: sum.Instrumentalness / n,
		Liveness:         sum.Liveness / n,
		Speechiness:      sum.Speechiness / n,
		Tempo:            sum.Tempo / n,
		Count:            sum.Count,
	}
}
