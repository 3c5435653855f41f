package mood

import (
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// MixConfig holds mood mix parameters.
type MixConfig struct {
	NumClusters int // Number of clusters to create (default: 3)
}

// DefaultMixConfig returns the recommended default configuration.
func DefaultMixConfig() MixConfig {
	return MixConfig{NumClusters: 3}
}

// Segment is one group of similar-sounding tracks within a batch.
type Segment struct {
	Analysis
	TrackCount int     `json:"trackCount"`
	Share      float64 `json:"share"` // Fraction of the batch's tracks in this segment
}

// trackObservation wraps a feature record to implement clusters.Observation.
type trackObservation struct {
	record *AudioFeatures
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Mix splits a batch into groups of tracks with similar valence, energy,
// danceability and acousticness using k-means, and analyzes each group.
// Nil records are ignored. With fewer usable records than clusters the
// whole batch is a single segment. Segments are ordered by share,
// largest first.
func Mix(records []*AudioFeatures, cfg MixConfig) []Segment {
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultMixConfig().NumClusters
	}

	var valid []*AudioFeatures
	for _, r := range records {
		if r != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	if len(valid) < cfg.NumClusters || cfg.NumClusters == 1 {
		return []Segment{newSegment(valid, len(valid))}
	}

	var obs clusters.Observations
	for _, r := range valid {
		obs = append(obs, trackObservation{record: r, coords: mixCoordinates(r)})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		// Partitioning only fails on degenerate input; fall back to one group.
		return []Segment{newSegment(valid, len(valid))}
	}

	var segments []Segment
	for _, cluster := range result {
		var members []*AudioFeatures
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				members = append(members, to.record)
			}
		}
		if len(members) == 0 {
			continue
		}
		segments = append(segments, newSegment(members, len(valid)))
	}

	slices.SortStableFunc(segments, func(a, b Segment) int {
		return b.TrackCount - a.TrackCount
	})

	return segments
}

func newSegment(members []*AudioFeatures, total int) Segment {
	return Segment{
		Analysis:   Analyze(members),
		TrackCount: len(members),
		Share:      float64(len(members)) / float64(total),
	}
}

// mixCoordinates extracts the features used for clustering as a vector.
func mixCoordinates(r *AudioFeatures) clusters.Coordinates {
	return clusters.Coordinates{
		r.Valence,
		r.Energy,
		r.Danceability,
		r.Acousticness,
	}
}
