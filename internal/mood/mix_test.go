package mood

import (
	"math"
	"testing"
)

func TestMixEmpty(t *testing.T) {
	if got := Mix(nil, DefaultMixConfig()); got != nil {
		t.Errorf("Mix(nil) = %v, want nil", got)
	}
	if got := Mix([]*AudioFeatures{nil, nil}, DefaultMixConfig()); got != nil {
		t.Errorf("Mix(all nil) = %v, want nil", got)
	}
}

func TestMixFewerRecordsThanClusters(t *testing.T) {
	records := []*AudioFeatures{
		{Valence: 0.9, Energy: 0.9},
		nil,
		{Valence: 0.7, Energy: 0.8},
	}

	got := Mix(records, MixConfig{NumClusters: 3})

	if len(got) != 1 {
		t.Fatalf("got %d segments, want 1", len(got))
	}
	if got[0].TrackCount != 2 {
		t.Errorf("TrackCount = %d, want 2", got[0].TrackCount)
	}
	if got[0].Share != 1 {
		t.Errorf("Share = %v, want 1", got[0].Share)
	}
	if got[0].Mood != Euphoric {
		t.Errorf("Mood = %q, want %q", got[0].Mood, Euphoric)
	}
}

func TestMixSingleCluster(t *testing.T) {
	records := []*AudioFeatures{
		{Valence: 0.1, Energy: 0.1},
		{Valence: 0.2, Energy: 0.2},
		{Valence: 0.9, Energy: 0.9},
		{Valence: 0.8, Energy: 0.9},
	}

	got := Mix(records, MixConfig{NumClusters: 1})

	if len(got) != 1 {
		t.Fatalf("got %d segments, want 1", len(got))
	}
	want := Analyze(records)
	if got[0].Mood != want.Mood || got[0].Features != want.Features {
		t.Errorf("segment = %+v, want analysis of the whole batch %+v", got[0].Analysis, want)
	}
}

func TestMixConservesTracks(t *testing.T) {
	var records []*AudioFeatures
	for i := 0; i < 10; i++ {
		records = append(records, &AudioFeatures{Valence: 0.9, Energy: 0.85, Danceability: 0.8, Acousticness: 0.1})
		records = append(records, &AudioFeatures{Valence: 0.1, Energy: 0.15, Danceability: 0.2, Acousticness: 0.9})
		records = append(records, &AudioFeatures{Valence: 0.3, Energy: 0.9, Danceability: 0.5, Acousticness: 0.05})
	}
	records = append(records, nil)

	got := Mix(records, DefaultMixConfig())

	if len(got) == 0 {
		t.Fatal("Mix() returned no segments")
	}

	total := 0
	share := 0.0
	for i, seg := range got {
		total += seg.TrackCount
		share += seg.Share
		if i > 0 && seg.TrackCount > got[i-1].TrackCount {
			t.Errorf("segments not ordered by size: %d after %d", seg.TrackCount, got[i-1].TrackCount)
		}
		if seg.Features.Count != seg.TrackCount {
			t.Errorf("segment Features.Count = %d, TrackCount = %d", seg.Features.Count, seg.TrackCount)
		}
	}

	if total != 30 {
		t.Errorf("total tracks = %d, want 30", total)
	}
	if math.Abs(share-1) > 1e-9 {
		t.Errorf("shares sum to %v, want 1", share)
	}
}

func TestMixDefaultsClusterCount(t *testing.T) {
	records := []*AudioFeatures{
		{Valence: 0.9, Energy: 0.9},
		{Valence: 0.1, Energy: 0.1},
	}

	// Zero clusters falls back to the default of 3, which exceeds the batch.
	got := Mix(records, MixConfig{})
	if len(got) != 1 {
		t.Errorf("got %d segments, want 1", len(got))
	}
}
