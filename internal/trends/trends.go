// Package trends records mood analyses over time and summarizes them per day.
package trends

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/mood"
)

// DefaultDays is the trend window used when the caller does not pick one.
const DefaultDays = 30

const dateLayout = "2006-01-02"

// Snapshot is one recorded analysis.
type Snapshot struct {
	ID         uuid.UUID
	UserID     string
	Mood       mood.Mood
	Confidence float64
	TimeRange  string
	TrackCount int
	Valence    float64
	Energy     float64
	CreatedAt  time.Time
}

// Point is one day of a trend.
type Point struct {
	Date       string    `json:"date"`
	Mood       mood.Mood `json:"mood"`
	Confidence float64   `json:"confidence"`
}

// Store persists snapshots.
type Store interface {
	Add(ctx context.Context, s Snapshot) error
	// Since returns the user's snapshots created at or after since, oldest first.
	Since(ctx context.Context, userID string, since time.Time) ([]Snapshot, error)
	// Clear removes every snapshot of the user.
	Clear(ctx context.Context, userID string) error
}

// Service records snapshots and builds trends from them.
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store Store, log *zap.Logger) *Service {
	return &Service{
		store: store,
		log:   log.Named("trends"),
		now:   time.Now,
	}
}

// Record stores a snapshot of analysis for the user. Analyses of empty
// batches carry no information and are skipped.
func (s *Service) Record(ctx context.Context, userID, timeRange string, analysis mood.Analysis) error {
	if analysis.Features.Count == 0 {
		return nil
	}

	snapshot := Snapshot{
		ID:         uuid.New(),
		UserID:     userID,
		Mood:       analysis.Mood,
		Confidence: analysis.Confidence,
		TimeRange:  timeRange,
		TrackCount: analysis.Features.Count,
		Valence:    analysis.Features.Valence,
		Energy:     analysis.Features.Energy,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Add(ctx, snapshot); err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}

	s.log.Debug("recorded mood snapshot",
		zap.String("user_id", userID),
		zap.String("mood", string(snapshot.Mood)),
		zap.Int("tracks", snapshot.TrackCount),
	)
	return nil
}

// Clear forgets the user's mood history.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	s.log.Info("cleared mood history", zap.String("user_id", userID))
	return nil
}

// Trend returns one point per UTC day over the last days days, oldest
// first. Each point is the latest snapshot recorded that day. Days
// without snapshots are absent. Non-positive days means DefaultDays.
func (s *Service) Trend(ctx context.Context, userID string, days int) ([]Point, error) {
	if days <= 0 {
		days = DefaultDays
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	snapshots, err := s.store.Since(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	return dailyPoints(snapshots), nil
}

// dailyPoints keeps the latest snapshot of each UTC day.
func dailyPoints(snapshots []Snapshot) []Point {
	points := []Point{}
	latest := map[string]time.Time{}
	index := map[string]int{}

	for _, snap := range snapshots {
		date := snap.CreatedAt.UTC().Format(dateLayout)
		point := Point{Date: date, Mood: snap.Mood, Confidence: snap.Confidence}

		i, seen := index[date]
		if !seen {
			index[date] = len(points)
			latest[date] = snap.CreatedAt
			points = append(points, point)
			continue
		}
		if !snap.CreatedAt.Before(latest[date]) {
			latest[date] = snap.CreatedAt
			points[i] = point
		}
	}
	return points
}
