package trends

import (
	"context"
	"time"

	"github.com/justestif/go-listenfy/internal/db"
	"github.com/justestif/go-listenfy/internal/mood"
)

// DBStore keeps snapshots in PostgreSQL.
type DBStore struct {
	database *db.DB
}

// NewDBStore creates a database-backed Store.
func NewDBStore(database *db.DB) *DBStore {
	return &DBStore{database: database}
}

// Add implements Store.
func (s *DBStore) Add(ctx context.Context, snap Snapshot) error {
	row := toRow(snap)
	return s.database.Snapshots().Create(ctx, &row)
}

// Since implements Store.
func (s *DBStore) Since(ctx context.Context, userID string, since time.Time) ([]Snapshot, error) {
	rows, err := s.database.Snapshots().ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	out := make([]Snapshot, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out, nil
}

// Clear implements Store.
func (s *DBStore) Clear(ctx context.Context, userID string) error {
	return s.database.Snapshots().DeleteForUser(ctx, userID)
}

func toRow(s Snapshot) db.MoodSnapshot {
	return db.MoodSnapshot{
		ID:         s.ID,
		UserID:     s.UserID,
		Mood:       string(s.Mood),
		Confidence: s.Confidence,
		TimeRange:  s.TimeRange,
		TrackCount: s.TrackCount,
		Valence:    s.Valence,
		Energy:     s.Energy,
		CreatedAt:  s.CreatedAt,
	}
}

func fromRow(r db.MoodSnapshot) Snapshot {
	return Snapshot{
		ID:         r.ID,
		UserID:     r.UserID,
		Mood:       mood.Mood(r.Mood),
		Confidence: r.Confidence,
		TimeRange:  r.TimeRange,
		TrackCount: r.TrackCount,
		Valence:    r.Valence,
		Energy:     r.Energy,
		CreatedAt:  r.CreatedAt,
	}
}

var _ Store = (*DBStore)(nil)
