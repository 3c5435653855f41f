package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository handles mood snapshot database operations.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a snapshot, assigning an ID and timestamp when unset.
func (r *SnapshotRepository) Create(ctx context.Context, s *MoodSnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO mood_snapshots (id, user_id, mood, confidence, time_range, track_count, valence, energy, created_at)
		VALUES (@id, @user_id, @mood, @confidence, @time_range, @track_count, @valence, @energy, @created_at)
	`
	_, err := r.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":          s.ID,
		"user_id":     s.UserID,
		"mood":        s.Mood,
		"confidence":  s.Confidence,
		"time_range":  s.TimeRange,
		"track_count": s.TrackCount,
		"valence":     s.Valence,
		"energy":      s.Energy,
		"created_at":  s.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting mood snapshot: %w", err)
	}
	return nil
}

// ListSince returns a user's snapshots created at or after since, oldest first.
func (r *SnapshotRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]MoodSnapshot, error) {
	query := `
		SELECT id, user_id, mood, confidence, time_range, track_count, valence, energy, created_at
		FROM mood_snapshots
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying mood snapshots: %w", err)
	}

	snapshots, err := pgx.CollectRows(rows, pgx.RowToStructByName[MoodSnapshot])
	if err != nil {
		return nil, fmt.Errorf("scanning mood snapshots: %w", err)
	}
	return snapshots, nil
}

// DeleteForUser removes all of a user's snapshots.
func (r *SnapshotRepository) DeleteForUser(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM mood_snapshots WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deleting mood snapshots: %w", err)
	}
	return nil
}
