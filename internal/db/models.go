package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a Spotify user profile.
type User struct {
	ID          string    `db:"id"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Session represents an authenticated web session.
type Session struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	TokenExpiry  time.Time `db:"token_expiry"`
	CreatedAt    time.Time `db:"created_at"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// MoodSnapshot is one recorded mood analysis.
type MoodSnapshot struct {
	ID         uuid.UUID `db:"id"`
	UserID     string    `db:"user_id"`
	Mood       string    `db:"mood"`
	Confidence float64   `db:"confidence"`
	TimeRange  string    `db:"time_range"`
	TrackCount int       `db:"track_count"`
	Valence    float64   `db:"valence"`
	Energy     float64   `db:"energy"`
	CreatedAt  time.Time `db:"created_at"`
}
