// Package web provides the HTTP server, JSON API and pages for Listenfy.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/justestif/go-listenfy/internal/db"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session represents an authenticated user session.
type Session struct {
	ID        string
	Token     *oauth2.Token
	UserID    string
	UserName  string
	CreatedAt time.Time
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	UpdateToken(ctx context.Context, id string, token *oauth2.Token)
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
	// Prune removes expired sessions and reports how many were removed.
	Prune(ctx context.Context) (int64, error)
}

// cookies writes the session cookie. Secure cookies require HTTPS.
type cookies struct {
	secure bool
}

// SetCookie sets the session cookie on the response.
func (c cookies) SetCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearCookie removes the session cookie from the response.
func (c cookies) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		MaxAge:   -1,
	})
}

// sessionID returns the session cookie value, or "" when absent.
func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ============================================================================
// In-Memory Session Store (no database configured)
// ============================================================================

// SessionStore manages user sessions in memory.
type SessionStore struct {
	cookies

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore(secureCookies bool) *SessionStore {
	return &SessionStore{
		cookies:  cookies{secure: secureCookies},
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create generates a new session with the given token and user info.
func (s *SessionStore) Create(_ context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves an unexpired session by ID. The returned session is a copy.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil
	}

	cp := *session
	return &cp
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// UpdateToken updates the OAuth token for a session.
func (s *SessionStore) UpdateToken(_ context.Context, id string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.Token = token
	}
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	return s.Get(r.Context(), id)
}

// Prune removes expired sessions.
func (s *SessionStore) Prune(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *SessionStore) expired(session *Session) bool {
	return s.now().Sub(session.CreatedAt) > sessionTTL
}

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// sessionRepository is the session table access DBSessionStore needs.
type sessionRepository interface {
	Create(ctx context.Context, session *db.Session) error
	Get(ctx context.Context, id string) (*db.Session, error)
	Delete(ctx context.Context, id string) error
	UpdateToken(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// userRepository is the user table access DBSessionStore needs.
type userRepository interface {
	Get(ctx context.Context, id string) (*db.User, error)
	Upsert(ctx context.Context, user *db.User) error
}

// DBSessionStore manages user sessions in PostgreSQL. Delete and UpdateToken
// cannot fail the request that triggers them, so their errors are logged.
type DBSessionStore struct {
	cookies

	sessions sessionRepository
	users    userRepository
	log      *zap.Logger
}

// NewDBSessionStore creates a new database-backed session store.
func NewDBSessionStore(database *db.DB, secureCookies bool, log *zap.Logger) *DBSessionStore {
	return &DBSessionStore{
		cookies:  cookies{secure: secureCookies},
		sessions: database.Sessions(),
		users:    database.Users(),
		log:      log.Named("sessions"),
	}
}

// Create records the user and stores a new session in the database.
func (s *DBSessionStore) Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	if err := s.users.Upsert(ctx, &db.User{ID: userID, DisplayName: userName}); err != nil {
		return nil, err
	}

	now := time.Now()
	dbSession := &db.Session{
		ID:           id,
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}

	if err := s.sessions.Create(ctx, dbSession); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
	}, nil
}

// Get retrieves a session by ID from the database. Lookup failures other
// than a missing or expired session are logged.
func (s *DBSessionStore) Get(ctx context.Context, id string) *Session {
	dbSession, err := s.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.log.Warn("loading session", zap.Error(err))
		}
		return nil
	}

	user, err := s.users.Get(ctx, dbSession.UserID)
	if err != nil {
		s.log.Warn("loading session user", zap.String("user_id", dbSession.UserID), zap.Error(err))
		return nil
	}

	return &Session{
		ID: dbSession.ID,
		Token: &oauth2.Token{
			AccessToken:  dbSession.AccessToken,
			RefreshToken: dbSession.RefreshToken,
			Expiry:       dbSession.TokenExpiry,
			TokenType:    "Bearer",
		},
		UserID:    dbSession.UserID,
		UserName:  user.DisplayName,
		CreatedAt: dbSession.CreatedAt,
	}
}

// Delete removes a session from the database.
func (s *DBSessionStore) Delete(ctx context.Context, id string) {
	err := s.sessions.Delete(ctx, id)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.log.Warn("deleting session", zap.Error(err))
	}
}

// UpdateToken updates the OAuth token for a session in the database.
func (s *DBSessionStore) UpdateToken(ctx context.Context, id string, token *oauth2.Token) {
	if err := s.sessions.UpdateToken(ctx, id, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
		s.log.Warn("saving refreshed token", zap.Error(err))
	}
}

// GetFromRequest extracts the session from the request cookie.
func (s *DBSessionStore) GetFromRequest(r *http.Request) *Session {
	id := sessionID(r)
	if id == "" {
		return nil
	}
	return s.Get(r.Context(), id)
}

// Prune removes expired sessions from the database.
func (s *DBSessionStore) Prune(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
)
