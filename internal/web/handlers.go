package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/chat"
	"github.com/justestif/go-listenfy/internal/mood"
	"github.com/justestif/go-listenfy/internal/spotify"
	"github.com/justestif/go-listenfy/internal/trends"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 5 * time.Minute

	// dashboardArtists is how many top artists feed the genre mood.
	dashboardArtists = 10
)

// Dependencies are the services the handlers are built on.
type Dependencies struct {
	Connector     Connector
	Sessions      SessionManager
	Engine        mood.Engine
	Trends        *trends.Service
	Chat          *chat.Service
	Logger        *zap.Logger
	SecureCookies bool
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	connector     Connector
	sessions      SessionManager
	templates     *Templates
	engine        mood.Engine
	trends        *trends.Service
	chat          *chat.Service
	log           *zap.Logger
	secureCookies bool
	now           func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Dependencies, templates *Templates) *Handlers {
	engine := deps.Engine
	if engine == nil {
		engine = mood.Analyzer{}
	}
	return &Handlers{
		connector:     deps.Connector,
		sessions:      deps.Sessions,
		templates:     templates,
		engine:        engine,
		trends:        deps.Trends,
		chat:          deps.Chat,
		log:           deps.Logger.Named("web"),
		secureCookies: deps.SecureCookies,
		now:           time.Now,
	}
}

// Health reports liveness (GET /health).
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)

	data := HomePageData{
		PageData:      h.pageData(r, "Listenfy", session),
		Authenticated: session != nil,
	}
	if msg := r.URL.Query().Get("error"); msg != "" {
		data.Flash = &FlashMessage{Type: "error", Message: "Login failed: " + msg}
	}

	h.render(w, "home", data)
}

// Dashboard renders the user's mood, genres, trend and top tracks
// (GET /dashboard).
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	timeRange, err := spotify.ParseTimeRange(r.URL.Query().Get("time_range"))
	if err != nil {
		timeRange = spotify.MediumTerm
	}

	ctx := r.Context()
	lib := h.connector.Library(ctx, session.Token)
	defer h.persistToken(ctx, session, lib)

	data := DashboardPageData{
		PageData: h.pageData(r, "Your mood | Listenfy", session),
		Mood:     MoodPartialData{TimeRange: string(timeRange)},
	}

	tracks, analysis, err := h.currentMood(ctx, session, lib, timeRange)
	if err != nil {
		h.log.Error("loading dashboard mood", zap.Error(err))
		data.Flash = &FlashMessage{Type: "error", Message: "Could not load your listening data from Spotify."}
	} else {
		data.TopTracks = tracks
		data.Mood.Analysis = &analysis
	}

	if artists, err := lib.TopArtists(ctx, timeRange, dashboardArtists); err != nil {
		h.log.Warn("loading dashboard genres", zap.Error(err))
	} else {
		genre := mood.ClassifyGenres(artistGenres(artists))
		data.Genre = &genre
	}

	if trend, err := h.trends.Trend(ctx, session.UserID, trends.DefaultDays); err != nil {
		h.log.Warn("loading dashboard trend", zap.Error(err))
	} else {
		data.Trend = trend
	}

	h.render(w, "dashboard", data)
}

// MoodPartial renders only the mood card for a time range
// (GET /partials/mood).
func (h *Handlers) MoodPartial(w http.ResponseWriter, r *http.Request) {
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	timeRange, err := spotify.ParseTimeRange(r.URL.Query().Get("time_range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_range")
		return
	}

	_, analysis, err := h.currentMood(r.Context(), session, lib, timeRange)
	if err != nil {
		h.log.Error("loading mood partial", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to analyze current mood")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := MoodPartialData{TimeRange: string(timeRange), Analysis: &analysis}
	if err := h.templates.RenderPartial(w, "mood", data); err != nil {
		h.log.Error("rendering partial", zap.String("partial", "mood"), zap.Error(err))
	}
}

// Login starts the Spotify OAuth flow (GET /api/auth/login). It returns
// the consent URL as JSON, or redirects to it when ?redirect=1.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// Generate state for CSRF protection
	state, err := generateOAuthState()
	if err != nil {
		h.log.Error("generating oauth state", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})

	authURL := h.connector.AuthURL(state)
	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
}

// Callback handles the OAuth callback from Spotify (GET /api/auth/callback).
// Failures redirect home with an error code.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stateCookie, err := r.Cookie(stateCookieName)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || state != stateCookie.Value {
		h.loginFailed(w, r, "state_mismatch", errors.New("oauth state mismatch"))
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.loginFailed(w, r, errMsg, errors.New("spotify denied authorization"))
		return
	}

	token, err := h.connector.Exchange(ctx, state, r)
	if err != nil {
		h.loginFailed(w, r, "token_exchange_failed", err)
		return
	}

	lib := h.connector.Library(ctx, token)
	profile, err := lib.Profile(ctx)
	if err != nil {
		h.loginFailed(w, r, "profile_failed", err)
		return
	}

	session, err := h.sessions.Create(ctx, token, profile.ID, profile.DisplayName)
	if err != nil {
		h.loginFailed(w, r, "session_failed", err)
		return
	}

	h.sessions.SetCookie(w, session)
	h.log.Info("user logged in", zap.String("user_id", profile.ID))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Status reports whether the request carries a valid session
// (GET /api/auth/status).
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"isAuthenticated": h.sessions.GetFromRequest(r) != nil,
	})
}

// Logout clears the session (POST /api/auth/logout). Form posts from
// the pages are redirected home; API calls get JSON.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}
	h.sessions.ClearCookie(w)

	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) loginFailed(w http.ResponseWriter, r *http.Request, code string, err error) {
	h.log.Warn("login failed", zap.String("reason", code), zap.Error(err))
	http.Redirect(w, r, "/?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// library returns a Library for the request's session, or writes 401.
func (h *Handlers) library(w http.ResponseWriter, r *http.Request) (Library, *Session, bool) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, nil, false
	}
	return h.connector.Library(r.Context(), session.Token), session, true
}

// persistToken saves the library's token when it was refreshed during
// the request.
func (h *Handlers) persistToken(ctx context.Context, session *Session, lib Library) {
	token, err := lib.Token()
	if err != nil || token == nil || session.Token == nil {
		return
	}
	if token.AccessToken != session.Token.AccessToken {
		h.sessions.UpdateToken(ctx, session.ID, token)
	}
}

// currentMood analyzes the user's top tracks for a time range and records
// the result.
func (h *Handlers) currentMood(ctx context.Context, session *Session, lib Library, timeRange spotify.TimeRange) ([]spotify.Track, mood.Analysis, error) {
	tracks, err := lib.TopTracks(ctx, timeRange, spotify.DefaultLimit)
	if err != nil {
		return nil, mood.Analysis{}, err
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	features, err := lib.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, mood.Analysis{}, err
	}

	analysis := h.engine.Analyze(features)
	h.record(ctx, session, string(timeRange), analysis)
	return tracks, analysis, nil
}

// record stores a snapshot for the session user. Failures are logged,
// never returned: a missing trend point must not fail an analysis.
func (h *Handlers) record(ctx context.Context, session *Session, timeRange string, analysis mood.Analysis) {
	if session == nil {
		return
	}
	if err := h.trends.Record(ctx, session.UserID, timeRange, analysis); err != nil {
		h.log.Warn("recording mood snapshot", zap.String("user_id", session.UserID), zap.Error(err))
	}
}

func (h *Handlers) pageData(r *http.Request, title string, session *Session) PageData {
	data := PageData{Title: title, CurrentPath: r.URL.Path}
	if session != nil {
		data.User = &UserData{ID: session.UserID, Name: session.UserName}
	}
	return data
}

// isFormPost reports whether r carries an HTML form body. Parameters such
// as charset are ignored.
func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func (h *Handlers) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, page, data); err != nil {
		h.log.Error("rendering template", zap.String("page", page), zap.Error(err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

func artistGenres(artists []spotify.Artist) [][]string {
	genres := make([][]string, len(artists))
	for i, a := range artists {
		genres[i] = a.Genres
	}
	return genres
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
