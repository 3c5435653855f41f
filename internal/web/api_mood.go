package web

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/mood"
	"github.com/justestif/go-listenfy/internal/spotify"
	"github.com/justestif/go-listenfy/internal/trends"
)

// maxMixClusters bounds the clusters a mix request may ask for.
const maxMixClusters = 10

type analyzeRequest struct {
	AudioFeatures []*mood.AudioFeatures `json:"audioFeatures"`
	TimeRange     string                `json:"timeRange"`
}

type analyzeResponse struct {
	mood.Analysis
	TimeRange string    `json:"timeRange,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Analyze classifies a batch of audio features (POST /api/mood/analyze).
// When the caller is logged in the result is recorded for trends.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AudioFeatures == nil {
		writeError(w, http.StatusBadRequest, "Audio features required")
		return
	}

	analysis := h.engine.Analyze(req.AudioFeatures)
	h.record(r.Context(), h.sessions.GetFromRequest(r), req.TimeRange, analysis)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:  analysis,
		TimeRange: req.TimeRange,
		Timestamp: h.now().UTC(),
	})
}

// Current analyzes the user's top tracks for a time range
// (GET /api/mood/current).
func (h *Handlers) Current(w http.ResponseWriter, r *http.Request) {
	timeRange, err := spotify.ParseTimeRange(r.URL.Query().Get("time_range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_range")
		return
	}
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	_, analysis, err := h.currentMood(r.Context(), session, lib, timeRange)
	if err != nil {
		h.upstreamError(w, "Failed to analyze current mood", err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:  analysis,
		TimeRange: string(timeRange),
		Timestamp: h.now().UTC(),
	})
}

type mixRequest struct {
	AudioFeatures []*mood.AudioFeatures `json:"audioFeatures"`
	Clusters      int                   `json:"clusters"`
}

type mixResponse struct {
	Segments []mood.Segment `json:"segments"`
}

// Mix splits a batch of audio features into mood segments
// (POST /api/mood/mix).
func (h *Handlers) Mix(w http.ResponseWriter, r *http.Request) {
	var req mixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AudioFeatures == nil {
		writeError(w, http.StatusBadRequest, "Audio features required")
		return
	}
	if req.Clusters < 0 || req.Clusters > maxMixClusters {
		writeError(w, http.StatusBadRequest, "clusters must be between 0 and 10")
		return
	}

	cfg := mood.DefaultMixConfig()
	if req.Clusters > 0 {
		cfg.NumClusters = req.Clusters
	}

	segments := mood.Mix(req.AudioFeatures, cfg)
	if segments == nil {
		segments = []mood.Segment{}
	}
	writeJSON(w, http.StatusOK, mixResponse{Segments: segments})
}

// Genres derives a mood label from the genres of the user's top artists
// (GET /api/mood/genres).
func (h *Handlers) Genres(w http.ResponseWriter, r *http.Request) {
	timeRange, err := spotify.ParseTimeRange(r.URL.Query().Get("time_range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_range")
		return
	}
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	artists, err := lib.TopArtists(r.Context(), timeRange, dashboardArtists)
	if err != nil {
		h.upstreamError(w, "Failed to fetch top artists", err)
		return
	}
	writeJSON(w, http.StatusOK, mood.ClassifyGenres(artistGenres(artists)))
}

// Trends returns the user's daily mood trend (GET /api/mood/trends).
func (h *Handlers) Trends(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	days := trends.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid days")
			return
		}
		days = n
	}

	points, err := h.trends.Trend(r.Context(), session.UserID, days)
	if err != nil {
		h.log.Error("loading mood trend", zap.String("user_id", session.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch mood trends")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// ClearTrends deletes the user's recorded mood history
// (DELETE /api/mood/trends).
func (h *Handlers) ClearTrends(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.trends.Clear(r.Context(), session.UserID); err != nil {
		h.log.Error("clearing mood trend", zap.String("user_id", session.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to clear mood trends")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
