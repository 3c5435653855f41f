package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/spotify"
)

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// Profile returns the current user's profile (GET /api/spotify/profile).
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	profile, err := lib.Profile(r.Context())
	if err != nil {
		h.upstreamError(w, "Failed to fetch profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// TopTracks returns the user's top tracks (GET /api/spotify/top-tracks).
func (h *Handlers) TopTracks(w http.ResponseWriter, r *http.Request) {
	timeRange, limit, ok := topItemsParams(w, r)
	if !ok {
		return
	}
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	tracks, err := lib.TopTracks(r.Context(), timeRange, limit)
	if err != nil {
		h.upstreamError(w, "Failed to fetch top tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[spotify.Track]{Items: tracks})
}

// TopArtists returns the user's top artists (GET /api/spotify/top-artists).
func (h *Handlers) TopArtists(w http.ResponseWriter, r *http.Request) {
	timeRange, limit, ok := topItemsParams(w, r)
	if !ok {
		return
	}
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	artists, err := lib.TopArtists(r.Context(), timeRange, limit)
	if err != nil {
		h.upstreamError(w, "Failed to fetch top artists", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[spotify.Artist]{Items: artists})
}

// Recent returns recently played tracks (GET /api/spotify/recent).
func (h *Handlers) Recent(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	plays, err := lib.RecentlyPlayed(r.Context(), limit)
	if err != nil {
		h.upstreamError(w, "Failed to fetch recent tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[spotify.Play]{Items: plays})
}

// AudioFeatures returns audio features for up to 100 comma-separated
// track IDs (GET /api/spotify/audio-features?ids=...).
func (h *Handlers) AudioFeatures(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "Missing ids")
		return
	}
	if len(ids) > spotify.MaxTracksPerRequest {
		writeError(w, http.StatusBadRequest, "Too many track IDs (max 100 allowed)")
		return
	}

	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	features, err := lib.AudioFeatures(r.Context(), ids)
	if errors.Is(err, spotify.ErrTooManyIDs) {
		writeError(w, http.StatusBadRequest, "Too many track IDs (max 100 allowed)")
		return
	}
	if err != nil {
		h.upstreamError(w, "Failed to fetch audio features", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audio_features": features})
}

type createPlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TrackURIs   []string `json:"trackUris"`
}

// CreatePlaylist creates a private playlist with the given tracks
// (POST /api/spotify/create-playlist).
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	lib, session, ok := h.library(w, r)
	if !ok {
		return
	}
	defer h.persistToken(r.Context(), session, lib)

	var req createPlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Playlist name required")
		return
	}

	playlist, err := lib.CreatePlaylist(r.Context(), req.Name, req.Description, false, req.TrackURIs)
	if err != nil {
		h.upstreamError(w, "Failed to create playlist", err)
		return
	}
	h.log.Info("created playlist",
		zap.String("user_id", session.UserID),
		zap.String("playlist_id", playlist.ID),
		zap.Int("tracks", len(req.TrackURIs)),
	)
	writeJSON(w, http.StatusOK, playlist)
}

func (h *Handlers) upstreamError(w http.ResponseWriter, message string, err error) {
	h.log.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}

// topItemsParams parses time_range and limit, writing 400 on bad input.
func topItemsParams(w http.ResponseWriter, r *http.Request) (spotify.TimeRange, int, bool) {
	timeRange, err := spotify.ParseTimeRange(r.URL.Query().Get("time_range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time_range")
		return "", 0, false
	}
	limit, ok := limitParam(w, r)
	return timeRange, limit, ok
}

// limitParam parses the limit query parameter and clamps it to 1..50.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return spotify.DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return 0, false
	}
	return spotify.ClampLimit(n), true
}

// splitIDs splits a comma-separated ID list, dropping blank entries.
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
