package web

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/chat"
)

const chatUnavailableMessage = "AI chat service is currently unavailable. Please configure an LLM backend."

type chatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage answers a chat message (POST /api/chat/message).
func (h *Handlers) ChatMessage(w http.ResponseWriter, r *http.Request) {
	if !h.chat.Available() {
		writeError(w, http.StatusServiceUnavailable, chatUnavailableMessage)
		return
	}

	var req chat.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.chat.Reply(r.Context(), req)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	case errors.Is(err, chat.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, chatUnavailableMessage)
		return
	case err != nil:
		h.log.Error("chat reply failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply, Timestamp: h.now().UTC()})
}

// PlaylistRecommendation suggests a playlist for a mood journey
// (POST /api/chat/playlist-recommendation).
func (h *Handlers) PlaylistRecommendation(w http.ResponseWriter, r *http.Request) {
	if !h.chat.Available() {
		writeError(w, http.StatusServiceUnavailable, chatUnavailableMessage)
		return
	}

	var req chat.PlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.chat.RecommendPlaylist(r.Context(), req)
	if err != nil {
		h.log.Error("playlist recommendation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate playlist recommendation")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
