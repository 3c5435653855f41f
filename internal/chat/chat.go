// Package chat builds supportive chat replies and playlist suggestions on
// top of a text generation model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable is returned when no model backend is configured.
	ErrUnavailable = errors.New("chat model unavailable")

	// ErrEmptyMessage is returned when the user message is blank.
	ErrEmptyMessage = errors.New("message is required")
)

// historyWindow is how many previous messages are kept in the prompt.
const historyWindow = 6

// Model generates a text completion for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Message is one turn of a previous conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MoodContext is the mood analysis the user is currently looking at.
type MoodContext struct {
	Mood          string   `json:"mood"`
	Confidence    float64  `json:"confidence"`
	Insights      []string `json:"insights,omitempty"`
	Advice        string   `json:"advice,omitempty"`
	Encouragement string   `json:"encouragement,omitempty"`
}

// Request is a chat message with its optional context.
type Request struct {
	Message     string       `json:"message"`
	MoodContext *MoodContext `json:"moodContext,omitempty"`
	History     []Message    `json:"conversationHistory,omitempty"`
}

// Service answers chat messages using a Model.
type Service struct {
	model Model
	log   *zap.Logger
}

// NewService creates a Service. A nil model yields a Service whose
// methods return ErrUnavailable.
func NewService(model Model, log *zap.Logger) *Service {
	return &Service{model: model, log: log.Named("chat")}
}

// Available reports whether a model backend is configured.
func (s *Service) Available() bool {
	return s.model != nil
}

// Reply generates the assistant's answer to req.
func (s *Service) Reply(ctx context.Context, req Request) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	prompt := BuildPrompt(req)
	s.log.Debug("generating reply",
		zap.Int("history", len(req.History)),
		zap.Bool("mood_context", req.MoodContext != nil),
	)

	reply, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return reply, nil
}

// BuildPrompt assembles the full model prompt for a chat request.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	if mc := req.MoodContext; mc != nil {
		insights := strings.Join(mc.Insights, ". ")
		if insights == "" {
			insights = "No specific insights available."
		}
		message := mc.Advice
		if message == "" {
			message = mc.Encouragement
		}
		fmt.Fprintf(&b, "Current user mood analysis: %s (confidence: %d%%). Recent insights: %s %s\n\n",
			mc.Mood, percent(mc.Confidence), insights, message)
	}

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, m := range history {
			role := "Assistant"
			if m.Role == "user" {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\n\nAssistant:", req.Message)
	return b.String()
}

// percent converts a 0..1 confidence to a whole percentage, rounding
// halves up.
func percent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}

const systemPrompt = `You are a compassionate and professional AI therapy assistant integrated into Listenfy, a music mood analysis app. Your role is to:

1. Provide supportive, empathetic responses based on the user's mood and music listening patterns
2. Offer practical advice for mental wellness
3. Suggest specific music or playlists that could help improve the user's mood
4. Use music therapy principles when appropriate
5. Maintain professional boundaries while being warm and approachable
6. Never provide medical diagnoses or replace professional therapy

Guidelines:
- Be empathetic and non-judgmental
- Ask thoughtful follow-up questions
- Validate the user's feelings
- Suggest practical coping strategies
- Incorporate music-based recommendations
- Encourage professional help when appropriate
- Keep responses concise but meaningful (2-3 paragraphs max)

Remember: You're here to support and guide, not to diagnose or replace professional mental health care.`
