package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// fakeModel records prompts and returns a canned reply.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		contains    []string
		notContains []string
	}{
		{
			name:     "message only",
			req:      Request{Message: "hello"},
			contains: []string{systemPrompt + "\n\n", "User: hello\n\nAssistant:"},
			notContains: []string{
				"Current user mood analysis",
				"Previous conversation",
			},
		},
		{
			name: "mood context with insights and advice",
			req: Request{
				Message: "hi",
				MoodContext: &MoodContext{
					Mood:       "sad",
					Confidence: 0.856,
					Insights:   []string{"one", "two"},
					Advice:     "rest",
				},
			},
			contains: []string{
				"Current user mood analysis: sad (confidence: 86%). Recent insights: one. two rest\n\n",
			},
		},
		{
			name: "mood context without insights uses encouragement",
			req: Request{
				Message: "hi",
				MoodContext: &MoodContext{
					Mood:          "happy",
					Confidence:    0.8,
					Encouragement: "keep going",
				},
			},
			contains: []string{
				"(confidence: 80%). Recent insights: No specific insights available. keep going\n\n",
			},
		},
		{
			name: "history roles",
			req: Request{
				Message: "third",
				History: []Message{
					{Role: "user", Content: "first"},
					{Role: "assistant", Content: "reply"},
				},
			},
			contains: []string{
				"Previous conversation:\nUser: first\nAssistant: reply\n\nUser: third\n\nAssistant:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.req)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("prompt missing %q\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("prompt contains %q", unwanted)
				}
			}
			if !strings.HasPrefix(got, systemPrompt) {
				t.Error("prompt does not start with the system prompt")
			}
		})
	}
}

func TestBuildPromptKeepsLastSixMessages(t *testing.T) {
	var history []Message
	for i := 1; i <= 9; i++ {
		history = append(history, Message{Role: "user", Content: fmt.Sprintf("msg-%d", i)})
	}

	got := BuildPrompt(Request{Message: "now", History: history})

	for i := 1; i <= 3; i++ {
		if strings.Contains(got, fmt.Sprintf("msg-%d\n", i)) {
			t.Errorf("prompt keeps old message msg-%d", i)
		}
	}
	for i := 4; i <= 9; i++ {
		if !strings.Contains(got, fmt.Sprintf("User: msg-%d\n", i)) {
			t.Errorf("prompt missing recent message msg-%d", i)
		}
	}
}

func TestReply(t *testing.T) {
	model := &fakeModel{reply: "I hear you."}
	svc := NewService(model, zap.NewNop())

	got, err := svc.Reply(context.Background(), Request{Message: "rough day"})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if got != "I hear you." {
		t.Errorf("Reply() = %q, want %q", got, "I hear you.")
	}
	if len(model.prompts) != 1 || !strings.HasSuffix(model.prompts[0], "User: rough day\n\nAssistant:") {
		t.Errorf("unexpected prompts: %q", model.prompts)
	}
}

func TestReplyErrors(t *testing.T) {
	modelErr := errors.New("quota exceeded")

	tests := []struct {
		name    string
		model   Model
		message string
		wantErr error
	}{
		{"no model", nil, "hi", ErrUnavailable},
		{"empty message", &fakeModel{}, "  ", ErrEmptyMessage},
		{"model failure", &fakeModel{err: modelErr}, "hi", modelErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.model, zap.NewNop())
			_, err := svc.Reply(context.Background(), Request{Message: tt.message})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Reply() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
