package ai

import (
	"context"
	"fmt"
)

// Message is one chat turn. ImageURL, when set, is attached to the
// message as an additional image content part.
type Message struct {
	Role     string
	Text     string
	ImageURL string
}

// ChatRequest represents a chat-completion call to the AI.
type ChatRequest struct {
	Model          string
	Messages       []Message
	ResponseFormat map[string]interface{}
}

// ChatResponse represents the AI's answer.
type ChatResponse struct {
	Content string
	Usage   TokenUsage
	Model   string
}

// TokenUsage tracks costs.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Provider is the interface for all AI backends.
type Provider interface {
	ID() string
	CreateChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// UpstreamError reports a non-success status from the completion service.
// The upstream response body is carried in the message so callers can relay
// it to their own clients unchanged.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion service returned %d: %s", e.Status, e.Body)
}
