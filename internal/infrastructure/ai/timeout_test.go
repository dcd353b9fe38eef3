package ai_test

import (
	"context"
	"testing"
	"time"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
	infraAI "github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/ai"
)

// slowProvider blocks until its delay elapses or the context is done.
type slowProvider struct {
	delay   time.Duration
	content string
}

func (p *slowProvider) ID() string { return "slow" }

func (p *slowProvider) CreateChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	select {
	case <-time.After(p.delay):
		return &ai.ChatResponse{Content: p.content}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestTimeoutProvider_PassesThrough(t *testing.T) {
	inner := &slowProvider{delay: time.Millisecond, content: `{"ok":true}`}
	p := infraAI.NewTimeoutProvider(inner, time.Second)

	resp, err := p.CreateChat(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	if resp.Content != `{"ok":true}` {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if p.ID() != "slow" {
		t.Errorf("ID should delegate to the wrapped provider, got %s", p.ID())
	}
}

func TestTimeoutProvider_CutsOffSlowCalls(t *testing.T) {
	inner := &slowProvider{delay: 5 * time.Second}
	p := infraAI.NewTimeoutProvider(inner, 20*time.Millisecond)

	start := time.Now()
	_, err := p.CreateChat(context.Background(), ai.ChatRequest{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestTimeoutProvider_DefaultDeadline(t *testing.T) {
	inner := &slowProvider{delay: time.Millisecond, content: "{}"}
	p := infraAI.NewTimeoutProvider(inner, 0)

	resp, err := p.CreateChat(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	if resp.Content != "{}" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
}
