package ai

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// DefaultRequestTimeout bounds a single upstream call.
const DefaultRequestTimeout = 120 * time.Second

// TimeoutProvider wraps a Provider with a hard per-request deadline. Failed
// or expired calls surface immediately; the relay never retries.
type TimeoutProvider struct {
	inner ai.Provider
	d     time.Duration
	t     timeout.Timeout[*ai.ChatResponse]
}

func NewTimeoutProvider(inner ai.Provider, d time.Duration) *TimeoutProvider {
	if d <= 0 {
		d = DefaultRequestTimeout
	}
	return &TimeoutProvider{
		inner: inner,
		d:     d,
		t: timeout.New[*ai.ChatResponse](timeout.Config{
			DefaultTimeout: d,
		}),
	}
}

func (p *TimeoutProvider) ID() string {
	return p.inner.ID()
}

func (p *TimeoutProvider) CreateChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.t.Execute(ctx, p.d, func(ctx context.Context) (*ai.ChatResponse, error) {
		return p.inner.CreateChat(ctx, req)
	})
}
