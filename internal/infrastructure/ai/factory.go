package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// Options carries the provider configuration resolved by the config layer.
// The credential arrives here once, at construction.
type Options struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewProvider builds the configured backend wrapped with the request
// deadline.
func NewProvider(opts Options) (ai.Provider, error) {
	switch strings.ToLower(opts.Provider) {
	case "mock":
		return &MockProvider{}, nil
	case "", "openai":
		p := NewOpenAIProviderWithClient(opts.Model, opts.APIKey, opts.BaseURL, nil)
		return NewTimeoutProvider(p, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", opts.Provider)
	}
}
