package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), &Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown should not fail: %v", err)
	}
}

func TestRecordBeforeInitIsSafe(t *testing.T) {
	// Instruments are nil until Init runs; recording must not panic.
	ctx := context.Background()
	RecordRequest(ctx, "POST", 200, time.Millisecond)
	RecordUpstreamRequest(ctx, "gpt-4o", "success", time.Millisecond)
	RecordTokens(ctx, "gpt-4o", 10, 5)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvOTelEnabled, "")
	t.Setenv(EnvOTLPEndpoint, "")
	t.Setenv("REQBOT_ENV", "")
	t.Setenv("ENVIRONMENT", "")

	cfg := DefaultConfig()
	if cfg.Enabled {
		t.Error("telemetry should be disabled by default")
	}
	if cfg.OTLPEndpoint != DefaultOTLPEndpoint {
		t.Errorf("unexpected endpoint: %s", cfg.OTLPEndpoint)
	}
	if cfg.Environment != "development" {
		t.Errorf("unexpected environment: %s", cfg.Environment)
	}

	t.Setenv(EnvOTelEnabled, "1")
	t.Setenv("REQBOT_ENV", "production")
	cfg = DefaultConfig()
	if !cfg.Enabled {
		t.Error("REQBOT_OTEL_ENABLED=1 should enable telemetry")
	}
	if cfg.SampleRate != 0.1 {
		t.Errorf("production should lower the sample rate, got %v", cfg.SampleRate)
	}
}
