package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

// FallbackChain wraps a primary and secondary Completer with two layers:
// per-provider retry with backoff, then provider failover. The third
// layer (the canned apology) belongs to the dispatch pipeline.
type FallbackChain struct {
	primary     Completer
	secondary   Completer
	retryConfig RetryConfig
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewFallbackChain creates a fallback-enabled completer.
// If secondary is nil, only retry logic is applied to the primary.
func NewFallbackChain(primary, secondary Completer, cfg RetryConfig, log *logger.Logger, m *metrics.Metrics) *FallbackChain {
	return &FallbackChain{
		primary:     primary,
		secondary:   secondary,
		retryConfig: cfg,
		log:         log.WithModule("genai"),
		metrics:     m,
	}
}

// Complete tries the primary completer with retry, then the secondary.
func (f *FallbackChain) Complete(ctx context.Context, message, displayName string) (string, error) {
	if f == nil || f.primary == nil {
		return "", errors.New("no fallback provider configured")
	}

	start := time.Now()

	text, err := f.completeWithRetry(ctx, f.primary, message, displayName)
	if err == nil {
		f.metrics.RecordFallback(f.primary.Provider(), "success")
		return text, nil
	}

	action := ClassifyError(err)
	f.metrics.RecordFallback(f.primary.Provider(), "error")
	f.log.WithFields(map[string]any{
		"provider":    f.primary.Provider(),
		"action":      action.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).WithError(err).Warn("Primary fallback provider failed")

	if action == ActionFail || f.secondary == nil {
		return "", err
	}

	text, err = f.completeWithRetry(ctx, f.secondary, message, displayName)
	if err == nil {
		f.metrics.RecordFallback(f.secondary.Provider(), "success")
		return text, nil
	}

	f.metrics.RecordFallback(f.secondary.Provider(), "error")
	f.log.WithFields(map[string]any{
		"primary":   f.primary.Provider(),
		"secondary": f.secondary.Provider(),
	}).WithError(err).Error("All fallback providers failed")

	return "", fmt.Errorf("all providers failed: %w", err)
}

// Provider reports the primary provider name.
func (f *FallbackChain) Provider() string {
	if f == nil || f.primary == nil {
		return "none"
	}
	return f.primary.Provider()
}

func (f *FallbackChain) completeWithRetry(ctx context.Context, c Completer, message, displayName string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.retryConfig.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		text, err := c.Complete(ctx, message, displayName)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ClassifyError(err) != ActionRetry {
			return "", err
		}

		// Last attempt, don't sleep
		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		delay := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)
		if err := Sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}
