package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/brightside-ai/supplement-chat/llm"
	"go.uber.org/zap"
)

// RetryConfig bounds the retry behavior for generation calls.
type RetryConfig struct {
	MaxAttempts     int           // total attempts, including the first
	InitialInterval time.Duration // first backoff interval
	MaxInterval     time.Duration // backoff cap
}

// DefaultRetryConfig mirrors the provider guidance for chat
// completion endpoints: three attempts, exponential backoff from a
// multi-second base.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 4 * time.Second,
		MaxInterval:     10 * time.Second,
	}
}

// withRetry runs one generation call, retrying transient provider
// failures with exponential backoff. Non-transient failures propagate
// immediately.
func (a *Agent) withRetry(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	cfg := a.config.Retry
	delay := cfg.InitialInterval
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !llm.IsTransient(err) {
			return err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Info("Retrying after transient failure",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s canceled during retry: %w", operation, ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, cfg.MaxInterval)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.MaxAttempts, lastErr)
}
