package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// withRetry runs fn up to maxRetries times, doubling backoff between attempts.
func withRetry(ctx context.Context, target string, maxRetries int, backoff time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn(
			"Attempt failed, will retry.",
			"target", target,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)
		if i == maxRetries-1 {
			break
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "target", target, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Failed after all retries.", "target", target, "error", lastErr)
	return fmt.Errorf("%s failed after all retries: %w", target, lastErr)
}
