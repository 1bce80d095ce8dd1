// Package retry runs operations against unreliable external services a
// bounded number of times. Attempts are strictly sequential with no backoff
// or jitter, so the attempt count alone bounds the external load and the
// last error stays meaningful.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Config bounds a sequence of attempts.
type Config struct {
	MaxAttempts int
	// PerAttempt bounds each individual attempt via a context deadline.
	// Zero means no per-attempt timeout.
	PerAttempt time.Duration
}

var errEmptyResponse = errors.New("empty response")

// Text runs op until it yields non-blank text, up to cfg.MaxAttempts times.
// An attempt counts as failed if it returns an error or blank text. The
// first success returns the text trimmed of surrounding whitespace; once all
// attempts fail, the returned error wraps the last failure.
func Text(ctx context.Context, cfg Config, op func(context.Context) (string, error)) (string, error) {
	if cfg.MaxAttempts < 1 {
		return "", fmt.Errorf("retry: max attempts must be positive, got %d", cfg.MaxAttempts)
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := runAttempt(ctx, cfg.PerAttempt, op)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyResponse
		}
		if err == nil {
			return strings.TrimSpace(text), nil
		}

		lastErr = err
		log.Printf("Attempt %d/%d failed: %v", attempt, cfg.MaxAttempts, err)
	}

	return "", fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// Do is Text for operations without a result value. Blank output is not a
// concept here; only errors count as failures.
func Do(ctx context.Context, cfg Config, op func(context.Context) error) error {
	_, err := Text(ctx, cfg, func(ctx context.Context) (string, error) {
		if err := op(ctx); err != nil {
			return "", err
		}
		return "ok", nil
	})
	return err
}

func runAttempt(ctx context.Context, timeout time.Duration, op func(context.Context) (string, error)) (string, error) {
	if timeout > 0 {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return op(attemptCtx)
	}
	return op(ctx)
}
