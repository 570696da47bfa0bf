package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultConnectBackoff = 500 * time.Millisecond
	maxConnectBackoff     = 10 * time.Second
)

// retryPolicy bounds startup connection attempts to a dependency.
type retryPolicy struct {
	// attempts is the number of retries after the first try.
	attempts int
	backoff  time.Duration
}

func (p retryPolicy) backoffs() retry.Backoff {
	base := p.backoff
	if base <= 0 {
		base = defaultConnectBackoff
	}
	attempts := p.attempts
	if attempts < 0 {
		attempts = 0
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(maxConnectBackoff, b)
	return retry.WithMaxRetries(uint64(attempts), b)
}

// connectWithRetry calls connect until it succeeds, the policy is exhausted,
// or ctx is done. Connection errors are not logged here because they may
// embed credentials; the caller logs the final error sanitized.
func connectWithRetry[T any](
	ctx context.Context,
	logger *slog.Logger,
	name string,
	policy retryPolicy,
	connect func(context.Context) (T, error),
) (T, error) {
	var out T
	attempt := 0

	err := retry.Do(ctx, policy.backoffs(), func(ctx context.Context) error {
		attempt++
		v, err := connect(ctx)
		if err != nil {
			logger.Warn("dependency not ready",
				slog.String("dependency", name),
				slog.Int("attempt", attempt),
			)
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})

	return out, err
}
