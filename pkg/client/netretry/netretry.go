// Package netretry provides shared retry utilities for transient network
// errors seen while reaching freshly launched machines (SSH, salt-api).
package netretry

import (
	"context"
	"strings"
	"time"
)

// IsRetryable returns true if the error indicates a transient network error
// that should be retried. This covers TCP-level errors such as connection
// resets, refused connections and timeouts, which are all expected while a
// machine is still booting.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	textPatterns := []string{
		"connection reset by peer", "connection refused",
		"i/o timeout", "handshake failed",
		"unexpected EOF", "no such host",
		"no route to host", "network is unreachable",
	}

	for _, pattern := range textPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// ExponentialDelay returns the delay for the given retry attempt
// using exponential backoff.
// Uses the formula: min(baseWait * 2^(attempt-1), maxWait).
func ExponentialDelay(attempt int, baseWait, maxWait time.Duration) time.Duration {
	return min(baseWait*time.Duration(1<<(attempt-1)), maxWait)
}

// Do runs fn up to attempts times, sleeping the exponential delay between
// tries, until it succeeds or returns a non-retryable error. The context
// cancels the wait between attempts.
func Do(ctx context.Context, attempts int, baseWait, maxWait time.Duration, fn func() error) error {
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ExponentialDelay(attempt, baseWait, maxWait)):
		}
	}

	return err
}
