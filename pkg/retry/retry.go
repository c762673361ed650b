// Package retry implements exponential backoff, both as a blocking loop (Do)
// and as a delay calculator for callers that schedule attempts themselves.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"
)

// ErrInvalidAttempts is returned by Do when MaxAttempts is not positive.
var ErrInvalidAttempts = errors.New("retry: MaxAttempts must be greater than 0")

// Config holds retry strategy configuration.
type Config struct {
	// MaxAttempts counts the initial attempt.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryableErrors are case-insensitive substrings. Empty means every error is retryable.
	RetryableErrors []string
	// OnRetry, when set, is called before sleeping between attempts.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     5,
		InitialDelay:    time.Second,
		MaxDelay:        30 * time.Second,
		Multiplier:      2.0,
		RetryableErrors: []string{},
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for functions that produce a value.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, ErrInvalidAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryableError(err, cfg) || Exhausted(attempt, cfg) {
			break
		}

		delay := Backoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// Backoff returns the jittered delay to wait after the given number of failed attempts.
func Backoff(failedAttempts int, cfg Config) time.Duration {
	return addJitter(calculateDelay(failedAttempts-1, cfg))
}

// Exhausted reports whether failedAttempts has used up the configured attempts.
func Exhausted(failedAttempts int, cfg Config) bool {
	return failedAttempts >= cfg.MaxAttempts
}

// calculateDelay returns InitialDelay * Multiplier^step capped at MaxDelay.
func calculateDelay(step int, cfg Config) time.Duration {
	if step < 0 {
		step = 0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(step))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}

// addJitter spreads delay by up to 10% either way.
func addJitter(delay time.Duration) time.Duration {
	//nolint:gosec // jitter needs no cryptographic randomness
	jitter := float64(delay) * 0.1 * (rand.Float64()*2 - 1)
	return delay + time.Duration(jitter)
}

// IsRetryableError checks if error should trigger a retry.
func IsRetryableError(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if len(cfg.RetryableErrors) == 0 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// DefaultPostgresRetryableErrors lists messages PostgreSQL and the network
// stack produce while the server is unreachable or still starting.
func DefaultPostgresRetryableErrors() []string {
	return []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"i/o timeout",
		"dial tcp",
		"network is unreachable",
		"no connection could be made",
		"server closed the connection",
		"too many connections",
		"database system is starting up",
	}
}

// DeliveryConfig returns retry configuration for asynchronous notification delivery.
// Every delivery error is retryable; maxAttempts bounds how long an event keeps being retried.
func DeliveryConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:     maxAttempts,
		InitialDelay:    2 * time.Second,
		MaxDelay:        5 * time.Minute,
		Multiplier:      2.0,
		RetryableErrors: []string{},
	}
}

// PostgresConfig returns retry configuration for establishing PostgreSQL connections.
func PostgresConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryableErrors = DefaultPostgresRetryableErrors()
	return cfg
}
