// Package retry re-invokes idempotent API calls that failed for reasons
// that may clear up on their own. It wraps an eplite.Invoker; the client
// itself never retries.
package retry

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/etherpad/eplite-go/eplite"
	"github.com/etherpad/eplite-go/internal/debug"
)

// Default retry configuration values
const (
	DefaultMaxRetries = 2
	DefaultDelay      = 500 * time.Millisecond
	DefaultMaxDelay   = 5 * time.Second
)

// Config holds retry settings. MaxRetries of zero disables retries.
type Config struct {
	MaxRetries int
	Delay      time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig returns a Config populated from environment variables
// with fallback to default values.
//
// Environment variables:
//   - EPLITE_MAX_RETRIES: retries after the first attempt (default: 2)
//   - EPLITE_RETRY_DELAY: initial delay between attempts (default: "500ms")
func DefaultConfig() Config {
	return Config{
		MaxRetries: getEnvInt("EPLITE_MAX_RETRIES", DefaultMaxRetries),
		Delay:      getEnvDuration("EPLITE_RETRY_DELAY", DefaultDelay),
		MaxDelay:   DefaultMaxDelay,
	}
}

// getEnvInt reads an integer from an environment variable with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}

// Invoker retries GET calls whose failure is classified as retryable
// (transport failures, timeouts and remote internal errors). POST calls
// pass through untouched since they are not idempotent.
type Invoker struct {
	next eplite.Invoker
	cfg  Config
}

var _ eplite.Invoker = (*Invoker)(nil)

// Wrap returns next unchanged when cfg disables retries.
func Wrap(next eplite.Invoker, cfg Config) eplite.Invoker {
	if cfg.MaxRetries <= 0 {
		return next
	}
	return &Invoker{next: next, cfg: cfg}
}

// Invoke implements eplite.Invoker.
func (r *Invoker) Invoke(ctx context.Context, method string, verb eplite.Verb, args eplite.Args) (eplite.Payload, error) {
	if verb != eplite.GET {
		return r.next.Invoke(ctx, method, verb, args)
	}

	var payload eplite.Payload
	attempt := 0
	op := func() error {
		attempt++
		p, err := r.next.Invoke(ctx, method, verb, args)
		if err != nil {
			if !Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		payload = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if debug.IsEnabled(ctx) {
			slog.Debug("retrying call", "method", method, "attempt", attempt, "wait", wait, "error", err)
		}
	}

	if err := backoff.RetryNotify(op, r.policy(ctx), notify); err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *Invoker) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.Delay
	if r.cfg.MaxDelay > 0 {
		b.MaxInterval = r.cfg.MaxDelay
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.cfg.MaxRetries)), ctx)
}

// Retryable reports whether err may succeed when the call is repeated.
func Retryable(err error) bool {
	se := eplite.StructuredErrorFromError(err)
	return se != nil && se.Retryable
}
