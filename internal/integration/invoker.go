package integration

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.pavemaster.dev/integrations/internal/metrics"
	"go.pavemaster.dev/integrations/log"
)

// DefaultRetryAfterSeconds is used when a 429 carries no usable Retry-After header.
const DefaultRetryAfterSeconds = 1

// maxBackoffExponent is the largest exponent whose delay still fits a time.Duration.
const maxBackoffExponent = 33

// RateLimitedInvoker runs a call and retries it exactly once after an HTTP 429.
type RateLimitedInvoker struct {
	sleep   func(ctx context.Context, d time.Duration) error
	logger  log.Logger
	metrics *metrics.Metrics
}

// InvokerOption configures a RateLimitedInvoker.
type InvokerOption func(*RateLimitedInvoker)

// WithSleeper replaces the backoff sleep, mostly for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) InvokerOption {
	return func(i *RateLimitedInvoker) { i.sleep = sleep }
}

// WithInvokerLogger sets the logger.
func WithInvokerLogger(logger log.Logger) InvokerOption {
	return func(i *RateLimitedInvoker) { i.logger = logger }
}

// WithInvokerMetrics sets the metrics sink.
func WithInvokerMetrics(m *metrics.Metrics) InvokerOption {
	return func(i *RateLimitedInvoker) { i.metrics = m }
}

// NewRateLimitedInvoker creates an invoker that sleeps on the wall clock.
func NewRateLimitedInvoker(opts ...InvokerOption) *RateLimitedInvoker {
	inv := &RateLimitedInvoker{
		sleep:  sleepContext,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs call. If it fails with HTTP 429 the invoker waits BackoffDelay and
// runs call one more time, returning that outcome as is, even a second 429.
// Any other error is returned immediately.
func Invoke[T any](ctx context.Context, inv *RateLimitedInvoker, call func(context.Context) (T, error)) (T, error) {
	result, err := call(ctx)
	if err == nil {
		return result, nil
	}

	status, header, ok := StatusOf(err)
	if !ok || status != http.StatusTooManyRequests {
		return result, err
	}

	delay := BackoffDelay(header)
	inv.logger.Warn(ctx, "Rate limited by platform, retrying once", log.Fields{
		"delay":       delay.String(),
		"retry_after": header.Get("Retry-After"),
	})
	inv.metrics.RateLimitRetry(platformFromContext(ctx))

	if sleepErr := inv.sleep(ctx, delay); sleepErr != nil {
		var zero T
		return zero, fmt.Errorf("rate limit backoff interrupted: %w", sleepErr)
	}

	return call(ctx)
}

// BackoffDelay computes the wait before the single retry: 2^Retry-After seconds.
//
// The server-supplied value is used as the exponent, not as the delay itself.
// That is how the suite has always behaved; it grows very fast for values above 10.
// Delays that would overflow time.Duration are clamped to the maximum duration.
func BackoffDelay(header http.Header) time.Duration {
	n := retryAfterSeconds(header)
	if n > maxBackoffExponent {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(int64(1)<<uint(n)) * time.Second
}

// retryAfterSeconds reads Retry-After as whole seconds, defaulting to 1.
// HTTP-date values, negatives and garbage all count as absent.
func retryAfterSeconds(header http.Header) int {
	if header == nil {
		return DefaultRetryAfterSeconds
	}
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return DefaultRetryAfterSeconds
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return DefaultRetryAfterSeconds
	}
	return n
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
