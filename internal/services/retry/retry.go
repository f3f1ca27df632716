// Package retry wraps an operation with exponential-backoff retry on
// transient failure classes. The policy is a pure decorator: it never
// inspects or mutates the operation's result, only its failure.
package retry

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultRetries is the retry budget applied when none is configured,
	// yielding retries+1 total attempts.
	DefaultRetries = 3
	// DefaultInitialDelay is the wait before the first retry; each
	// subsequent retry doubles it (2s, 4s, 8s with defaults).
	DefaultInitialDelay = 2 * time.Second
)

// Policy describes how failures are retried.
type Policy struct {
	// Retries is the maximum number of retries after the first attempt.
	// Zero means use DefaultRetries; a negative value disables retrying.
	Retries int
	// InitialDelay is the wait before the first retry. Zero means use
	// DefaultInitialDelay.
	InitialDelay time.Duration
	// Classify reports whether an error is transient and worth retrying.
	// Nil means IsTransient.
	Classify func(error) bool
	// Sleep performs the backoff wait. Nil sleeps on a timer honoring
	// context cancellation. Tests inject a recorder here.
	Sleep func(context.Context, time.Duration) error
}

// Default returns the policy mandated for provider calls: 3 retries with a
// 2 second initial delay.
func Default() Policy {
	return Policy{Retries: DefaultRetries, InitialDelay: DefaultInitialDelay}
}

// Do executes op under the policy. Transient failures wait the current
// delay, then retry with the delay doubled, until the budget is exhausted.
// Permanent failures, or exhaustion, propagate the last error unchanged.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	retries := p.Retries
	if retries == 0 {
		retries = DefaultRetries
	}
	if retries < 0 {
		retries = 0
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	classify := p.Classify
	if classify == nil {
		classify = IsTransient
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}

	remaining := retries
	for {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if remaining <= 0 || !classify(err) {
			return zero, err
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
		delay *= 2
		remaining--
	}
}

// HTTPStatusCoder is implemented by errors that carry an upstream HTTP
// status, letting the classifier distinguish overload from contract errors.
type HTTPStatusCoder interface {
	HTTPStatus() int
}

var overloadMarkers = []string{
	"overloaded",
	"rate limit",
	"too many requests",
	"service unavailable",
	"try again",
}

// IsTransient reports whether an error represents an overloaded or
// rate-limited upstream: HTTP 503, HTTP 429, or a message substring
// indicating overload. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var coder HTTPStatusCoder
	if errors.As(err, &coder) {
		switch coder.HTTPStatus() {
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return true
		default:
			return false
		}
	}
	message := strings.ToLower(err.Error())
	for _, marker := range overloadMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

func sleepTimer(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
