// Package httpx holds the HTTP round trippers shared by the catalog client:
// retry with exponential backoff and verbose request logging.
package httpx

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// DefaultBackoff is the backoff used when none is configured.
var DefaultBackoff = ExponentialBackoff{
	InitialInterval: 1 * time.Second,
	MaxInterval:     30 * time.Second,
	Multiplier:      2.0,
}

// BackoffStrategy defines retry delay behavior
type BackoffStrategy interface {
	Duration(attempt int) time.Duration
}

// ExponentialBackoff implements exponential backoff
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func (b *ExponentialBackoff) Duration(attempt int) time.Duration {
	if attempt == 0 {
		return 0
	}
	delay := float64(b.InitialInterval) * math.Pow(b.Multiplier, float64(attempt-1))
	if delay > float64(b.MaxInterval) {
		return b.MaxInterval
	}
	return time.Duration(delay)
}

// ShouldRetryStatus reports whether a response status is worth another attempt.
func ShouldRetryStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusRequestTimeout ||
		(statusCode >= 500 && statusCode < 600)
}

func isRetryableErr(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe")
}

// cloneRequest creates a copy of an HTTP request, including its body
func cloneRequest(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_ = req.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	req.Body = io.NopCloser(bytes.NewReader(body))
	return r, nil
}

// RetryTransport implements http.RoundTripper with retry logic.
type RetryTransport struct {
	underlying http.RoundTripper
	maxRetries int
	backoff    BackoffStrategy
}

// NewRetryTransport wraps base with retries. A nil base uses http.DefaultTransport
// and a nil backoff uses DefaultBackoff.
func NewRetryTransport(base http.RoundTripper, maxRetries int, backoff BackoffStrategy) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if backoff == nil {
		backoff = &DefaultBackoff
	}
	return &RetryTransport{underlying: base, maxRetries: maxRetries, backoff: backoff}
}

// RoundTrip executes a single HTTP transaction with retry logic. When every
// attempt gets a retryable status the last response is returned as is.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			wait := t.backoff.Duration(attempt)
			logging.Warn(ctx, "[HTTP RETRY] Attempt %d/%d for %s (waiting %v)", attempt, t.maxRetries, req.URL, wait)

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}

		reqClone, err := cloneRequest(req)
		if err != nil {
			return nil, err
		}
		resp, err := t.underlying.RoundTrip(reqClone)

		last := attempt >= t.maxRetries
		if err != nil {
			if last || !isRetryableErr(err) {
				return nil, err
			}
			continue
		}
		if last || !ShouldRetryStatus(resp.StatusCode) {
			return resp, nil
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
