package normalization

import (
	"strings"
	"time"
)

const (
	// DefaultMaxRetries is the retry budget for a single oracle batch.
	DefaultMaxRetries = 3
	// DefaultErrorDelay is the pause before retrying a transient failure.
	DefaultErrorDelay = 2 * time.Second
	// rateLimitStep scales the wait linearly with the retry number when the
	// provider reports quota exhaustion.
	rateLimitStep = 10 * time.Second
)

// RetryConfig controls the retry loop around oracle calls.
type RetryConfig struct {
	MaxRetries int
	ErrorDelay time.Duration
	// Sleep is swappable in tests.
	Sleep func(time.Duration)
}

// DefaultRetryConfig returns the retry settings used by the pipeline.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetries,
		ErrorDelay: DefaultErrorDelay,
		Sleep:      time.Sleep,
	}
}

// IsRateLimitError reports whether the error is a provider rate-limit or
// quota signal. Providers surface these as HTTP 429 or quota messages.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource exhausted")
}

// Retry runs fn up to MaxRetries times. Rate-limit errors wait retry*10s;
// other errors wait ErrorDelay. Returns the last error when the budget is
// exhausted.
func (rc RetryConfig) Retry(fn func() error) error {
	sleep := rc.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for retry := 1; retry <= rc.MaxRetries; retry++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if retry == rc.MaxRetries {
			break
		}
		if IsRateLimitError(lastErr) {
			sleep(time.Duration(retry) * rateLimitStep)
		} else {
			sleep(rc.ErrorDelay)
		}
	}
	return lastErr
}
