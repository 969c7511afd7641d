package offerskit

import (
	"time"

	internalbackoff "github.com/ambiyansyah-risyal/offerskit/internal/backoff"
)

// RetryPolicy bounds the retry loop around transient failures. Delays grow
// exponentially from BaseDelay and are clamped to [MinDelay, MaxDelay].
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MinDelay    time.Duration
	MaxDelay    time.Duration
	Jitter      float64

	calculator *internalbackoff.Calculator
}

// DefaultRetryPolicy mirrors the reference service contract: three attempts
// with delays of 0.5s doubling per attempt, floored at 1s and capped at 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MinDelay:    1 * time.Second,
		MaxDelay:    5 * time.Second,
	}
}

// Delay returns how long to wait before the given zero-based retry attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	calc := p.calculator
	if calc == nil {
		calc = internalbackoff.GetExponentialCalculator()
	}
	return calc.Calculate(attempt, p.BaseDelay, p.MinDelay, p.MaxDelay, p.Jitter)
}

// retryableStatus reports whether an HTTP status is a transient failure
// eligible for the bounded retry loop. Auth failures are handled separately
// by the forced-reauth path and never land here.
func retryableStatus(status int) bool {
	return status >= 500
}
