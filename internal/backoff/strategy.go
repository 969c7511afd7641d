package backoff

import (
	"math/rand"
	"time"
)

// Strategy defines the interface for backoff calculation algorithms.
type Strategy interface {
	// Calculate returns the delay before the given retry attempt, clamped to
	// [minDelay, maxDelay].
	Calculate(attempt int, baseDelay, minDelay, maxDelay time.Duration, jitter float64) time.Duration
}

// ExponentialStrategy implements exponential backoff with an optional uniform
// jitter. The delay doubles per attempt starting from baseDelay and is
// clamped to the [minDelay, maxDelay] window.
type ExponentialStrategy struct{}

// Calculate implements the Strategy interface.
func (s ExponentialStrategy) Calculate(attempt int, baseDelay, minDelay, maxDelay time.Duration, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// Prevent overflow by limiting attempt
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(baseDelay) * pow(2.0, attempt))
	if delay < 0 || delay > maxDelay {
		delay = maxDelay
	}
	if delay < minDelay {
		delay = minDelay
	}

	jitter = clampJitter(jitter)
	if jitter > 0 {
		jitterAmount := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+jitterAmount > maxDelay {
			delay = maxDelay
		} else {
			delay += jitterAmount
		}
	}
	return delay
}

// clampJitter ensures jitter is within valid bounds [0, 1].
func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// pow calculates base^exponent using integer exponentiation.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
