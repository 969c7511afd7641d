package backoff

import (
	"time"
)

// Calculator provides backoff calculation using a configurable strategy.
// It centralizes delay logic shared by the auth refresh loop and the
// client's request retry loop.
type Calculator struct {
	strategy Strategy
}

// NewCalculator creates a backoff calculator with the specified strategy.
func NewCalculator(strategy Strategy) *Calculator {
	return &Calculator{
		strategy: strategy,
	}
}

// Calculate computes the delay before the given attempt. It delegates to the
// configured strategy.
func (c *Calculator) Calculate(attempt int, baseDelay, minDelay, maxDelay time.Duration, jitter float64) time.Duration {
	return c.strategy.Calculate(attempt, baseDelay, minDelay, maxDelay, jitter)
}

// SetStrategy updates the backoff strategy used by this calculator.
func (c *Calculator) SetStrategy(strategy Strategy) {
	c.strategy = strategy
}

// GetStrategy returns the current strategy.
func (c *Calculator) GetStrategy() Strategy {
	return c.strategy
}

// GetExponentialCalculator returns a calculator configured with the
// exponential strategy. This is the common case.
func GetExponentialCalculator() *Calculator {
	return NewCalculator(ExponentialStrategy{})
}
