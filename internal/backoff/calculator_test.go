package backoff

import (
	"testing"
	"time"
)

func TestExponentialStrategyDoubles(t *testing.T) {
	s := ExponentialStrategy{}
	base := 100 * time.Millisecond
	min := time.Duration(0)
	max := time.Hour

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
	}
	for attempt, expected := range want {
		if got := s.Calculate(attempt, base, min, max, 0); got != expected {
			t.Errorf("Calculate(%d) = %v, want %v", attempt, got, expected)
		}
	}
}

func TestExponentialStrategyClamps(t *testing.T) {
	s := ExponentialStrategy{}

	if got := s.Calculate(0, 100*time.Millisecond, time.Second, time.Minute, 0); got != time.Second {
		t.Errorf("below floor: got %v, want the floor", got)
	}
	if got := s.Calculate(20, 100*time.Millisecond, 0, time.Second, 0); got != time.Second {
		t.Errorf("above ceiling: got %v, want the ceiling", got)
	}
	if got := s.Calculate(-5, 100*time.Millisecond, 0, time.Minute, 0); got != 100*time.Millisecond {
		t.Errorf("negative attempt: got %v, want the base delay", got)
	}
}

func TestExponentialStrategyOverflowGuard(t *testing.T) {
	s := ExponentialStrategy{}
	max := 5 * time.Second

	// Huge attempt numbers must clamp to the ceiling, never wrap negative.
	for _, attempt := range []int{31, 64, 1 << 20} {
		got := s.Calculate(attempt, time.Second, 0, max, 0)
		if got != max {
			t.Errorf("Calculate(%d) = %v, want %v", attempt, got, max)
		}
	}
}

func TestExponentialStrategyJitterBounds(t *testing.T) {
	s := ExponentialStrategy{}
	base := 100 * time.Millisecond
	max := time.Second

	for i := 0; i < 100; i++ {
		got := s.Calculate(1, base, 0, max, 0.5)
		lower := 200 * time.Millisecond
		upper := 300 * time.Millisecond
		if got < lower || got > upper {
			t.Fatalf("jittered delay = %v, outside [%v, %v]", got, lower, upper)
		}
	}

	// Out-of-range jitter values are clamped, not rejected.
	if got := s.Calculate(0, base, 0, max, -1); got != base {
		t.Errorf("negative jitter: got %v, want %v", got, base)
	}
	if got := s.Calculate(0, base, 0, max, 5); got > 2*base {
		t.Errorf("oversized jitter: got %v, want at most %v", got, 2*base)
	}
}

func TestCalculatorStrategySwap(t *testing.T) {
	calc := GetExponentialCalculator()
	if _, ok := calc.GetStrategy().(ExponentialStrategy); !ok {
		t.Fatalf("default strategy = %T, want ExponentialStrategy", calc.GetStrategy())
	}

	fixed := fixedStrategy{delay: 42 * time.Millisecond}
	calc.SetStrategy(fixed)
	if got := calc.Calculate(3, time.Second, 0, time.Minute, 0); got != 42*time.Millisecond {
		t.Errorf("Calculate() = %v, want the fixed delay", got)
	}
}

type fixedStrategy struct {
	delay time.Duration
}

func (s fixedStrategy) Calculate(int, time.Duration, time.Duration, time.Duration, float64) time.Duration {
	return s.delay
}
