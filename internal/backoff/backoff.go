package backoff

import "time"

// Exponential hands out retry delays that grow by a fixed multiplier up to a
// cap, and reports exhaustion after a maximum number of attempts.
type Exponential struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	attempts   int
	current    int
}

// New creates an Exponential backoff. The first delay equals initial; each
// subsequent delay is multiplied and capped at max.
func New(initial, max time.Duration, multiplier float64, attempts int) *Exponential {
	return &Exponential{
		initial:    initial,
		max:        max,
		multiplier: multiplier,
		attempts:   attempts,
	}
}

// Default returns a backoff of 1s doubling up to 30s over 5 attempts.
func Default() *Exponential {
	return New(time.Second, 30*time.Second, 2.0, 5)
}

// Next returns the delay before the next attempt, or false when the attempt
// budget is spent.
func (b *Exponential) Next() (time.Duration, bool) {
	if b.current >= b.attempts {
		return 0, false
	}

	delay := b.initial
	if b.current > 0 {
		scaled := float64(b.initial)
		for i := 0; i < b.current; i++ {
			scaled *= b.multiplier
		}
		delay = time.Duration(scaled)
		if delay > b.max {
			delay = b.max
		}
	}

	b.current++
	return delay, true
}

// Reset makes the backoff reusable after a success.
func (b *Exponential) Reset() {
	b.current = 0
}

// Attempt returns the number of delays handed out so far.
func (b *Exponential) Attempt() int {
	return b.current
}

// Exhausted reports whether the attempt budget is spent.
func (b *Exponential) Exhausted() bool {
	return b.current >= b.attempts
}
