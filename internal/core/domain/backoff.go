package domain

import (
	"math"
	"time"
)

// Backoff describes a capped exponential wait schedule with a bounded
// number of attempts.
type Backoff struct {
	Base        time.Duration
	Multiplier  float64
	Max         time.Duration
	MaxAttempts int
}

// DefaultQueryBackoff is the schedule used while waiting on log queries:
// 5s, 7.5s, 11.25s, 16.9s, then 20s until 12 attempts are spent.
func DefaultQueryBackoff() Backoff {
	return Backoff{
		Base:        5 * time.Second,
		Multiplier:  1.5,
		Max:         20 * time.Second,
		MaxAttempts: 12,
	}
}

// Delay returns the wait before the given 1-based attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.Base) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// Budget is the total time spent waiting if every attempt is used.
func (b Backoff) Budget() time.Duration {
	var total time.Duration
	for i := 1; i <= b.MaxAttempts; i++ {
		total += b.Delay(i)
	}
	return total
}
