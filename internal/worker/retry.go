package worker

import (
	"math"
	"time"
)

// RetryPolicy defines exponential backoff for the mirror worker.
// Nothing in the request path retries; this applies only to the
// background sheet sync.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// withDefaults fills zero fields with the mirror defaults. Booking
// events trickle in one at a time, so waits start at two seconds and
// cap at a minute.
func (r RetryPolicy) withDefaults() RetryPolicy {
	if r.MaxRetries == 0 {
		r.MaxRetries = 5
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 2 * time.Second
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = time.Minute
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return r
}

// NextDelay returns the delay before the given attempt (1-based),
// clamped to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	r = r.withDefaults()
	if attempt < 1 {
		attempt = 1
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if d <= 0 || d > r.MaxDelay {
		d = r.MaxDelay
	}
	return d
}
