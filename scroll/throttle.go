package scroll

import "time"

// Throttle admits at most one event per Interval, using the time of the last
// admitted event as the guard.
type Throttle struct {
	Interval time.Duration
	Now      func() time.Time

	last time.Time
}

// NewThrottle returns a throttle on the wall clock.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{Interval: interval, Now: time.Now}
}

// Allow reports whether an event may run now and, if so, records it.
func (t *Throttle) Allow() bool {
	now := t.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}

// Reset forgets the last admitted event.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}
