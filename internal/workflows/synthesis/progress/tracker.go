// internal/workflows/synthesis/progress/tracker.go

// Package progress drives the displayed generation progress. The displayed
// value eases toward a stage target instead of jumping, so the bar keeps
// moving even while a slow provider call is in flight.
package progress

import "sync"

const (
	minStep    = 0.05
	easeFactor = 0.05
	creepStep  = 0.03
	creepCeil  = 99.5
)

// Stage targets in pipeline order.
const (
	TargetAccepted  = 10
	TargetProviders = 30
	TargetAssembly  = 80
	TargetDone      = 100
)

// Tracker holds the displayed and target progress for one generation.
// Safe for concurrent use; the pipeline raises the target while the
// streaming loop ticks the displayed value.
type Tracker struct {
	mu      sync.Mutex
	current float64
	target  float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Raise lifts the target. Lower values are ignored so a late stage update
// can never pull progress backward.
func (t *Tracker) Raise(target float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if target > t.target {
		t.target = target
	}
}

// Advance moves the displayed value one tick toward the target and returns
// it. Below the target it covers 5% of the remaining gap with a floor, so
// it decelerates as it closes in. At or above the target it creeps upward
// to keep the bar alive, but never past 99.5 until the target is 100.
func (t *Tracker) Advance() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current < t.target {
		gap := t.target - t.current
		step := gap * easeFactor
		if step < minStep {
			step = minStep
		}
		t.current += step
		if t.current > 100 {
			t.current = 100
		}
	} else if t.current < creepCeil {
		t.current += creepStep
	}

	return t.current
}

// Current returns the displayed value without advancing it.
func (t *Tracker) Current() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Target returns the current stage target.
func (t *Tracker) Target() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Done reports whether the displayed value has reached 100.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current >= 100
}
