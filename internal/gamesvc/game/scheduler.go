package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// autoplayTimer is the single-slot phase timer owned by a room. Arming
// bumps a generation counter and the fire callback receives the generation
// it was armed with; a callback holding a stale generation is a no-op, so
// a timer that fires after the phase already moved on cannot touch state.
type autoplayTimer struct {
	clock      clockwork.Clock
	timer      clockwork.Timer
	generation uint64
}

func newAutoplayTimer(clock clockwork.Clock) *autoplayTimer {
	return &autoplayTimer{clock: clock}
}

// arm replaces any pending timer with a new one. Must be called with the
// room lock held.
func (a *autoplayTimer) arm(d time.Duration, fire func(generation uint64)) {
	a.disarm()
	a.generation++
	gen := a.generation
	a.timer = a.clock.AfterFunc(d, func() {
		fire(gen)
	})
}

// disarm cancels the pending timer, if any, and invalidates callbacks that
// already fired but have not run yet.
func (a *autoplayTimer) disarm() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.generation++
}

// live reports whether the given generation is still the armed one.
func (a *autoplayTimer) live(generation uint64) bool {
	return a.timer != nil && generation == a.generation
}
