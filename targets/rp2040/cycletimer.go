//go:build rp2040 || rp2350

package main

import (
	"time"

	"sixstep/core"
)

// rpCycleTimer implements the commutation interval timer on top of the
// monotonic clock, scaled to the tick base the speed calibration
// constant expects. The mark is moved on every read, so the reported
// span can never wrap within one commutation interval.
type rpCycleTimer struct {
	mark time.Time
}

func newCycleTimer() *rpCycleTimer {
	return &rpCycleTimer{mark: time.Now()}
}

// TakeTicks returns the ticks elapsed since the previous read and
// restarts the interval
func (t *rpCycleTimer) TakeTicks() uint32 {
	now := time.Now()
	elapsed := now.Sub(t.mark).Nanoseconds()
	t.mark = now

	return core.TicksFromNanoseconds(elapsed)
}

// Zero restarts the interval without reading it
func (t *rpCycleTimer) Zero() {
	t.mark = time.Now()
}
