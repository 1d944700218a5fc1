package core

// CycleTickHz is the tick rate of the interval timer. The speed
// calibration constant assumes this base, so the two change together.
const CycleTickHz = 52500000

// CycleTimer is the free-running elapsed-time counter read between
// commutation events. The counter is zeroed on every read so it can
// never wrap within a single commutation interval; the controller sums
// the per-event readings into its accumulator instead.
type CycleTimer interface {
	// TakeTicks returns the ticks elapsed since the last TakeTicks or
	// Zero call and resets the counter
	TakeTicks() uint32

	// Zero resets the counter without reading it
	Zero()
}

// TicksFromNanoseconds converts a monotonic-clock span to cycle timer
// ticks. The multiply happens before the divide so the fractional
// 52.5 ticks-per-microsecond rate is kept exact.
func TicksFromNanoseconds(ns int64) uint32 {
	return uint32(uint64(ns) * CycleTickHz / 1000000000)
}

// Global singleton used by core code.
var cycleTimer CycleTimer

// SetCycleTimer is called by target-specific code to register its timer.
func SetCycleTimer(t CycleTimer) {
	cycleTimer = t
}

// MustCycleTimer returns the configured timer or panics if missing.
func MustCycleTimer() CycleTimer {
	if cycleTimer == nil {
		panic("cycle timer not configured")
	}
	return cycleTimer
}
