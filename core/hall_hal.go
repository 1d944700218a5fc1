package core

// HallDriver is the abstract hall sensor interface that core code uses.
// Platform-specific implementations own the three sensor inputs and the
// optional status indicators that mirror them.
type HallDriver interface {
	// ReadPattern samples the three sensor inputs and packs them into a
	// HallPattern (bit 0 = hall 1)
	ReadPattern() HallPattern

	// SetIndicators drives the status LEDs from the raw hall bits.
	// Implementations without indicators make this a no-op.
	SetIndicators(pattern HallPattern)
}

// Global singleton used by core code.
var hallDriver HallDriver

// SetHallDriver is called by target-specific code to register its driver.
func SetHallDriver(d HallDriver) {
	hallDriver = d
}

// MustHall returns the configured driver or panics if missing.
func MustHall() HallDriver {
	if hallDriver == nil {
		panic("hall driver not configured")
	}
	return hallDriver
}
