package core

// MaxTorque is the upper bound of the torque duty applied to a gate,
// the PID output clamp divided by the torque scale factor.
const MaxTorque = 1000

// GateDriver is the abstract six-channel gate drive interface that core
// code uses. Platform-specific implementations own the PWM hardware and
// are responsible for dead-time and complementary-channel ordering so a
// phase can never conduct high and low side at once.
type GateDriver interface {
	// ConfigureBridge sets up the six PWM channels and drives them all
	// to zero duty
	ConfigureBridge() error

	// ApplyOutputs writes all six gate duty values.
	// Implementations must clear a channel before raising its
	// complement on the same phase.
	ApplyOutputs(out GateOutputs) error

	// MaxDuty returns the full-scale duty value the driver accepts
	MaxDuty() uint16
}

// Global singleton used by core code.
var gateDriver GateDriver

// SetGateDriver is called by target-specific code to register its driver.
func SetGateDriver(d GateDriver) {
	gateDriver = d
}

// MustGate returns the configured driver or panics if missing.
func MustGate() GateDriver {
	if gateDriver == nil {
		panic("gate driver not configured")
	}
	return gateDriver
}
