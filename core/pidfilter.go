package core

// PidFilter is the contract for the fixed-point PID primitive. The
// speed controller configures it at init and on every tuning change but
// runs its own orchestration math, so the backing representation
// (Q15 fixed point, float, hardware DSP) is interchangeable.
type PidFilter interface {
	// Init clears the filter history
	Init()

	// SetGains recomputes the internal coefficients from floating-point
	// gains. History is NOT reset, so gains can be retuned while the
	// loop is running.
	SetGains(p, i, d float32)
}

const (
	q15One = 32767
	q15Min = -32768
)

// Q15Filter is a Q15 fixed-point PID difference-equation filter.
// The coefficient form is the standard three-tap arrangement:
//
//	a = Kp + Ki + Kd
//	b = -(Kp + 2*Kd)
//	c = Kd
//
// Gains are saturated to the representable [-1, 1) range, matching the
// behavior of fractional DSP hardware.
type Q15Filter struct {
	Coeffs  [3]int16 // a, b, c taps
	History [3]int16 // error history and last output
}

// Init clears the filter history and output
func (f *Q15Filter) Init() {
	f.History = [3]int16{}
}

// SetGains recomputes the coefficient taps. The history is left alone
// so a tuning change does not kick the loop.
func (f *Q15Filter) SetGains(p, i, d float32) {
	f.Coeffs[0] = floatToQ15(p + i + d)
	f.Coeffs[1] = floatToQ15(-(p + 2*d))
	f.Coeffs[2] = floatToQ15(d)
}

// floatToQ15 converts a float to Q15 with saturation
func floatToQ15(v float32) int16 {
	scaled := v * 32768
	if scaled >= q15One {
		return q15One
	}
	if scaled <= q15Min {
		return q15Min
	}
	return int16(scaled)
}
