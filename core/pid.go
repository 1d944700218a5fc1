package core

// Saturation bounds of the speed PID. The clamps are the loop's only
// error-containment mechanism: the integral clamp prevents windup and
// the output clamp bounds the commanded torque.
const (
	IntegralMax = 2000000
	OutputMax   = 30000

	// TorqueScale converts the clamped PID output range to a gate duty
	TorqueScale = 30

	// controlPeriod scales the integral and derivative terms for the
	// nominal 1ms control step
	controlPeriod = 0.001
)

// pidState is the floating-point scratch state of the speed PID.
// The historical controller this loop is modeled on evaluates its
// terms against the error from the previous control step rather than
// the current one; useCurrentError switches the proportional and
// integral terms to the current error instead. The derivative stays
// previousError - currentError in both modes.
type pidState struct {
	kp, ki, kd float32

	err      float32 // error from the previous step
	der      float32
	integral float32
	output   float32

	useCurrentError  bool
	proportionalOnly bool
}

// setGains updates the gains without touching the scratch state, so a
// running loop keeps its integral and error history across retunes.
func (p *pidState) setGains(kp, ki, kd float32) {
	p.kp = kp
	p.ki = ki
	p.kd = kd
}

// reset clears the scratch state
func (p *pidState) reset() {
	p.err = 0
	p.der = 0
	p.integral = 0
	p.output = 0
}

// step runs one PID update and returns the clamped output in
// [0, OutputMax].
func (p *pidState) step(target, estimate float32) float32 {
	current := target - estimate

	base := p.err
	if p.useCurrentError {
		base = current
	}

	p.der = p.err - current
	p.integral += base
	if p.integral > IntegralMax {
		p.integral = IntegralMax
	} else if p.integral < 0 {
		p.integral = 0
	}

	out := p.kp * base
	if !p.proportionalOnly {
		out += p.ki*p.integral*controlPeriod + p.kd*p.der/controlPeriod
	}

	if out > OutputMax {
		out = OutputMax
	} else if out < 0 {
		out = 0
	}

	p.err = current
	p.output = out
	return out
}
