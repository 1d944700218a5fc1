// Closed-loop speed control for trapezoidal BLDC commutation
//
// One SpeedController owns all motor, timing and PID state. Two
// execution contexts touch it: the hall change interrupt calls
// OnHallTransition, the periodic tick calls ControlStep. Everything
// they share moves through a single-slot mailbox (accumulated ticks,
// transition count, pending flag) whose read-modify-write sections run
// under scoped interrupt exclusion in both paths.
package core

// SpeedCalibration converts the mean tick interval between hall
// transitions into the speed unit the loop regulates. It folds together
// the cycle timer frequency and the pole-pair to hall-transition
// geometry of the motor.
const SpeedCalibration = 52500000

// Config selects the controller's compatibility behaviors. The zero
// value is the intended production configuration.
type Config struct {
	// UseCurrentError evaluates the proportional and integral terms
	// against the current step's error. Off, the loop reproduces the
	// one-step error lag of the controller it was ported from.
	UseCurrentError bool

	// ProportionalOnly drops the integral and derivative terms from
	// the output sum, reproducing the ported controller's effective
	// behavior. Off, the output is the full three-term sum.
	ProportionalOnly bool

	// Filter overrides the fixed-point PID primitive. Nil selects a
	// Q15Filter.
	Filter PidFilter
}

// SpeedController is the aggregate control-loop state. Create one per
// motor with NewSpeedController and call Init before use.
type SpeedController struct {
	cfg    Config
	filter PidFilter

	// Mailbox shared with the hall interrupt path. Guarded by
	// disableInterrupts/restoreInterrupts in every reader and writer.
	accumulatedTicks uint32
	hallCount        uint32
	pending          bool

	// Written only by ControlStep, read by the interrupt wiring to
	// fetch the torque for the next commutation event.
	torque uint16

	// Interrupt-path state
	lastPattern HallPattern
	lastOutputs GateOutputs
	faultCount  uint32

	// Control-step state
	speed      int32
	pid        pidState
	stallCount uint32
}

// NewSpeedController creates a controller; drivers must be registered
// via the HAL setters before Init is called.
func NewSpeedController(cfg Config) *SpeedController {
	c := &SpeedController{
		cfg:    cfg,
		filter: cfg.Filter,
	}
	if c.filter == nil {
		c.filter = &Q15Filter{}
	}
	c.pid.useCurrentError = cfg.UseCurrentError
	c.pid.proportionalOnly = cfg.ProportionalOnly
	return c
}

// Init resets all control and timing state, zeroes the cycle timer and
// configures the PID primitive with the supplied gains.
func (c *SpeedController) Init(p, i, d float32) {
	state := disableInterrupts()
	c.accumulatedTicks = 0
	c.hallCount = 0
	c.pending = false
	restoreInterrupts(state)

	c.speed = 0
	c.lastPattern = 0
	c.torque = 0
	c.stallCount = 0
	c.faultCount = 0

	c.pid.reset()
	c.pid.setGains(p, i, d)

	MustCycleTimer().Zero()

	c.filter.Init()
	c.filter.SetGains(p, i, d)
}

// ChangeTunings recomputes the PID gains and filter coefficients
// without resetting the integral or error history, so the loop can be
// retuned while the motor is spinning.
func (c *SpeedController) ChangeTunings(p, i, d float32) {
	c.pid.setGains(p, i, d)
	c.filter.SetGains(p, i, d)
}

// OnHallTransition is the commutation event handler. It must be called
// only from the hall change-notification event source; it is not
// reentrant. The handler does bounded work only: no diagnostics, no
// floating-point PID math.
func (c *SpeedController) OnHallTransition(torque uint16, dir Direction) {
	pattern := MustHall().ReadPattern()

	state := disableInterrupts()
	c.accumulatedTicks += MustCycleTimer().TakeTicks()
	c.hallCount++
	c.pending = true
	restoreInterrupts(state)

	out, ok := Commutate(pattern, dir, torque)
	if !ok {
		// Unreachable sensor state: hold the previous outputs rather
		// than drive an unknown pattern
		c.faultCount++
		return
	}

	c.lastPattern = pattern
	c.lastOutputs = out
	if err := MustGate().ApplyOutputs(out); err != nil {
		c.faultCount++
		return
	}
	MustHall().SetIndicators(pattern)
}

// ControlStep is the periodic control entry point. It consumes the
// mailbox and produces a new torque command. When update is false, or
// no commutation event arrived since the last consumed step, it is a
// no-op.
func (c *SpeedController) ControlStep(target uint16, dir Direction, update bool) {
	if !update {
		return
	}

	state := disableInterrupts()
	if !c.pending {
		restoreInterrupts(state)
		return
	}
	ticks := c.accumulatedTicks
	count := c.hallCount
	c.accumulatedTicks = 0
	c.hallCount = 0
	c.pending = false
	restoreInterrupts(state)

	if count == 0 {
		// Stalled: pending was set but no transition was recorded.
		// Skip the update instead of dividing by zero.
		c.stallCount++
		return
	}
	interval := ticks / count
	if interval == 0 {
		// Transitions arrived faster than the timer ticked; the
		// estimate would be unbounded. Treat like a stall.
		c.stallCount++
		return
	}

	c.speed = int32(SpeedCalibration / interval)

	output := c.pid.step(float32(target), float32(c.speed))
	c.torque = uint16(output / TorqueScale)

	QueueDiag(controlStepLine(c.speed, output))
}

// ForceDuty bypasses commutation entirely and writes the six gate
// outputs directly. Bench use only.
func (c *SpeedController) ForceDuty(out GateOutputs) error {
	c.lastOutputs = out
	return MustGate().ApplyOutputs(out)
}

// Torque returns the current commanded torque duty in [0, MaxTorque].
// The hall interrupt wiring reads this to feed the next commutation
// event.
func (c *SpeedController) Torque() uint16 {
	return c.torque
}

// Speed returns the latest speed estimate
func (c *SpeedController) Speed() int32 {
	return c.speed
}

// StallCount returns the number of control steps skipped because no
// usable timing data arrived
func (c *SpeedController) StallCount() uint32 {
	return c.stallCount
}

// FaultCount returns the number of commutation events with an invalid
// hall pattern or a failed gate write
func (c *SpeedController) FaultCount() uint32 {
	return c.faultCount
}

// LastHallPattern returns the most recent valid hall pattern
func (c *SpeedController) LastHallPattern() HallPattern {
	return c.lastPattern
}

// LastOutputs returns the most recently applied gate outputs
func (c *SpeedController) LastOutputs() GateOutputs {
	return c.lastOutputs
}
