//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"sixstep/core"
)

const (
	controlTickMS = 1

	// Default gains, overridable at runtime with the tune command
	defaultKp = 1.0
	defaultKi = 0.0
	defaultKd = 0.0
)

var (
	serialPort = machine.Serial

	ctrl *core.SpeedController

	// Loop parameters owned by the main loop and console. The hall
	// interrupt only reads direction (a single byte), the control tick
	// runs from the main loop itself.
	targetSpeed uint16
	direction   = core.CW
	running     bool

	bootTime time.Time
)

func setTargetSpeed(v uint16) { targetSpeed = v }

func setDirection(d core.Direction) { direction = d }

func setRunning(v bool) { running = v }

// millis returns milliseconds since boot for the timer scheduler
func millis() uint32 {
	return uint32(time.Since(bootTime).Milliseconds())
}

func main() {
	bootTime = time.Now()

	// Diagnostic output over USB CDC, drained by the async worker so
	// the control paths never block on the host
	core.SetDiagWriter(func(s string) {
		serialPort.Write([]byte(s))
	})
	core.InitAsyncDiag()

	// Bridge PWM
	gate := NewRPGateDriver()
	if err := gate.ConfigureBridge(); err != nil {
		fatal("gate: " + err.Error())
	}
	core.SetGateDriver(gate)

	// Hall sensors and indicators
	hall := NewRPHallDriver()
	if err := hall.Configure(); err != nil {
		fatal("hall: " + err.Error())
	}
	core.SetHallDriver(hall)

	// Commutation interval timer
	core.SetCycleTimer(newCycleTimer())

	ctrl = core.NewSpeedController(core.Config{})
	ctrl.Init(defaultKp, defaultKi, defaultKd)

	// Arm the hall change interrupts last: from here on the handler
	// owns the commutation path
	err := hall.EnableInterrupts(func(machine.Pin) {
		ctrl.OnHallTransition(ctrl.Torque(), direction)
	})
	if err != nil {
		fatal("hall irq: " + err.Error())
	}

	// Periodic control step
	tick := &core.Timer{WakeTime: millis() + controlTickMS}
	tick.Handler = func(t *core.Timer) uint8 {
		ctrl.ControlStep(targetSpeed, direction, running)
		t.WakeTime += controlTickMS
		return core.SF_RESCHEDULE
	}
	core.ScheduleTimer(tick)

	// Bus power telemetry is optional bench equipment
	if _, err := initTelemetry(millis()); err != nil {
		core.QueueDiag("telemetry disabled: " + err.Error() + "\r\n")
	}

	cons := newConsole(ctrl)
	core.QueueDiag("sixstep ready\r\n")

	for {
		core.RunTimers(millis())
		cons.poll()
		time.Sleep(100 * time.Microsecond)
	}
}

// fatal reports a bring-up failure and parks; without a configured
// bridge there is nothing safe to run
func fatal(msg string) {
	for {
		serialPort.Write([]byte("FATAL " + msg + "\r\n"))
		time.Sleep(time.Second)
	}
}
