package core

import (
	"strconv"
	"strings"
)

// LoopParams collects the setters for the state owned by the target's
// main loop. The console never touches that state directly so the
// target decides how writes are sequenced against its interrupt
// handlers.
type LoopParams struct {
	SetTargetSpeed func(uint16)
	SetDirection   func(Direction)
	SetRunning     func(bool)
}

// Console executes line-oriented bench commands against a speed
// controller. Commands:
//
//	tune <p> <i> <d>        retune the PID without resetting history
//	speed <target>          set the target speed
//	dir cw|ccw              set the commutation direction
//	run / stop              enable or disable the control loop
//	force <6 duty values>   write the gate outputs directly
//	stat                    dump counters
//
// Byte assembly from the serial link stays on the target side; the
// parser itself has no hardware dependencies.
type Console struct {
	ctrl   *SpeedController
	params LoopParams
}

func NewConsole(ctrl *SpeedController, params LoopParams) *Console {
	return &Console{ctrl: ctrl, params: params}
}

// Execute runs one command line and returns the reply, or "" for a
// blank line.
func (c *Console) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "tune":
		if len(fields) != 4 {
			return "ERR tune <p> <i> <d>"
		}
		gains := [3]float32{}
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return "ERR bad gain " + f
			}
			gains[i] = float32(v)
		}
		c.ctrl.ChangeTunings(gains[0], gains[1], gains[2])
		return "OK"

	case "speed":
		if len(fields) != 2 {
			return "ERR speed <target>"
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil || v < 0 || v > 65535 {
			return "ERR bad target " + fields[1]
		}
		c.params.SetTargetSpeed(uint16(v))
		return "OK"

	case "dir":
		if len(fields) != 2 {
			return "ERR dir cw|ccw"
		}
		switch fields[1] {
		case "cw":
			c.params.SetDirection(CW)
		case "ccw":
			c.params.SetDirection(CCW)
		default:
			return "ERR bad direction " + fields[1]
		}
		return "OK"

	case "run":
		c.params.SetRunning(true)
		return "OK"

	case "stop":
		c.params.SetRunning(false)
		if err := c.ctrl.ForceDuty(GateOutputs{}); err != nil {
			return "ERR " + err.Error()
		}
		return "OK"

	case "force":
		if len(fields) != 7 {
			return "ERR force <hA> <lA> <hB> <lB> <hC> <lC>"
		}
		var duties [6]uint16
		for i, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v > MaxTorque {
				return "ERR bad duty " + f
			}
			duties[i] = uint16(v)
		}
		out := GateOutputs{
			HighA: duties[0], LowA: duties[1],
			HighB: duties[2], LowB: duties[3],
			HighC: duties[4], LowC: duties[5],
		}
		c.params.SetRunning(false)
		if err := c.ctrl.ForceDuty(out); err != nil {
			return "ERR " + err.Error()
		}
		return "OK"

	case "stat":
		return "speed=" + itoa(int(c.ctrl.Speed())) +
			" torque=" + utoa(uint32(c.ctrl.Torque())) +
			" stalls=" + utoa(c.ctrl.StallCount()) +
			" faults=" + utoa(c.ctrl.FaultCount()) +
			" dropped=" + utoa(DiagDropped())

	default:
		return "ERR unknown command " + fields[0]
	}
}
