//go:build rp2040 || rp2350

package main

import (
	"sixstep/core"
)

// console assembles serial bytes into lines for the core command
// parser and sends replies back over the diagnostic link.
type console struct {
	exec *core.Console
	line []byte
}

func newConsole(ctrl *core.SpeedController) *console {
	exec := core.NewConsole(ctrl, core.LoopParams{
		SetTargetSpeed: setTargetSpeed,
		SetDirection:   setDirection,
		SetRunning:     setRunning,
	})
	return &console{exec: exec, line: make([]byte, 0, 64)}
}

// poll drains buffered serial input and executes any completed line.
// Called from the main loop, never from interrupt context.
func (c *console) poll() {
	for serialPort.Buffered() > 0 {
		b, err := serialPort.ReadByte()
		if err != nil {
			return
		}
		if b == '\r' || b == '\n' {
			if len(c.line) > 0 {
				if reply := c.exec.Execute(string(c.line)); reply != "" {
					core.QueueDiag(reply + "\r\n")
				}
				c.line = c.line[:0]
			}
			continue
		}
		if len(c.line) < cap(c.line) {
			c.line = append(c.line, b)
		}
	}
}
