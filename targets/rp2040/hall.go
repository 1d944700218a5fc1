//go:build rp2040 || rp2350

package main

import (
	"machine"

	"sixstep/core"
)

// Hall sensor and indicator pin assignment
const (
	pinHall1 = machine.GP10
	pinHall2 = machine.GP11
	pinHall3 = machine.GP12

	pinLED1 = machine.GP16
	pinLED2 = machine.GP17
	pinLED3 = machine.GP18
)

// RPHallDriver reads the three hall inputs and mirrors them on the
// status LEDs
type RPHallDriver struct {
	sensors    [3]machine.Pin
	indicators [3]machine.Pin
}

// NewRPHallDriver creates the hall driver for the fixed sensor pinout
func NewRPHallDriver() *RPHallDriver {
	return &RPHallDriver{
		sensors:    [3]machine.Pin{pinHall1, pinHall2, pinHall3},
		indicators: [3]machine.Pin{pinLED1, pinLED2, pinLED3},
	}
}

// Configure sets up sensor inputs with pull-ups (open-collector hall
// outputs) and the indicator outputs
func (d *RPHallDriver) Configure() error {
	for _, pin := range d.sensors {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	for _, pin := range d.indicators {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
	}
	return nil
}

// EnableInterrupts arms a change interrupt on every sensor edge. The
// handler is the single event source for the commutation path.
func (d *RPHallDriver) EnableInterrupts(handler func(machine.Pin)) error {
	for _, pin := range d.sensors {
		if err := pin.SetInterrupt(machine.PinRising|machine.PinFalling, handler); err != nil {
			return err
		}
	}
	return nil
}

// ReadPattern samples the sensors into a 3-bit pattern, bit 0 = hall 1
func (d *RPHallDriver) ReadPattern() core.HallPattern {
	var pattern core.HallPattern
	for i, pin := range d.sensors {
		if pin.Get() {
			pattern |= 1 << i
		}
	}
	return pattern
}

// SetIndicators drives the LEDs from the raw hall bits
func (d *RPHallDriver) SetIndicators(pattern core.HallPattern) {
	for i, pin := range d.indicators {
		pin.Set(pattern&(1<<i) != 0)
	}
}
