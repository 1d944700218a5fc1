//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"sixstep/core"
)

// Bridge pin assignment. Each phase uses one PWM slice so its high and
// low side share a period: GP0/GP1 on slice 0, GP2/GP3 on slice 1,
// GP4/GP5 on slice 2.
const (
	pinHighA = machine.GP0
	pinLowA  = machine.GP1
	pinHighB = machine.GP2
	pinLowB  = machine.GP3
	pinHighC = machine.GP4
	pinLowC  = machine.GP5

	// 25kHz gate PWM, above the audible range
	gatePeriodNS = 40000
)

// pwmPeripheral abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// gateChannel is one of the six bridge drivers
type gateChannel struct {
	slice   pwmPeripheral
	channel uint8
}

// RPGateDriver drives a three-phase bridge from RP2040 PWM slices.
// Channel order: high A, low A, high B, low B, high C, low C.
type RPGateDriver struct {
	channels [6]gateChannel
	top      uint32
}

// NewRPGateDriver creates the gate driver for the fixed bridge pinout
func NewRPGateDriver() *RPGateDriver {
	return &RPGateDriver{}
}

// ConfigureBridge sets up the three PWM slices and parks all six
// channels at zero duty
func (d *RPGateDriver) ConfigureBridge() error {
	pins := [6]machine.Pin{pinHighA, pinLowA, pinHighB, pinLowB, pinHighC, pinLowC}
	slices := [3]pwmPeripheral{machine.PWM0, machine.PWM1, machine.PWM2}

	for i, slice := range slices {
		if err := slice.Configure(machine.PWMConfig{Period: gatePeriodNS}); err != nil {
			return err
		}
		for j := 0; j < 2; j++ {
			idx := i*2 + j
			ch, err := slice.Channel(pins[idx])
			if err != nil {
				return err
			}
			d.channels[idx] = gateChannel{slice: slice, channel: ch}
			slice.Set(ch, 0)
		}
	}

	d.top = machine.PWM0.Top()
	if d.top == 0 {
		return errors.New("pwm slice reports zero top value")
	}
	return nil
}

// MaxDuty returns the full-scale duty value
func (d *RPGateDriver) MaxDuty() uint16 {
	return core.MaxTorque
}

// ApplyOutputs writes all six duty values. Within each phase the
// channel going to zero is written before its complement is raised, so
// a commutation change can never conduct both sides of a phase at
// once.
func (d *RPGateDriver) ApplyOutputs(out core.GateOutputs) error {
	duties := [6]uint16{out.HighA, out.LowA, out.HighB, out.LowB, out.HighC, out.LowC}

	for phase := 0; phase < 3; phase++ {
		high, low := phase*2, phase*2+1
		if duties[high] != 0 && duties[low] != 0 {
			return errors.New("refusing shoot-through duty pair")
		}
		// Zero side first
		if duties[high] == 0 {
			d.setDuty(high, 0)
			d.setDuty(low, duties[low])
		} else {
			d.setDuty(low, 0)
			d.setDuty(high, duties[high])
		}
	}
	return nil
}

// setDuty scales a torque duty to the slice counter range
func (d *RPGateDriver) setDuty(idx int, duty uint16) {
	ch := d.channels[idx]
	value := uint32(duty) * d.top / core.MaxTorque
	ch.slice.Set(ch.channel, value)
}
