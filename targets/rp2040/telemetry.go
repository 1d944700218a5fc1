//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"
	"strconv"

	"sixstep/core"

	"tinygo.org/x/drivers/ina260"
)

// Bus power monitor, sampled outside the control loop. The INA260 sits
// on the DC link and reports supply voltage and motor current.
const (
	pinSDA = machine.GP20
	pinSCL = machine.GP21

	telemetryIntervalMS = 1000
)

type powerMonitor struct {
	sensor ina260.Device
	timer  core.Timer
}

// initTelemetry brings up the I2C bus and schedules the periodic
// sample. A missing sensor is not fatal; the controller runs without
// telemetry.
func initTelemetry(now uint32) (*powerMonitor, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: pinSDA,
		SCL: pinSCL,
	})
	if err != nil {
		return nil, err
	}

	m := &powerMonitor{sensor: ina260.New(machine.I2C0)}
	if !m.sensor.Connected() {
		return nil, errors.New("ina260 not responding")
	}

	m.timer.WakeTime = now + telemetryIntervalMS
	m.timer.Handler = m.sample
	core.ScheduleTimer(&m.timer)
	return m, nil
}

// sample queues one telemetry line and reschedules itself
func (m *powerMonitor) sample(t *core.Timer) uint8 {
	millivolts := m.sensor.Voltage() / 1000
	milliamps := m.sensor.Current() / 1000
	core.QueueDiag("V: " + strconv.Itoa(int(millivolts)) + ", I: " + strconv.Itoa(int(milliamps)) + "\r\n")

	t.WakeTime += telemetryIntervalMS
	return core.SF_RESCHEDULE
}
