package core

import (
	"testing"
)

func TestPIDProportionalScenario(t *testing.T) {
	// target 1000, estimate 800, Kp=1: error 200, output 200
	p := pidState{useCurrentError: true}
	p.setGains(1.0, 0, 0)

	out := p.step(1000, 800)
	if out != 200 {
		t.Errorf("output = %v, want 200", out)
	}
}

func TestPIDErrorLag(t *testing.T) {
	// In compatibility mode the proportional term uses the previous
	// step's error, so the first step with a fresh controller is zero
	// and the error shows up one step late
	p := pidState{}
	p.setGains(1.0, 0, 0)

	if out := p.step(1000, 800); out != 0 {
		t.Errorf("first step output = %v, want 0 (one-step lag)", out)
	}
	if out := p.step(1000, 800); out != 200 {
		t.Errorf("second step output = %v, want 200", out)
	}
}

func TestPIDIntegralClamp(t *testing.T) {
	// A sustained large error must saturate the integral at the bound
	// and keep it there
	p := pidState{useCurrentError: true}
	p.setGains(0, 1.0, 0)

	for i := 0; i < 100; i++ {
		p.step(30000, 0)
	}
	if p.integral != IntegralMax {
		t.Errorf("integral = %v, want saturation at %d", p.integral, IntegralMax)
	}

	// It must stay saturated, not grow past the bound
	p.step(30000, 0)
	if p.integral != IntegralMax {
		t.Errorf("integral left the bound after saturation: %v", p.integral)
	}
}

func TestPIDIntegralLowerBound(t *testing.T) {
	// Sustained negative error must not drive the integral below zero
	p := pidState{useCurrentError: true}
	p.setGains(0, 1.0, 0)

	for i := 0; i < 50; i++ {
		p.step(0, 30000)
	}
	if p.integral != 0 {
		t.Errorf("integral = %v, want clamp at 0", p.integral)
	}
}

func TestPIDOutputClamp(t *testing.T) {
	p := pidState{useCurrentError: true}
	p.setGains(1000.0, 0, 0)

	if out := p.step(30000, 0); out != OutputMax {
		t.Errorf("output = %v, want clamp at %d", out, OutputMax)
	}

	// Negative error clamps to zero, never a negative torque command
	if out := p.step(0, 30000); out != 0 {
		t.Errorf("output = %v, want clamp at 0", out)
	}
}

func TestPIDDerivativeFormula(t *testing.T) {
	// der is previousError - currentError, kept exactly for behavioral
	// fidelity with the ported loop
	p := pidState{proportionalOnly: true}
	p.setGains(0, 0, 1.0)

	p.step(1000, 800) // error 200
	p.step(1000, 950) // error 50
	if p.der != 150 {
		t.Errorf("der = %v, want 150 (200 - 50)", p.der)
	}
}

func TestPIDProportionalOnlyMode(t *testing.T) {
	full := pidState{useCurrentError: true}
	full.setGains(1.0, 1.0, 0)
	legacy := pidState{useCurrentError: true, proportionalOnly: true}
	legacy.setGains(1.0, 1.0, 0)

	for i := 0; i < 10; i++ {
		full.step(1000, 800)
		legacy.step(1000, 800)
	}

	if legacy.output != 200 {
		t.Errorf("legacy output = %v, want proportional term only (200)", legacy.output)
	}
	if full.output <= 200 {
		t.Errorf("full output = %v, want proportional plus integral contribution", full.output)
	}
}

func TestPIDSetGainsKeepsScratch(t *testing.T) {
	p := pidState{useCurrentError: true}
	p.setGains(1.0, 1.0, 0)

	for i := 0; i < 5; i++ {
		p.step(1000, 800)
	}
	integral := p.integral
	prevErr := p.err
	if integral == 0 {
		t.Fatal("test needs a nonzero integral")
	}

	p.setGains(2.0, 0.5, 0.1)
	if p.integral != integral {
		t.Errorf("integral reset by setGains: %v -> %v", integral, p.integral)
	}
	if p.err != prevErr {
		t.Errorf("previous error reset by setGains: %v -> %v", prevErr, p.err)
	}
}
