package core

import (
	"testing"
)

func TestQ15FilterCoefficients(t *testing.T) {
	f := &Q15Filter{}
	f.SetGains(0.1, 0.05, 0.025)

	// a = Kp+Ki+Kd = 0.175, b = -(Kp+2Kd) = -0.15, c = Kd = 0.025
	want := [3]int16{5734, -4915, 819}
	for i, coeff := range f.Coeffs {
		if coeff != want[i] {
			t.Errorf("coeff[%d] = %d, want %d", i, coeff, want[i])
		}
	}
}

func TestQ15FilterSaturation(t *testing.T) {
	f := &Q15Filter{}

	// Gains outside the fractional range saturate instead of wrapping
	f.SetGains(2.0, 0, 0)
	if f.Coeffs[0] != q15One {
		t.Errorf("a coeff = %d, want saturation at %d", f.Coeffs[0], q15One)
	}
	if f.Coeffs[1] != q15Min {
		t.Errorf("b coeff = %d, want saturation at %d", f.Coeffs[1], q15Min)
	}
}

func TestQ15FilterSetGainsKeepsHistory(t *testing.T) {
	f := &Q15Filter{}
	f.History = [3]int16{100, -50, 25}

	f.SetGains(0.5, 0.1, 0.01)
	if f.History != [3]int16{100, -50, 25} {
		t.Errorf("history modified by SetGains: %v", f.History)
	}

	f.Init()
	if f.History != ([3]int16{}) {
		t.Errorf("history not cleared by Init: %v", f.History)
	}
}
