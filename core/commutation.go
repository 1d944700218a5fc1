// Six-step commutation table for a three-phase BLDC bridge
// Maps hall sensor patterns to gate drive outputs for trapezoidal control
package core

// Direction is the commanded rotation direction
type Direction uint8

const (
	CW Direction = iota
	CCW
)

// HallPattern is the 3-bit code read from the hall sensors.
// Bit 0 = hall 1, bit 1 = hall 2, bit 2 = hall 3. The bit order matches
// the sensor wiring convention and must not be changed independently of
// the conduction table below.
type HallPattern uint8

const (
	// Both all-clear and all-set cannot occur with three 120-degree
	// spaced sensors; seeing one means a disconnected or shorted sensor.
	HallInvalidLow  HallPattern = 0b000
	HallInvalidHigh HallPattern = 0b111
)

// Phase identifiers for the three motor phases
const (
	PhaseA = 0
	PhaseB = 1
	PhaseC = 2
)

// GateOutputs holds the duty value for each of the six bridge gates,
// one high-side and one low-side driver per phase.
type GateOutputs struct {
	HighA, LowA uint16
	HighB, LowB uint16
	HighC, LowC uint16
}

// setHigh sets the high-side duty for a phase
func (g *GateOutputs) setHigh(phase uint8, duty uint16) {
	switch phase {
	case PhaseA:
		g.HighA = duty
	case PhaseB:
		g.HighB = duty
	case PhaseC:
		g.HighC = duty
	}
}

// setLow sets the low-side duty for a phase
func (g *GateOutputs) setLow(phase uint8, duty uint16) {
	switch phase {
	case PhaseA:
		g.LowA = duty
	case PhaseB:
		g.LowB = duty
	case PhaseC:
		g.LowC = duty
	}
}

// conductionPair names the two energized phases for one hall state:
// current flows into the high phase and out of the low phase, the third
// phase floats.
type conductionPair struct {
	high  uint8
	low   uint8
	valid bool
}

// conductionCW is the clockwise conduction table indexed by HallPattern.
// Entries 0b000 and 0b111 are left invalid on purpose. The counter
// clockwise table is this table with high and low swapped per pair, so
// only one copy is stored.
var conductionCW = [8]conductionPair{
	0b001: {high: PhaseA, low: PhaseC, valid: true},
	0b010: {high: PhaseB, low: PhaseA, valid: true},
	0b011: {high: PhaseB, low: PhaseC, valid: true},
	0b100: {high: PhaseC, low: PhaseB, valid: true},
	0b101: {high: PhaseA, low: PhaseB, valid: true},
	0b110: {high: PhaseC, low: PhaseA, valid: true},
}

// Commutate returns the gate outputs for one hall state and direction,
// with the supplied torque duty on the energized pair.
// ok is false for the two invalid hall patterns; callers must hold the
// previous outputs in that case rather than drive an unknown state.
func Commutate(pattern HallPattern, dir Direction, torque uint16) (GateOutputs, bool) {
	if pattern >= 8 {
		return GateOutputs{}, false
	}
	pair := conductionCW[pattern]
	if !pair.valid {
		return GateOutputs{}, false
	}

	high, low := pair.high, pair.low
	if dir == CCW {
		high, low = low, high
	}

	var out GateOutputs
	out.setHigh(high, torque)
	out.setLow(low, torque)
	return out, true
}

// Valid reports whether the pattern is one of the six reachable hall states
func (p HallPattern) Valid() bool {
	return p != HallInvalidLow && p < HallInvalidHigh
}
