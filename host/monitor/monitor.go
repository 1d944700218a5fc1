// Package monitor consumes the controller's diagnostic stream and
// forwards bench console commands.
package monitor

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"sixstep/host/serial"
)

// Sample is one parsed control-step diagnostic line
type Sample struct {
	Speed  int64   // speed estimate
	Output float64 // raw PID output before torque scaling
}

// Stats holds rolling statistics over the received samples
type Stats struct {
	Count     uint64
	LastSpeed int64
	MinSpeed  int64
	MaxSpeed  int64
	MeanSpeed float64
	LastOut   float64
}

// Monitor reads diagnostic lines from the controller's serial link
type Monitor struct {
	port serial.Port

	mu    sync.Mutex
	stats Stats

	samples chan Sample
	rawFn   func(string)
	done    chan struct{}
}

// New creates a monitor over an open port
func New(port serial.Port) *Monitor {
	return &Monitor{
		port:    port,
		samples: make(chan Sample, 64),
		done:    make(chan struct{}),
	}
}

// Samples returns the parsed sample stream. Samples are dropped when
// the consumer falls behind; the stats keep counting regardless.
func (m *Monitor) Samples() <-chan Sample {
	return m.samples
}

// SetRawHandler registers a callback for lines that are not control
// step samples (telemetry, console replies). Must be called before Run.
func (m *Monitor) SetRawHandler(fn func(string)) {
	m.rawFn = fn
}

// Run reads the port until Stop is called or the port fails. Call it
// from its own goroutine.
func (m *Monitor) Run() error {
	buf := make([]byte, 256)
	var pending []byte

	for {
		select {
		case <-m.done:
			return nil
		default:
		}

		n, err := m.port.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = m.drainLines(pending)
		}
		if err != nil {
			if err == io.EOF {
				// Read timeout on an idle link, keep polling
				continue
			}
			return err
		}
	}
}

// Stop ends the read loop
func (m *Monitor) Stop() {
	close(m.done)
}

// drainLines processes every complete line in pending and returns the
// remaining partial line
func (m *Monitor) drainLines(pending []byte) []byte {
	for {
		idx := -1
		for i, b := range pending {
			if b == '\n' {
				idx = i
				break
			}
		}
		if idx < 0 {
			return pending
		}

		line := strings.TrimRight(string(pending[:idx]), "\r")
		pending = pending[idx+1:]
		if line == "" {
			continue
		}
		m.handleLine(line)
	}
}

func (m *Monitor) handleLine(line string) {
	sample, ok := ParseLine(line)
	if !ok {
		if m.rawFn != nil {
			m.rawFn(line)
		}
		return
	}

	m.mu.Lock()
	s := &m.stats
	if s.Count == 0 || sample.Speed < s.MinSpeed {
		s.MinSpeed = sample.Speed
	}
	if s.Count == 0 || sample.Speed > s.MaxSpeed {
		s.MaxSpeed = sample.Speed
	}
	s.MeanSpeed = (s.MeanSpeed*float64(s.Count) + float64(sample.Speed)) / float64(s.Count+1)
	s.Count++
	s.LastSpeed = sample.Speed
	s.LastOut = sample.Output
	m.mu.Unlock()

	select {
	case m.samples <- sample:
	default:
		// Consumer is behind, drop the sample
	}
}

// Stats returns a copy of the rolling statistics
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// SendCommand writes one console command line to the controller
func (m *Monitor) SendCommand(cmd string) error {
	_, err := m.port.Write([]byte(cmd + "\n"))
	return err
}

// ParseLine parses a control-step diagnostic line of the form
// "S: <speed>, E: <output>". ok is false for any other line.
func ParseLine(line string) (Sample, bool) {
	rest, found := strings.CutPrefix(line, "S: ")
	if !found {
		return Sample{}, false
	}

	speedStr, outStr, found := strings.Cut(rest, ", E: ")
	if !found {
		return Sample{}, false
	}

	speed, err := strconv.ParseInt(strings.TrimSpace(speedStr), 10, 64)
	if err != nil {
		return Sample{}, false
	}
	out, err := strconv.ParseFloat(strings.TrimSpace(outStr), 64)
	if err != nil {
		return Sample{}, false
	}

	return Sample{Speed: speed, Output: out}, true
}
