package monitor

import (
	"io"
	"testing"
	"time"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line   string
		want   Sample
		wantOK bool
	}{
		{"S: 1000, E: 200", Sample{Speed: 1000, Output: 200}, true},
		{"S: 52500, E: 30000", Sample{Speed: 52500, Output: 30000}, true},
		{"S: -120, E: 0", Sample{Speed: -120, Output: 0}, true},
		{"S: 800, E: 199.5", Sample{Speed: 800, Output: 199.5}, true},
		{"V: 12000, I: 350", Sample{}, false},
		{"OK", Sample{}, false},
		{"S: abc, E: 1", Sample{}, false},
		{"S: 100", Sample{}, false},
		{"", Sample{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		if ok != tt.wantOK {
			t.Errorf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

// pipePort adapts an io.Pipe to the serial.Port interface
type pipePort struct {
	io.Reader
	io.Writer
}

func (p *pipePort) Close() error { return nil }

func TestMonitorStream(t *testing.T) {
	pr, pw := io.Pipe()
	m := New(&pipePort{Reader: pr, Writer: io.Discard})

	var raw []string
	m.SetRawHandler(func(line string) { raw = append(raw, line) })

	go func() {
		pw.Write([]byte("S: 1000, E: 200\r\nV: 12000, I: 350\r\nS: 900, "))
		pw.Write([]byte("E: 100\r\n"))
		m.Stop()
		pw.Close()
	}()

	if err := m.Run(); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	var got []Sample
	for {
		select {
		case s := <-m.Samples():
			got = append(got, s)
			continue
		case <-time.After(10 * time.Millisecond):
		}
		break
	}

	if len(got) != 2 {
		t.Fatalf("samples = %d, want 2 (got %+v)", len(got), got)
	}
	if got[0] != (Sample{Speed: 1000, Output: 200}) {
		t.Errorf("first sample = %+v", got[0])
	}
	if got[1] != (Sample{Speed: 900, Output: 100}) {
		t.Errorf("second sample = %+v (split line not reassembled?)", got[1])
	}

	if len(raw) != 1 || raw[0] != "V: 12000, I: 350" {
		t.Errorf("raw lines = %v, want the telemetry line only", raw)
	}

	stats := m.Stats()
	if stats.Count != 2 {
		t.Errorf("stats count = %d, want 2", stats.Count)
	}
	if stats.MinSpeed != 900 || stats.MaxSpeed != 1000 {
		t.Errorf("min/max = %d/%d, want 900/1000", stats.MinSpeed, stats.MaxSpeed)
	}
	if stats.MeanSpeed != 950 {
		t.Errorf("mean = %v, want 950", stats.MeanSpeed)
	}
	if stats.LastSpeed != 900 || stats.LastOut != 100 {
		t.Errorf("last = %d/%v, want 900/100", stats.LastSpeed, stats.LastOut)
	}
}

func TestSendCommand(t *testing.T) {
	var written []byte
	m := New(&pipePort{Reader: nil, Writer: writerFunc(func(b []byte) (int, error) {
		written = append(written, b...)
		return len(b), nil
	})})

	if err := m.SendCommand("tune 1.0 0.5 0.0"); err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if string(written) != "tune 1.0 0.5 0.0\n" {
		t.Errorf("wrote %q, want newline-terminated command", written)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }
