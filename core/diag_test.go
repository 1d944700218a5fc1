package core

import (
	"testing"
)

func TestControlStepLineFormat(t *testing.T) {
	tests := []struct {
		speed  int32
		output float32
		want   string
	}{
		{1000, 200, "S: 1000, E: 200\r\n"},
		{0, 0, "S: 0, E: 0\r\n"},
		{52500, 30000, "S: 52500, E: 30000\r\n"},
		{-120, 15.7, "S: -120, E: 15\r\n"},
	}

	for _, tt := range tests {
		if got := controlStepLine(tt.speed, tt.output); got != tt.want {
			t.Errorf("controlStepLine(%d, %v) = %q, want %q", tt.speed, tt.output, got, tt.want)
		}
	}
}

func TestQueueDiagSynchronousWithoutWorker(t *testing.T) {
	var got string
	SetDiagWriter(func(s string) { got = s })
	defer SetDiagWriter(func(string) {})

	QueueDiag("hello\r\n")
	if got != "hello\r\n" {
		t.Errorf("writer got %q, want direct delivery without worker", got)
	}
}

func TestItoaUtoa(t *testing.T) {
	if got := itoa(-52500); got != "-52500" {
		t.Errorf("itoa(-52500) = %q", got)
	}
	if got := itoa(0); got != "0" {
		t.Errorf("itoa(0) = %q", got)
	}
	if got := utoa(4294967295); got != "4294967295" {
		t.Errorf("utoa(max) = %q", got)
	}
}
