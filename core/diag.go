package core

// DiagWriter is a function type for writing diagnostic lines
type DiagWriter func(string)

var (
	// diagWrite is the global diagnostic writer (set by platform code)
	diagWrite DiagWriter = func(s string) {} // No-op by default

	// Async diagnostic output channel
	diagChan chan string

	// Dropped line counter, for bench visibility into back-pressure
	diagDropped uint32
)

// SetDiagWriter sets the platform-specific diagnostic output function.
// Targets point this at a UART; tests capture lines directly.
func SetDiagWriter(w DiagWriter) {
	diagWrite = w
}

// InitAsyncDiag starts the async diagnostic output goroutine.
// Call this from main() after SetDiagWriter. Without it QueueDiag
// writes synchronously, which is only acceptable off-target.
func InitAsyncDiag() {
	diagChan = make(chan string, 16) // Buffer 16 lines
	go diagOutputWorker()
}

// diagOutputWorker runs in background, drains the diagnostic channel
func diagOutputWorker() {
	for msg := range diagChan {
		if diagWrite != nil {
			diagWrite(msg)
		}
	}
}

// QueueDiag hands a diagnostic line to the output worker without
// blocking; the line is dropped if the channel is full. The control
// step calls this, so it must never stall the loop.
func QueueDiag(msg string) {
	if diagChan == nil {
		diagWrite(msg)
		return
	}
	select {
	case diagChan <- msg:
	default:
		diagDropped++
	}
}

// DiagDropped returns the number of diagnostic lines dropped because
// the output worker fell behind
func DiagDropped() uint32 {
	return diagDropped
}

// controlStepLine formats the per-step diagnostic line with the speed
// estimate and raw PID output
func controlStepLine(speed int32, output float32) string {
	return "S: " + itoa(int(speed)) + ", E: " + itoa(int(output)) + "\r\n"
}
