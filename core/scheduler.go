package core

// Timer represents a scheduled event: the periodic control tick, the
// telemetry poll, or any other recurring target-side work.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler results
const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var timerList *Timer

// ScheduleTimer adds a timer to the schedule. Safe to call from timer
// handlers and from interrupt context.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

// insertTimer inserts a timer in sorted order by WakeTime
func insertTimer(t *Timer) {
	if timerList == nil || t.WakeTime < timerList.WakeTime {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && current.Next.WakeTime < t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// RunTimers dispatches every timer due at or before now. Handlers that
// return SF_RESCHEDULE are re-inserted with their updated WakeTime,
// which is how the control tick keeps itself periodic.
//
// Handlers run with interrupts enabled: the control step does PID math
// and must not delay a pending hall edge. Only the list manipulation
// itself is masked.
func RunTimers(now uint32) {
	for {
		state := disableInterrupts()
		if timerList == nil || timerList.WakeTime > now {
			restoreInterrupts(state)
			return
		}
		timer := timerList
		timerList = timer.Next
		timer.Next = nil
		restoreInterrupts(state)

		result := timer.Handler(timer)

		if result == SF_RESCHEDULE {
			ScheduleTimer(timer)
		}
	}
}

// CancelTimers drops all scheduled timers. Used by Init paths and tests.
func CancelTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	timerList = nil
}
