package chat

import "time"

// Scheduler runs a function after a delay. The production scheduler
// wraps time.AfterFunc; tests substitute a manual one so the state
// machine runs without real waiting.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// NewScheduler returns the timer-backed production scheduler.
func NewScheduler() Scheduler {
	return timerScheduler{}
}
