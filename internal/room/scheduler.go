package room

import "time"

// Scheduler arms one-shot timers for the state machine. The returned cancel
// func stops the timer if it has not fired yet; a fired callback may still be
// in flight, which is why every callback also carries a generation check.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type wallScheduler struct{}

// NewScheduler returns the real time.AfterFunc-backed scheduler.
func NewScheduler() Scheduler { return wallScheduler{} }

func (wallScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
