package interaction

import "time"

// Scheduler runs fn once after d unless the returned cancel func is called
// first.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) (cancel func())

func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) func() { return f(d, fn) }

// TimerScheduler runs callbacks on the runtime timer goroutine. Hosts with an
// event loop should wrap it so fn is posted back onto their own timeline.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
