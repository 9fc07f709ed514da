package framework

import (
	"time"

	"code.cloudfoundry.org/clock"
)

// Scheduler decides when a registered test's action starts.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func(), delay time.Duration)

func (f SchedulerFunc) Schedule(fn func(), delay time.Duration) {
	f(fn, delay)
}

// ImmediateScheduler runs every action synchronously inside Session.Test, ignoring the delay.
var ImmediateScheduler Scheduler = SchedulerFunc(func(fn func(), _ time.Duration) { fn() })

type clockScheduler struct {
	clock clock.Clock
}

// NewClockScheduler returns a Scheduler that runs each action on its own goroutine once the
// delay has elapsed on the given clock.
func NewClockScheduler(clk clock.Clock) Scheduler {
	if clk == nil {
		clk = clock.NewClock()
	}
	return clockScheduler{clock: clk}
}

func (s clockScheduler) Schedule(fn func(), delay time.Duration) {
	if delay <= 0 {
		go fn()
		return
	}
	timer := s.clock.NewTimer(delay)
	go func() {
		<-timer.C()
		fn()
	}()
}
