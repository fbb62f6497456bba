// Package debounce implements a trailing-edge debouncer: each Push cancels the
// pending trigger and reschedules it, so the callback sees only the last value
// of a burst.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. Production code uses Real; tests use Manual.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Real schedules on the wall clock.
func Real() Scheduler { return realScheduler{} }

type Debouncer struct {
	quiet time.Duration
	sched Scheduler
	fn    func(string)

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	stopped bool
}

func New(quiet time.Duration, sched Scheduler, fn func(string)) *Debouncer {
	if sched == nil {
		sched = Real()
	}
	return &Debouncer{quiet: quiet, sched: sched, fn: fn}
}

// Push records v as the latest value and restarts the quiet period.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.sched.AfterFunc(d.quiet, func() { d.fire(seq, v) })
}

// A timer that already started running when Stop was called must not deliver
// a superseded value; seq guards that window.
func (d *Debouncer) fire(seq uint64, v string) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn(v)
}

// Stop cancels any pending trigger. Later pushes are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
