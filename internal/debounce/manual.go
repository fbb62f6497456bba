package debounce

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance instead of the wall clock. Intended
// for tests.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*manualTimer
}

func NewManual() *Manual { return &Manual{} }

type manualTimer struct {
	m    *Manual
	id   int
	at   time.Duration
	f    func()
	done bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{m: m, id: m.nextID, at: m.now + d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d and runs every timer that came due, in
// deadline order, on the calling goroutine.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		switch {
		case t.done:
		case t.at <= m.now:
			t.done = true
			due = append(due, t)
		default:
			live = append(live, t)
		}
	}
	m.timers = live
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].id < due[j].id
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.f()
	}
}

// Pending returns the number of timers not yet fired or stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}
