package input

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs f once after d. The returned function cancels the call and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ManualScheduler fires callbacks only when Advance moves its clock. It makes
// timer-driven behavior deterministic in tests and scripted sessions.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	pending map[int]manualTimer
}

type manualTimer struct {
	at time.Duration
	id int
	f  func()
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[int]manualTimer)}
}

// AfterFunc implements Scheduler.
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.pending[id] = manualTimer{at: m.now + d, id: id, f: f}
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.pending[id]; !ok {
			return false
		}
		delete(m.pending, id)
		return true
	}
}

// Advance moves the clock forward by d and runs every callback that became
// due, in due order, outside the scheduler's lock.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []manualTimer
	for id, t := range m.pending {
		if t.at <= m.now {
			due = append(due, t)
			delete(m.pending, id)
		}
	}
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

// Pending returns the number of scheduled callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
