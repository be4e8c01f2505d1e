package debounce

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a virtual clock. Callbacks run synchronously inside
// Advance, in due order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	s   *ManualScheduler
	id  int
	due time.Duration
	f   func()
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

// NewManualScheduler starts the virtual clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[int]*manualTimer)}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &manualTimer{s: s, id: s.nextID, due: s.now + d, f: f}
	s.timers[t.id] = t
	return t
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of scheduled callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		delete(s.timers, next.id)
		s.now = next.due
		s.mu.Unlock()
		next.f()
	}
}

// AdvanceTo moves the clock to an absolute virtual time.
func (s *ManualScheduler) AdvanceTo(at time.Duration) {
	if delta := at - s.Now(); delta > 0 {
		s.Advance(delta)
	}
}

func (s *ManualScheduler) nextDueLocked(limit time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if t.due <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].id < due[j].id
		}
		return due[i].due < due[j].due
	})
	return due[0]
}
