package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keyrate/internal/clock"
)

// timerFiredMsg asks Update to run the callback registered under id.
type timerFiredMsg struct {
	id uint64
}

// programScheduler turns delayed callbacks into Bubble Tea messages so they
// run on the Update goroutine together with key handling.
type programScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func()
	send    func(tea.Msg)
}

func newProgramScheduler() *programScheduler {
	return &programScheduler{pending: map[uint64]func(){}}
}

func (s *programScheduler) setSender(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

// AfterFunc implements clock.Scheduler.
func (s *programScheduler) AfterFunc(d time.Duration, fn func()) clock.Timer {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.mu.Unlock()

	t := time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(timerFiredMsg{id: id})
		}
	})
	return &programTimer{sched: s, id: id, timer: t}
}

// fire runs the callback for id unless it was stopped meanwhile.
func (s *programScheduler) fire(id uint64) {
	s.mu.Lock()
	fn, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if ok {
		fn()
	}
}

func (s *programScheduler) cancel(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	delete(s.pending, id)
	return ok
}

type programTimer struct {
	sched *programScheduler
	id    uint64
	timer *time.Timer
}

// Stop implements clock.Timer.
func (t *programTimer) Stop() bool {
	t.timer.Stop()
	return t.sched.cancel(t.id)
}
