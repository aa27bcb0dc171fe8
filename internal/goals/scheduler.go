package goals

import (
	"sync"
	"time"
)

type pendingRemoval struct {
	timer *time.Timer
}

// removalScheduler runs remove(id) once a completed goal's display delay
// has passed. Rescheduling or cancelling an id replaces its timer.
type removalScheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingRemoval
	stopped bool
	remove  func(id string)
}

func newRemovalScheduler(remove func(id string)) *removalScheduler {
	return &removalScheduler{
		pending: make(map[string]*pendingRemoval),
		remove:  remove,
	}
}

func (s *removalScheduler) schedule(id string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if old, ok := s.pending[id]; ok {
		old.timer.Stop()
	}

	p := &pendingRemoval{}
	s.pending[id] = p
	p.timer = time.AfterFunc(delay, func() { s.fire(id, p) })
}

func (s *removalScheduler) fire(id string, p *pendingRemoval) {
	s.mu.Lock()
	if s.pending[id] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.mu.Unlock()

	s.remove(id)
}

// cancel reports whether a removal was pending for id.
func (s *removalScheduler) cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.pending, id)
	return true
}

func (s *removalScheduler) isPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

func (s *removalScheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}
