package engine

import "sync"

// defaultSeenCapacity bounds each suppression set. On overflow the oldest
// half is evicted, so long-running listeners cannot grow without bound.
const defaultSeenCapacity = 1000

// SeenSet is a bounded insertion-ordered set of message identities.
// Safe for concurrent use.
type SeenSet struct {
	mu    sync.Mutex
	set   map[string]struct{}
	order []string
	cap   int
}

// NewSeenSet creates a set holding at most capacity entries.
func NewSeenSet(capacity int) *SeenSet {
	if capacity <= 0 {
		capacity = defaultSeenCapacity
	}
	return &SeenSet{
		set: make(map[string]struct{}, capacity),
		cap: capacity,
	}
}

// Contains reports whether id has been marked.
func (s *SeenSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

// Mark records id unconditionally.
func (s *SeenSet) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark(id)
}

// CheckAndMark records id and reports whether it was new. The check and the
// mark are one atomic step, so two callers can never both see "new".
func (s *SeenSet) CheckAndMark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set[id]; ok {
		return false
	}
	s.mark(id)
	return true
}

// Len returns the current entry count.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

func (s *SeenSet) mark(id string) {
	if _, ok := s.set[id]; ok {
		return
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)

	if len(s.order) > s.cap {
		keep := s.cap / 2
		evicted := s.order[:len(s.order)-keep]
		for _, old := range evicted {
			delete(s.set, old)
		}
		s.order = append(s.order[:0:0], s.order[len(s.order)-keep:]...)
	}
}
