package rate

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int64
	start time.Time
}

// MemoryStore keeps windows in process memory. Counters are not shared
// between instances of the service.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]map[string]*window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]*window)}
}

func (s *MemoryStore) Hit(_ context.Context, identifier, scope string, length time.Duration, now time.Time) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes, ok := s.entries[identifier]
	if !ok {
		scopes = make(map[string]*window)
		s.entries[identifier] = scopes
	}

	w, ok := scopes[scope]
	if !ok || now.Sub(w.start) > length {
		w = &window{count: 1, start: now}
		scopes[scope] = w
		return w.count, w.start, nil
	}

	w.count++
	return w.count, w.start, nil
}
