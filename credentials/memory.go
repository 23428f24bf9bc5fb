package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the token in process memory. It implements [Watchable].
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	nextID   int
	watchers map[int]func(present bool)
}

// NewMemoryStore returns an empty in-memory token slot.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		watchers: make(map[int]func(present bool)),
	}
}

// Get returns the stored token, or "" when the slot is empty.
func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Set stores token, replacing any previous value.
func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.update(token)
	return nil
}

// Clear empties the slot. Clearing an empty slot is a no-op.
func (s *MemoryStore) Clear(context.Context) error {
	s.update("")
	return nil
}

// Watch implements [Watchable].
func (s *MemoryStore) Watch(fn func(present bool)) (stop func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *MemoryStore) update(token string) {
	s.mu.Lock()
	wasPresent := s.token != ""
	s.token = token
	present := token != ""
	var notify []func(bool)
	if present != wasPresent {
		for _, fn := range s.watchers {
			notify = append(notify, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(present)
	}
}
