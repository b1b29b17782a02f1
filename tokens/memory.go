package tokens

import "sync"

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the pair in process memory. Used as the default store
// and as the test double.
type MemoryStore struct {
	mu      sync.RWMutex
	pair    Pair
	present bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.present = true
	return nil
}

func (s *MemoryStore) Load() (Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return Pair{}, ErrNoTokens
	}
	return s.pair, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	s.present = false
	return nil
}
