package session

import "sync"

// MemoryStore keeps session state in process memory. Useful for tests and
// for hosts that do not want persistence across restarts.
type MemoryStore struct {
	mu sync.RWMutex
	st *State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.clone(), nil
}

func (m *MemoryStore) Save(st *State) error {
	m.mu.Lock()
	m.st = st.clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.st = nil
	m.mu.Unlock()
	return nil
}
