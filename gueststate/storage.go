package gueststate

import "sync"

// Storage persists one serialized state document per key. It is the
// web-storage analog the guest store saves through: reads and writes always
// cover the whole value, so concurrent writers of the same key are
// last-write-wins on the full document.
type Storage interface {
	// Load returns the stored value and whether the key exists.
	Load(key string) (string, bool, error)
	Save(key, value string) error
	Delete(key string) error
}

// MemoryStorage is an in-process Storage, used in tests and as a fallback
// when no database is wired.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Load(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStorage) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
