package storage

import (
	"encoding/json"
	"strings"
	"sync"
)

// Store is a string-keyed blob store. Implementations must treat read or
// decode failures as absence: corrupted local state never blocks the user.
type Store interface {
	// Get returns the raw value for key, or false when absent/unreadable.
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string)
	// Keys returns all stored keys with the given prefix.
	Keys(prefix string) []string
}

// GetJSON decodes the value at key into out. Missing keys and malformed
// payloads both report false.
func GetJSON(s Store, key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// SetJSON encodes v and stores it at key.
func SetJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}

// MemStore is a volatile in-process store. It plays the role of tab-scoped
// state (the active-username marker) and backs tests.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (m *MemStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (m *MemStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MemStore) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
