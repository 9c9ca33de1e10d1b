package affinity

import (
	"fmt"
	"sync"
)

// ──────────────────────────────────────────────
// AffinityStore — pluggable persistence backend
// ──────────────────────────────────────────────

// StateKey is the record key under each relationship namespace.
const StateKey = "affinity_state"

// AffinityStore is the storage backend interface for relationship state.
//
// Records are organized by namespace ("{character_id}:{relationship_id}")
// and key. A missing record is (nil, nil), not an error.
type AffinityStore interface {
	Get(namespace, key string) ([]byte, error)
	Set(namespace, key string, value []byte) error
	Delete(namespace, key string) error
}

// Namespace derives the store namespace for one directed relationship.
func Namespace(characterID, relationshipID string) string {
	return fmt.Sprintf("%s:%s", characterID, relationshipID)
}

// InMemoryAffinityStore is a thread-safe in-memory AffinityStore for
// development and tests. Data is lost on restart.
type InMemoryAffinityStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewInMemoryAffinityStore creates a new in-memory store.
func NewInMemoryAffinityStore() *InMemoryAffinityStore {
	return &InMemoryAffinityStore{data: make(map[string]map[string][]byte)}
}

func (s *InMemoryAffinityStore) Get(namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.data[namespace]; ok {
		if v, ok := ns[key]; ok {
			cp := make([]byte, len(v))
			copy(cp, v)
			return cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryAffinityStore) Set(namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[namespace] == nil {
		s.data[namespace] = make(map[string][]byte)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[namespace][key] = cp
	return nil
}

func (s *InMemoryAffinityStore) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.data[namespace]; ok {
		delete(ns, key)
	}
	return nil
}
