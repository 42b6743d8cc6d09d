package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
)

// MemoryStore keeps encoded snapshots in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID][]byte
	vers   map[uuid.UUID]uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[uuid.UUID][]byte),
		vers:   make(map[uuid.UUID]uint64),
	}
}

func (m *MemoryStore) Save(_ context.Context, s *game.GameState) error {
	data, err := game.MarshalState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vers[s.ID]; ok && v >= s.Version {
		return nil
	}
	m.states[s.ID] = data
	m.vers[s.ID] = s.Version
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (*game.GameState, error) {
	m.mu.RLock()
	data, ok := m.states[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return game.UnmarshalState(data)
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	delete(m.vers, id)
	return nil
}
