package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore is the in-memory registry of live matches. Its lock only guards the map;
// each match serializes its own mutations.
type GameStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*UnoGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*UnoGame),
	}
}

func (s *GameStore) AddGame(game *UnoGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
}

// AddGameIfAbsent stores game unless another match with the same id is already live, in
// which case the live one is returned.
func (s *GameStore) AddGameIfAbsent(game *UnoGame) *UnoGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.games[game.ID]; ok {
		return g
	}
	s.games[game.ID] = game
	return game
}

func (s *GameStore) GetGame(id uuid.UUID) (*UnoGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Len returns the number of live matches.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
