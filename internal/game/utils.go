// internal/game/utils.go
package game

import (
	"encoding/json"
	"fmt"
)

// MarshalState encodes a state snapshot for storage.
func MarshalState(s *GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state %s: %w", s.ID, err)
	}
	return data, nil
}

// UnmarshalState decodes a stored snapshot and checks that it is playable.
func UnmarshalState(data []byte) (*GameState, error) {
	var s GameState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}
	if len(s.Players) < MinPlayers || len(s.Players) > MaxPlayers {
		return nil, fmt.Errorf("game state %s has %d players", s.ID, len(s.Players))
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil, fmt.Errorf("game state %s has current player index %d out of range", s.ID, s.CurrentPlayerIndex)
	}
	if len(s.DiscardPile) == 0 {
		return nil, fmt.Errorf("game state %s has an empty discard pile", s.ID)
	}
	if s.Direction != Clockwise && s.Direction != CounterClockwise {
		return nil, fmt.Errorf("game state %s has direction %d", s.ID, s.Direction)
	}
	if total := s.TotalCards(); total != DeckSize {
		return nil, fmt.Errorf("game state %s holds %d cards, want %d", s.ID, total, DeckSize)
	}
	return &s, nil
}
