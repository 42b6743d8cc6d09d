// internal/game/state.go
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// Direction values for GameState.Direction.
const (
	Clockwise        = 1
	CounterClockwise = -1
)

// GameState is the authoritative state of one match. It is also the persisted layout:
// marshalling it to JSON captures everything needed to resume the match.
type GameState struct {
	ID                 uuid.UUID        `json:"id"`
	Players            []*models.Player `json:"players"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	Direction          int              `json:"direction"`
	DrawPile           []models.Card    `json:"drawPile"`
	DiscardPile        []models.Card    `json:"discardPile"`

	// ActiveColor is the color the next play must match. For a wild on top it is the
	// color chosen by the player who played it.
	ActiveColor models.Color `json:"activeColor"`

	GameOver   bool       `json:"gameOver"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty"`
	LastAction string     `json:"lastAction"`
	HouseRules HouseRules `json:"houseRules"`

	// Version increments on every applied mutation.
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy; mutations are applied to a clone and committed by swapping.
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.Players = make([]*models.Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.Clone()
	}
	cp.DrawPile = append([]models.Card(nil), s.DrawPile...)
	cp.DiscardPile = append([]models.Card(nil), s.DiscardPile...)
	if s.WinnerID != nil {
		id := *s.WinnerID
		cp.WinnerID = &id
	}
	return &cp
}

// DiscardTop returns the most recently played card.
func (s *GameState) DiscardTop() models.Card {
	return s.DiscardPile[len(s.DiscardPile)-1]
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *models.Player {
	return s.Players[s.CurrentPlayerIndex]
}

// PlayerByID returns the player with the given id and its seat index.
func (s *GameState) PlayerByID(id uuid.UUID) (*models.Player, int) {
	for i, p := range s.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// TotalCards counts every card in the draw pile, discard pile and all hands. It equals
// DeckSize for every reachable state.
func (s *GameState) TotalCards() int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	return n
}
