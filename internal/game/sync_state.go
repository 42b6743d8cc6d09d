// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// ObfPlayerState is the public face of one player: never the hand, only its size.
type ObfPlayerState struct {
	PlayerID       uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CardCount      int       `json:"cardCount"`
	HasDeclaredUno bool      `json:"hasDeclaredUno"`
	IsCurrentTurn  bool      `json:"isCurrentTurn"`
}

// View is a GameState as one viewer is allowed to see it.
type View struct {
	GameID   uuid.UUID `json:"gameId"`
	ViewerID uuid.UUID `json:"viewerId,omitempty"`

	// Hand is the viewer's own hand; nil for a public view.
	Hand    []models.Card    `json:"hand,omitempty"`
	Players []ObfPlayerState `json:"players"`

	DiscardTop       models.Card  `json:"discardTop"`
	ActiveColor      models.Color `json:"activeColor"`
	DrawPileCount    int          `json:"drawPileCount"`
	DiscardPileCount int          `json:"discardPileCount"`

	Direction          int       `json:"direction"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	CurrentPlayerID    uuid.UUID `json:"currentPlayerId"`
	CurrentPlayerName  string    `json:"currentPlayerName"`

	GameOver   bool       `json:"gameOver"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty"`
	WinnerName string     `json:"winnerName,omitempty"`
	LastAction string     `json:"lastAction"`
	Version    uint64     `json:"version"`
}

// Project builds viewer's view of s. The viewer must be a player in the match.
func Project(s *GameState, viewer uuid.UUID) (View, error) {
	me, _ := s.PlayerByID(viewer)
	if me == nil {
		return View{}, reject(KindUnknownPlayer, "player %s is not in game %s", viewer, s.ID)
	}
	v := PublicView(s)
	v.ViewerID = viewer
	v.Hand = append([]models.Card{}, me.Hand...)
	return v, nil
}

// PublicView builds the view shared by everyone: hand sizes only.
func PublicView(s *GameState) View {
	current := s.CurrentPlayer()
	v := View{
		GameID:             s.ID,
		Players:            make([]ObfPlayerState, 0, len(s.Players)),
		DiscardTop:         s.DiscardTop(),
		ActiveColor:        s.ActiveColor,
		DrawPileCount:      len(s.DrawPile),
		DiscardPileCount:   len(s.DiscardPile),
		Direction:          s.Direction,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		CurrentPlayerID:    current.ID,
		CurrentPlayerName:  current.Name,
		GameOver:           s.GameOver,
		LastAction:         s.LastAction,
		Version:            s.Version,
	}
	for i, p := range s.Players {
		v.Players = append(v.Players, ObfPlayerState{
			PlayerID:       p.ID,
			Name:           p.Name,
			CardCount:      len(p.Hand),
			HasDeclaredUno: p.HasDeclaredUno,
			IsCurrentTurn:  i == s.CurrentPlayerIndex && !s.GameOver,
		})
	}
	if s.WinnerID != nil {
		id := *s.WinnerID
		v.WinnerID = &id
		if w, _ := s.PlayerByID(id); w != nil {
			v.WinnerName = w.Name
		}
	}
	return v
}
