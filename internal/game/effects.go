// internal/game/effects.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/uno/internal/models"
)

// Effect is the closed set of consequences a played card can have.
type Effect string

const (
	EffectNone    Effect = "none"
	EffectSkip    Effect = "skip"
	EffectReverse Effect = "reverse"
	EffectDraw2   Effect = "draw2"
	EffectWild    Effect = "wild"
	EffectWild4   Effect = "wild4"
)

// EffectOf maps a card face to its effect. Number cards have none.
func EffectOf(v models.Value) Effect {
	switch v {
	case models.ValueSkip:
		return EffectSkip
	case models.ValueReverse:
		return EffectReverse
	case models.ValueDraw2:
		return EffectDraw2
	case models.ValueWild:
		return EffectWild
	case models.ValueWild4:
		return EffectWild4
	}
	return EffectNone
}

// PlayResult describes an applied play.
type PlayResult struct {
	Effect      Effect       `json:"effect"`
	Card        models.Card  `json:"card"`
	ActiveColor models.Color `json:"activeColor"`
	GameOver    bool         `json:"gameOver"`
}

// resolvePlay applies a validated play: the card moves to the discard pile, the win check
// runs, and only if the match continues the card's effect and turn advance are applied.
func (s *GameState) resolvePlay(player *models.Player, idx int, chosen models.Color, sh Shuffler) (PlayResult, error) {
	card := player.RemoveAt(idx)
	s.DiscardPile = append(s.DiscardPile, card)
	if card.IsWild() {
		s.ActiveColor = chosen
	} else {
		s.ActiveColor = card.Color
	}

	effect := EffectOf(card.Value)
	res := PlayResult{Effect: effect, Card: card, ActiveColor: s.ActiveColor}

	if len(player.Hand) == 0 {
		id := player.ID
		s.GameOver = true
		s.WinnerID = &id
		s.LastAction = fmt.Sprintf("%s played %s and wins!", player.Name, card)
		res.GameOver = true
		return res, nil
	}

	next := s.Players[s.peek(1)]

	switch effect {
	case EffectNone:
		s.LastAction = fmt.Sprintf("%s played %s", player.Name, card)
		s.advance(1)

	case EffectSkip:
		s.LastAction = fmt.Sprintf("%s played %s, %s is skipped", player.Name, card, next.Name)
		s.advance(2)

	case EffectReverse:
		s.reverse()
		s.LastAction = fmt.Sprintf("%s played %s, direction is now %s", player.Name, card, directionName(s.Direction))
		if len(s.Players) == 2 {
			// with two players a reverse hands the turn straight back
			s.advance(2)
		} else {
			s.advance(1)
		}

	case EffectDraw2:
		s.LastAction = s.forceDraw(player, card, next, 2, sh)
		s.advance(2)

	case EffectWild:
		s.LastAction = fmt.Sprintf("%s played wild, color is now %s", player.Name, chosen)
		s.advance(1)

	case EffectWild4:
		s.LastAction = s.forceDraw(player, card, next, 4, sh) + fmt.Sprintf(", color is now %s", chosen)
		s.advance(2)

	default:
		return PlayResult{}, fmt.Errorf("unhandled effect %q for %s", effect, card)
	}
	return res, nil
}

// forceDraw makes victim draw n cards. If both piles run dry the victim takes what is left;
// the play itself still stands.
func (s *GameState) forceDraw(player *models.Player, card models.Card, victim *models.Player, n int, sh Shuffler) string {
	drawn := s.drawCards(n, sh)
	victim.Give(drawn...)
	if len(drawn) < n {
		return fmt.Sprintf("%s played %s, %s draws %d (only %d left) and is skipped", player.Name, card, victim.Name, n, len(drawn))
	}
	return fmt.Sprintf("%s played %s, %s draws %d and is skipped", player.Name, card, victim.Name, n)
}
