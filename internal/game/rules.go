// internal/game/rules.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// Bounds for HouseRules.InitialHandSize. Four players at the maximum still leave number
// cards in the draw pile for the opening flip.
const (
	DefaultHandSize = 7
	MinHandSize     = 1
	MaxHandSize     = 15
)

// HouseRules defines optional per-match variations on standard play.
type HouseRules struct {
	InitialHandSize int  `json:"initialHandSize"` // cards dealt to each player at match start
	UnoOnlyOnTurn   bool `json:"unoOnlyOnTurn"`   // only the current player may declare UNO
}

// DefaultHouseRules returns the standard rule set.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		InitialHandSize: DefaultHandSize,
		UnoOnlyOnTurn:   false,
	}
}

// Update will update the house rules with the new rules provided.
// Keys that are absent or null keep their old value.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			*field = b
		}
		return nil
	}

	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		// JSON numbers decode as float64
		switch n := val.(type) {
		case float64:
			if n != float64(int(n)) {
				return fmt.Errorf("%s must be a whole number", key)
			}
			*field = int(n)
		case int:
			*field = n
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if *field < minVal || *field > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		return nil
	}

	if err := assignInt(&rules.InitialHandSize, "initialHandSize", MinHandSize, MaxHandSize); err != nil {
		return err
	}
	if err := assignBool(&rules.UnoOnlyOnTurn, "unoOnlyOnTurn"); err != nil {
		return err
	}
	return nil
}

// ParseRules applies rules on top of current and wraps failures as InvalidHouseRules.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	if err := houseRules.Update(rules); err != nil {
		return current, reject(KindInvalidHouseRules, "%v", err)
	}
	return houseRules, nil
}

// checkTurn rejects actions on a finished match or from anyone but the current player.
func checkTurn(s *GameState, playerID uuid.UUID) (*models.Player, error) {
	if s.GameOver {
		return nil, reject(KindGameAlreadyOver, "game %s is over", s.ID)
	}
	current := s.CurrentPlayer()
	if current.ID != playerID {
		return nil, reject(KindNotYourTurn, "it is %s's turn", current.Name)
	}
	return current, nil
}

// validatePlay runs every precondition of a play in order and returns the acting player
// and the hand index of the card. It never mutates s.
func validatePlay(s *GameState, playerID uuid.UUID, card models.Card, chosen models.Color) (*models.Player, int, error) {
	player, err := checkTurn(s, playerID)
	if err != nil {
		return nil, -1, err
	}

	idx := player.IndexOf(card)
	if idx < 0 {
		return nil, -1, reject(KindCardNotInHand, "%s does not hold %s", player.Name, card)
	}

	if card.IsWild() {
		if !chosen.IsSuit() {
			return nil, -1, reject(KindMissingColorChoice, "%s needs a color of red, blue, green or yellow", card)
		}
		return player, idx, nil
	}

	if !canPlayOn(card, s.DiscardTop(), s.ActiveColor) {
		return nil, -1, reject(KindIllegalPlay, "%s does not match %s (active color %s)", card, s.DiscardTop(), s.ActiveColor)
	}
	return player, idx, nil
}

// canPlayOn reports whether a non-wild card may be played on top.
func canPlayOn(card, top models.Card, activeColor models.Color) bool {
	return card.Color == activeColor || card.Value == top.Value
}
