package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/stretchr/testify/require"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave"}

func card(color models.Color, value models.Value) models.Card {
	return models.Card{Color: color, Value: value}
}

func num(color models.Color, n int) models.Card {
	return models.Card{Color: color, Value: models.NumberValue(n)}
}

var (
	wildCard  = card(models.ColorWild, models.ValueWild)
	wild4Card = card(models.ColorWild, models.ValueWild4)
)

// buildState deals the given hands and top card out of a canonical deck; every other card
// goes to the draw pile so the state holds exactly one deck. Alice is to act.
func buildState(t *testing.T, hands [][]models.Card, top models.Card, active models.Color) *GameState {
	t.Helper()
	remaining := BuildDeck()
	take := func(c models.Card) {
		for i, r := range remaining {
			if r == c {
				remaining = append(remaining[:i], remaining[i+1:]...)
				return
			}
		}
		t.Fatalf("deck has no more %s", c)
	}

	players := make([]*models.Player, len(hands))
	for i, hand := range hands {
		for _, c := range hand {
			take(c)
		}
		players[i] = &models.Player{
			ID:   uuid.New(),
			Name: testNames[i],
			Hand: append([]models.Card{}, hand...),
		}
	}
	take(top)

	s := &GameState{
		ID:          uuid.New(),
		Players:     players,
		Direction:   Clockwise,
		DrawPile:    remaining,
		DiscardPile: []models.Card{top},
		ActiveColor: active,
		LastAction:  "Game started",
		HouseRules:  DefaultHouseRules(),
		Version:     1,
	}
	require.Equal(t, DeckSize, s.TotalCards())
	return s
}

// setupTestGame wraps a built state in a match with a seeded shuffler.
func setupTestGame(t *testing.T, hands [][]models.Card, top models.Card, active models.Color) (*UnoGame, []*models.Player) {
	t.Helper()
	g := RestoreUnoGame(buildState(t, hands, top, active), NewSeededShuffler(42))
	return g, g.State().Players
}

// snapshot captures the committed state as bytes for unchanged-state assertions.
func snapshot(t *testing.T, g *UnoGame) []byte {
	t.Helper()
	data, err := MarshalState(g.State())
	require.NoError(t, err)
	return data
}

func handOf(g *UnoGame, idx int) []models.Card {
	return g.State().Players[idx].Hand
}
