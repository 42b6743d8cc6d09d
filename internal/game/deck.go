// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/jason-s-yu/uno/internal/models"
)

// DeckSize is the number of cards in a complete deck.
const DeckSize = 108

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns a time-seeded shuffler. It is not safe for concurrent use; each match
// owns its own and only touches it under the match lock.
func NewShuffler() Shuffler {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededShuffler returns a deterministic shuffler for tests and replays.
func NewSeededShuffler(seed int64) Shuffler {
	return rand.New(rand.NewSource(seed))
}

// BuildDeck returns the 108-card deck in canonical order: for each color one 0, two of
// each 1-9, two skip, two reverse, two draw2; then four wild and four wild4.
func BuildDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, color := range models.SuitColors {
		deck = append(deck, models.Card{Color: color, Value: models.NumberValue(0)})
		for n := 1; n <= 9; n++ {
			c := models.Card{Color: color, Value: models.NumberValue(n)}
			deck = append(deck, c, c)
		}
	}
	for _, color := range models.SuitColors {
		for i := 0; i < 2; i++ {
			deck = append(deck,
				models.Card{Color: color, Value: models.ValueSkip},
				models.Card{Color: color, Value: models.ValueReverse},
				models.Card{Color: color, Value: models.ValueDraw2},
			)
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck,
			models.Card{Color: models.ColorWild, Value: models.ValueWild},
			models.Card{Color: models.ColorWild, Value: models.ValueWild4},
		)
	}
	return deck
}

// ShuffleCards permutes cards in place (Fisher-Yates via sh).
func ShuffleCards(cards []models.Card, sh Shuffler) {
	sh.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// deal hands out n cards to every player, one card per player per round in seat order,
// taken from the front of the draw pile.
func (s *GameState) deal(n int) {
	for round := 0; round < n; round++ {
		for _, p := range s.Players {
			card := s.DrawPile[0]
			s.DrawPile = s.DrawPile[1:]
			p.Give(card)
		}
	}
}

// flipInitialDiscard turns up the first discard. Non-number cards are buried at the bottom
// of the draw pile and the next card is flipped, so a match always opens on a number card.
func (s *GameState) flipInitialDiscard() {
	for {
		card := s.DrawPile[0]
		s.DrawPile = s.DrawPile[1:]
		if card.Value.IsNumber() {
			s.DiscardPile = append(s.DiscardPile, card)
			s.ActiveColor = card.Color
			return
		}
		s.DrawPile = append(s.DrawPile, card)
	}
}

// reshuffleIfEmpty refills an empty draw pile with every discard except the top card.
// It returns false if the draw pile is still empty afterwards.
func (s *GameState) reshuffleIfEmpty(sh Shuffler) bool {
	if len(s.DrawPile) > 0 {
		return true
	}
	if len(s.DiscardPile) <= 1 {
		return false
	}
	top := s.DiscardPile[len(s.DiscardPile)-1]
	below := s.DiscardPile[:len(s.DiscardPile)-1]

	pile := make([]models.Card, len(below))
	copy(pile, below)
	ShuffleCards(pile, sh)

	s.DrawPile = pile
	s.DiscardPile = []models.Card{top}
	return true
}

// drawCards takes up to n cards from the front of the draw pile, reshuffling the discard
// pile in when needed. Fewer than n cards are returned only when both piles are exhausted.
func (s *GameState) drawCards(n int, sh Shuffler) []models.Card {
	drawn := make([]models.Card, 0, n)
	for len(drawn) < n {
		if !s.reshuffleIfEmpty(sh) {
			break
		}
		drawn = append(drawn, s.DrawPile[0])
		s.DrawPile = s.DrawPile[1:]
	}
	return drawn
}
