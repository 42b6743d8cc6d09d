package models

import (
	"github.com/google/uuid"
)

// Player is one seat in a match. Hand is owned exclusively by the player.
type Player struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Hand           []Card    `json:"hand"`
	HasDeclaredUno bool      `json:"hasDeclaredUno"`
}

// IndexOf returns the position of the first card in the hand equal to c, or -1.
func (p *Player) IndexOf(c Card) int {
	for i, h := range p.Hand {
		if h == c {
			return i
		}
	}
	return -1
}

// RemoveAt removes and returns the card at idx.
func (p *Player) RemoveAt(idx int) Card {
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.syncUno()
	return c
}

// Give adds cards to the hand.
func (p *Player) Give(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
	p.syncUno()
}

// syncUno clears the UNO declaration whenever the hand is no longer a single card.
func (p *Player) syncUno() {
	if len(p.Hand) != 1 {
		p.HasDeclaredUno = false
	}
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Hand = append([]Card(nil), p.Hand...)
	return &cp
}
