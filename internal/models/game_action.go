package models

import "github.com/google/uuid"

// NewGameRequest is the body of POST /api/game/new.
type NewGameRequest struct {
	PlayerNames []string               `json:"player_names"`
	HouseRules  map[string]interface{} `json:"house_rules,omitempty"`
}

// PlayCardRequest is the body of POST /api/game/{id}/play.
// ChosenColor is required for wild cards.
type PlayCardRequest struct {
	PlayerID    uuid.UUID `json:"player_id"`
	Card        Card      `json:"card"`
	ChosenColor Color     `json:"chosen_color,omitempty"`
}

// DrawCardRequest is the body of POST /api/game/{id}/draw.
type DrawCardRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

// UnoCallRequest is the body of POST /api/game/{id}/uno.
type UnoCallRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}
