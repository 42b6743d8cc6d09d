// internal/handlers/game.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
)

type playerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type createResponse struct {
	GameID  uuid.UUID   `json:"game_id"`
	Players []playerRef `json:"players"`
	State   game.View   `json:"state"`
}

type playResponse struct {
	Status string      `json:"status"`
	Effect game.Effect `json:"effect"`
	State  game.View   `json:"state"`
}

type drawResponse struct {
	Status    string      `json:"status"`
	DrawnCard models.Card `json:"drawn_card"`
	State     game.View   `json:"state"`
}

type unoResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// postGameNew handles POST /api/game/new.
func (gs *GameServer) postGameNew(w http.ResponseWriter, r *http.Request) {
	var req models.NewGameRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	s, err := gs.Engine.Create(r.Context(), req.PlayerNames, req.HouseRules)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}

	resp := createResponse{
		GameID:  s.ID,
		Players: make([]playerRef, 0, len(s.Players)),
		State:   game.PublicView(s),
	}
	for _, p := range s.Players {
		resp.Players = append(resp.Players, playerRef{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusCreated, resp)
}

// getGame handles GET /api/game/{id}?player_id=.
func (gs *GameServer) getGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		writeBadRequest(w, "invalid game id")
		return
	}
	playerID, err := parsePlayerID(r.URL.Query().Get("player_id"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	view, err := gs.Engine.GetState(r.Context(), gameID, playerID)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// postPlay handles POST /api/game/{id}/play.
func (gs *GameServer) postPlay(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		writeBadRequest(w, "invalid game id")
		return
	}
	var req models.PlayCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	playerID := req.PlayerID
	if playerID == uuid.Nil {
		writeBadRequest(w, "missing player_id")
		return
	}

	res, err := gs.Engine.Play(r.Context(), gameID, playerID, req.Card, req.ChosenColor)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	view, err := gs.Engine.GetState(r.Context(), gameID, playerID)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, playResponse{Status: "success", Effect: res.Effect, State: view})
}

// postDraw handles POST /api/game/{id}/draw.
func (gs *GameServer) postDraw(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		writeBadRequest(w, "invalid game id")
		return
	}
	var req models.DrawCardRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	playerID := req.PlayerID
	if playerID == uuid.Nil {
		writeBadRequest(w, "missing player_id")
		return
	}

	res, err := gs.Engine.Draw(r.Context(), gameID, playerID)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	view, err := gs.Engine.GetState(r.Context(), gameID, playerID)
	if err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, drawResponse{Status: "success", DrawnCard: res.DrawnCard, State: view})
}

// postUno handles POST /api/game/{id}/uno.
func (gs *GameServer) postUno(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		writeBadRequest(w, "invalid game id")
		return
	}
	var req models.UnoCallRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	playerID := req.PlayerID
	if playerID == uuid.Nil {
		writeBadRequest(w, "missing player_id")
		return
	}

	if err := gs.Engine.DeclareUno(r.Context(), gameID, playerID); err != nil {
		writeError(w, gs.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, unoResponse{Status: "success", Message: "UNO!"})
}
