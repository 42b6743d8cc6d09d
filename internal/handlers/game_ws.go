// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GameMessage is an action sent by a client over the game socket.
type GameMessage struct {
	// Type is one of play, draw, uno or ping.
	Type        string       `json:"type"`
	Card        *models.Card `json:"card,omitempty"`
	ChosenColor models.Color `json:"chosen_color,omitempty"`
}

// ServerMessage is pushed to the client.
type ServerMessage struct {
	Type      string       `json:"type"`
	State     *game.View   `json:"state,omitempty"`
	Effect    game.Effect  `json:"effect,omitempty"`
	DrawnCard *models.Card `json:"drawn_card,omitempty"`
	Error     string       `json:"error,omitempty"`
	Detail    string       `json:"detail,omitempty"`
}

// GameWSHandler upgrades GET /api/game/{id}/ws?player_id= to a WebSocket. The player's view is
// pushed after every applied change; the player may also send actions on the same socket.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		// Reject unknown games and players before upgrading.
		if _, err := gs.Engine.GetState(r.Context(), gameID, playerID); err != nil {
			writeError(w, logger, err)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: gs.OriginPatterns,
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			logger.Warnf("Client for game %s connected with invalid subprotocol: %s", gameID, c.Subprotocol())
			c.Close(BadSubprotocolError, "Client must use the 'game' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		versions, unsubscribe, err := gs.Engine.Subscribe(ctx, gameID)
		if err != nil {
			c.Close(InvalidGameIDError, "Game not found.")
			return
		}
		defer unsubscribe()

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return pushGameState(ctx, c, gs, gameID, playerID, versions)
		})
		eg.Go(func() error {
			return readGameMessages(ctx, c, gs, gameID, playerID, logger)
		})
		err = eg.Wait()

		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, ignoreNormalClose(err))
		c.Close(websocket.StatusNormalClosure, "")
	}
}

var errGameFinished = errors.New("game finished")

// pushGameState writes the current view, then a fresh view for every later commit.
func pushGameState(ctx context.Context, c *websocket.Conn, gs *GameServer, gameID, playerID uuid.UUID, versions <-chan uint64) error {
	var sent uint64
	push := func() error {
		view, err := gs.Engine.GetState(ctx, gameID, playerID)
		if err != nil {
			return err
		}
		if view.Version <= sent {
			return nil
		}
		sent = view.Version
		if err := wsjson.Write(ctx, c, ServerMessage{Type: "state", State: &view}); err != nil {
			return err
		}
		if view.GameOver {
			c.Close(GameFinishedCode, "Game over.")
			return errGameFinished
		}
		return nil
	}

	if err := push(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-versions:
			if !ok {
				return nil
			}
			if err := push(); err != nil {
				return err
			}
		}
	}
}

// readGameMessages applies actions sent by the player until the socket closes.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, gameID, playerID uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from player %s in game %s. Ignoring.", msgType, playerID, gameID)
			continue
		}

		var msg GameMessage
		var reply *ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON received from player %s in game %s: %v", playerID, gameID, err)
			reply = &ServerMessage{Type: "error", Error: KindInvalidRequest, Detail: "malformed JSON"}
		} else {
			logger.Debugf("Received action '%s' from player %s in game %s.", msg.Type, playerID, gameID)
			reply, err = applyGameMessage(ctx, gs, gameID, playerID, msg)
			if err != nil {
				if game.KindOf(err) == "" {
					return err
				}
				reply = errorMessage(err)
			}
		}

		if err := wsjson.Write(ctx, c, reply); err != nil {
			return err
		}
	}
}

func applyGameMessage(ctx context.Context, gs *GameServer, gameID, playerID uuid.UUID, msg GameMessage) (*ServerMessage, error) {
	switch msg.Type {
	case "play":
		if msg.Card == nil {
			return &ServerMessage{Type: "error", Error: KindInvalidRequest, Detail: "play needs a card"}, nil
		}
		res, err := gs.Engine.Play(ctx, gameID, playerID, *msg.Card, msg.ChosenColor)
		if err != nil {
			return nil, err
		}
		return &ServerMessage{Type: "played", Effect: res.Effect}, nil
	case "draw":
		res, err := gs.Engine.Draw(ctx, gameID, playerID)
		if err != nil {
			return nil, err
		}
		return &ServerMessage{Type: "drawn", DrawnCard: &res.DrawnCard}, nil
	case "uno":
		if err := gs.Engine.DeclareUno(ctx, gameID, playerID); err != nil {
			return nil, err
		}
		return &ServerMessage{Type: "uno", Detail: "UNO!"}, nil
	case "ping":
		return &ServerMessage{Type: "pong"}, nil
	default:
		return &ServerMessage{Type: "error", Error: KindInvalidRequest, Detail: "unknown action type " + msg.Type}, nil
	}
}

func errorMessage(err error) *ServerMessage {
	msg := &ServerMessage{Type: "error", Error: string(game.KindOf(err))}
	var ge *game.Error
	if errors.As(err, &ge) {
		msg.Detail = ge.Msg
	}
	return msg
}

func ignoreNormalClose(err error) error {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, errGameFinished) {
		return nil
	}
	return err
}
