// internal/handlers/game_server.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jason-s-yu/uno/internal/engine"
	"github.com/sirupsen/logrus"
)

const uuidPattern = "{id:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}"

// GameServer serves the match API on top of an Engine.
type GameServer struct {
	*mux.Router

	Engine *engine.Engine
	Logger *logrus.Logger

	// OriginPatterns is passed to the websocket handshake.
	OriginPatterns []string
}

func NewGameServer(e *engine.Engine, logger *logrus.Logger, originPatterns []string) *GameServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	gs := &GameServer{
		Router:         mux.NewRouter(),
		Engine:         e,
		Logger:         logger,
		OriginPatterns: originPatterns,
	}

	r := gs.Router
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(gs.getHealth)
	r.Methods(http.MethodPost).Path("/api/game/new").HandlerFunc(gs.postGameNew)

	gr := r.PathPrefix("/api/game/" + uuidPattern).Subrouter()
	gr.Methods(http.MethodGet).Path("").HandlerFunc(gs.getGame)
	gr.Methods(http.MethodPost).Path("/play").HandlerFunc(gs.postPlay)
	gr.Methods(http.MethodPost).Path("/draw").HandlerFunc(gs.postDraw)
	gr.Methods(http.MethodPost).Path("/uno").HandlerFunc(gs.postUno)
	gr.Methods(http.MethodGet).Path("/ws").Handler(GameWSHandler(logger, gs))

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NotFound", Detail: r.URL.Path})
	})
	return gs
}

func (gs *GameServer) getHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
