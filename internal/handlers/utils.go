package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

// KindInvalidRequest reports a request the server could not decode.
const KindInvalidRequest = "InvalidRequest"

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

// writeError maps a rejection kind to its status; anything else is a 500.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	kind := game.KindOf(err)
	if kind == "" {
		logger.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: http.StatusText(http.StatusInternalServerError),
		})
		return
	}

	var ge *game.Error
	detail := ""
	if errors.As(err, &ge) {
		detail = ge.Msg
	}
	writeJSON(w, statusFor(kind), errorResponse{Error: string(kind), Detail: detail})
}

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindGameNotFound, game.KindUnknownPlayer:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: KindInvalidRequest, Detail: detail})
}

// decodeRequest decodes the JSON body into payload, answering 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeBadRequest(w, fmt.Sprintf("malformed JSON body: %v", err))
		return false
	}
	return true
}

func gameIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func parsePlayerID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, errors.New("missing player_id")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid player_id %q", s)
	}
	return id, nil
}
