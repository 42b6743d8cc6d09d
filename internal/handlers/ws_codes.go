// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game socket.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	InvalidGameIDError  = 3003 // Target game does not exist.
	GameFinishedCode    = 3004 // The match ended; no further updates will be pushed.
)
