// internal/handlers/api_server.go
package handlers

import (
	"net/http"
	"os"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/rs/cors"
)

// APIOptions controls the middleware wrapped around a GameServer.
type APIOptions struct {
	CORSOrigins []string
	// AccessLog adds an Apache combined-format log on stdout.
	AccessLog bool
}

// NewAPIHandler wraps gs with panic recovery, request logging and CORS.
func NewAPIHandler(gs *GameServer, opts APIOptions) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	var h http.Handler = gs
	h = c.Handler(h)
	h = middleware.LogMiddleware(gs.Logger)(h)
	h = middleware.Recover(gs.Logger)(h)
	if opts.AccessLog {
		h = gorillahandlers.CombinedLoggingHandler(os.Stdout, h)
	}
	return h
}
