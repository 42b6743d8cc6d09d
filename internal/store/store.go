// Package store persists match snapshots so a match survives a restart of the service.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
)

// ErrNotFound is returned by Load when no snapshot exists for the id.
var ErrNotFound = errors.New("store: game not found")

// Store saves and loads full match states. Save must ignore a state older than the one
// already stored.
type Store interface {
	Save(ctx context.Context, s *game.GameState) error
	Load(ctx context.Context, id uuid.UUID) (*game.GameState, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
