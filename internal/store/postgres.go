package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/game"
)

// PostgresStore keeps snapshots in the games table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, s *game.GameState) error {
	data, err := game.MarshalState(s)
	if err != nil {
		return err
	}
	return database.UpsertGameState(ctx, p.pool, database.GameRow{
		ID:       s.ID,
		Version:  s.Version,
		State:    data,
		GameOver: s.GameOver,
		WinnerID: s.WinnerID,
	})
}

func (p *PostgresStore) Load(ctx context.Context, id uuid.UUID) (*game.GameState, error) {
	data, err := database.GetGameState(ctx, p.pool, id)
	if errors.Is(err, database.ErrGameNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return game.UnmarshalState(data)
}

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	return database.DeleteGame(ctx, p.pool, id)
}
