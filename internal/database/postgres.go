package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the tables used by the game store and the historian. Statements are
// idempotent so every process may run them at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id          UUID PRIMARY KEY,
		status      TEXT NOT NULL DEFAULT 'in_progress',
		version     BIGINT NOT NULL DEFAULT 0,
		state       JSONB,
		winner_id   UUID,
		start_time  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_time    TIMESTAMPTZ,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		action_index   BIGINT NOT NULL,
		actor_id       UUID,
		action_type    TEXT NOT NULL,
		action_payload JSONB,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (game_id, action_index)
	)`,
	`CREATE INDEX IF NOT EXISTS games_status_idx ON games (status)`,
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
