// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/uno/internal/cache"
)

// ErrGameNotFound is returned when no snapshot is stored for a game id.
var ErrGameNotFound = errors.New("game not found")

// GameRow is the persisted snapshot of one match.
type GameRow struct {
	ID       uuid.UUID
	Version  uint64
	State    []byte
	GameOver bool
	WinnerID *uuid.UUID
}

// UpsertGameState stores a snapshot unless a newer version is already stored.
func UpsertGameState(ctx context.Context, pool *pgxpool.Pool, row GameRow) error {
	status := "in_progress"
	if row.GameOver {
		status = "completed"
	}
	q := `
		INSERT INTO games (id, status, version, state, winner_id, start_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			status     = EXCLUDED.status,
			version    = EXCLUDED.version,
			state      = EXCLUDED.state,
			winner_id  = EXCLUDED.winner_id,
			updated_at = NOW(),
			end_time   = CASE WHEN EXCLUDED.status = 'completed' THEN NOW() ELSE games.end_time END
		WHERE games.version < EXCLUDED.version
	`
	err := pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, row.ID, status, int64(row.Version), row.State, row.WinnerID)
		return e
	})
	if err != nil {
		return fmt.Errorf("storing game state %s in DB: %w", row.ID, err)
	}
	return nil
}

// GetGameState loads the latest snapshot for id.
func GetGameState(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) ([]byte, error) {
	var state []byte
	q := `SELECT state FROM games WHERE id = $1 AND state IS NOT NULL`
	err := pool.QueryRow(ctx, q, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game state %s: %w", id, err)
	}
	return state, nil
}

// DeleteGame removes a game and its action history.
func DeleteGame(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	if _, err := pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	return nil
}

// InsertActions writes a batch of action records in one transaction. Records already stored
// are skipped so a replayed batch is harmless; a game_won record completes the game row.
func InsertActions(ctx context.Context, pool *pgxpool.Pool, records []cache.ActionRecord) error {
	return pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert action %s/%d: %w", rec.GameID, rec.ActionIndex, err)
			}
		}
		return nil
	})
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec cache.ActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (game_id, action_index, actor_id, action_type, action_payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, actionInsertQ, rec.GameID, int64(rec.ActionIndex), rec.ActorID, rec.ActionType, payload); err != nil {
		return err
	}

	if rec.ActionType == "game_won" {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW(), winner_id = $2
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID, rec.ActorID); err != nil {
			return err
		}
	}
	return nil
}

// MarkGameAbandoned marks a game abandoned if it is still in progress.
func MarkGameAbandoned(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) (bool, error) {
	q := `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	tag, err := pool.Exec(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark game %s abandoned: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
