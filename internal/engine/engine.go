// Package engine exposes the match operations over the live match registry, with
// write-through persistence and action-log publication on every applied change.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/jason-s-yu/uno/internal/store"
	"github.com/sirupsen/logrus"
)

const defaultSideEffectTimeout = 3 * time.Second

// ActionPublisher receives one record per applied change. *cache.ActionLog implements it.
type ActionPublisher interface {
	Publish(ctx context.Context, record cache.ActionRecord) error
}

// Options configures an Engine. Every field is optional.
type Options struct {
	Store   store.Store
	Actions ActionPublisher
	Logger  *logrus.Logger

	// NewShuffler is called once per match; tests pass a seeded one.
	NewShuffler func() game.Shuffler

	// SideEffectTimeout bounds each persistence and publish call made after a commit.
	SideEffectTimeout time.Duration
}

// Engine owns every live match in this process.
type Engine struct {
	games       *game.GameStore
	store       store.Store
	actions     ActionPublisher
	logger      *logrus.Logger
	newShuffler func() game.Shuffler
	timeout     time.Duration
}

func New(opts Options) *Engine {
	e := &Engine{
		games:       game.NewGameStore(),
		store:       opts.Store,
		actions:     opts.Actions,
		logger:      opts.Logger,
		newShuffler: opts.NewShuffler,
		timeout:     opts.SideEffectTimeout,
	}
	if e.store == nil {
		e.store = store.NewMemoryStore()
	}
	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}
	if e.newShuffler == nil {
		e.newShuffler = game.NewShuffler
	}
	if e.timeout <= 0 {
		e.timeout = defaultSideEffectTimeout
	}
	return e
}

// Create starts a match for names in seat order. rules overrides the default house rules.
func (e *Engine) Create(ctx context.Context, names []string, rules map[string]interface{}) (*game.GameState, error) {
	houseRules, err := game.ParseRules(rules, game.DefaultHouseRules())
	if err != nil {
		return nil, err
	}
	g, err := game.NewUnoGame(names, houseRules, e.newShuffler())
	if err != nil {
		return nil, err
	}
	g.OnCommit = e.onCommit

	s := g.State()

	players := make([]map[string]interface{}, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, map[string]interface{}{"id": p.ID, "name": p.Name})
	}
	e.onCommit(game.Commit{
		State:   s,
		ActorID: s.Players[0].ID,
		Action:  game.ActionGameCreated,
		Payload: map[string]interface{}{
			"players":    players,
			"discardTop": s.DiscardTop(),
			"houseRules": s.HouseRules,
		},
	})
	e.games.AddGame(g)
	e.logger.Infof("Created game %s with %d players", s.ID, len(s.Players))
	return s, nil
}

// GetState returns viewerID's view of the match.
func (e *Engine) GetState(ctx context.Context, gameID, viewerID uuid.UUID) (game.View, error) {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}
	return g.View(viewerID)
}

// PublicState returns the match with every hand hidden.
func (e *Engine) PublicState(ctx context.Context, gameID uuid.UUID) (game.View, error) {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}
	return game.PublicView(g.State()), nil
}

func (e *Engine) Play(ctx context.Context, gameID, playerID uuid.UUID, card models.Card, chosen models.Color) (game.PlayResult, error) {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return game.PlayResult{}, err
	}
	return g.Play(playerID, card, chosen)
}

func (e *Engine) Draw(ctx context.Context, gameID, playerID uuid.UUID) (game.DrawResult, error) {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return game.DrawResult{}, err
	}
	return g.Draw(playerID)
}

func (e *Engine) DeclareUno(ctx context.Context, gameID, playerID uuid.UUID) error {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return err
	}
	return g.DeclareUno(playerID)
}

// Subscribe streams the version of every later commit to gameID until cancel is called.
func (e *Engine) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan uint64, func(), error) {
	g, err := e.lookup(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := g.Subscribe()
	return ch, cancel, nil
}

// Evict drops a match from memory and from the store.
func (e *Engine) Evict(ctx context.Context, gameID uuid.UUID) error {
	e.games.DeleteGame(gameID)
	return e.store.Delete(ctx, gameID)
}

// LiveGames returns the number of matches held in memory.
func (e *Engine) LiveGames() int {
	return e.games.Len()
}

// lookup returns the live match, restoring it from the store if this process has not seen it.
func (e *Engine) lookup(ctx context.Context, id uuid.UUID) (*game.UnoGame, error) {
	if g, ok := e.games.GetGame(id); ok {
		return g, nil
	}
	s, err := e.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &game.Error{Kind: game.KindGameNotFound, Msg: "no game with id " + id.String()}
	}
	if err != nil {
		return nil, err
	}

	g := game.RestoreUnoGame(s, e.newShuffler())
	g.OnCommit = e.onCommit
	live := e.games.AddGameIfAbsent(g)
	if live == g {
		e.logger.Infof("Restored game %s at version %d", id, s.Version)
	}
	return live, nil
}

// onCommit runs under the match lock, so snapshots and records leave in version order.
// Failures are logged; the committed move stands.
func (e *Engine) onCommit(c game.Commit) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.store.Save(ctx, c.State); err != nil {
		e.logger.Errorf("Failed to persist game %s at version %d: %v", c.State.ID, c.State.Version, err)
	}

	if e.actions == nil {
		return
	}
	rec := cache.ActionRecord{
		GameID:        c.State.ID,
		ActionIndex:   c.State.Version,
		ActorID:       c.ActorID,
		ActionType:    string(c.Action),
		ActionPayload: c.Payload,
		Timestamp:     c.State.UpdatedAt.UnixMilli(),
	}
	if err := e.actions.Publish(ctx, rec); err != nil {
		e.logger.Warnf("Failed to publish %s for game %s: %v", c.Action, c.State.ID, err)
	}
}
