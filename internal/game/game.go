// internal/game/game.go
package game

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// Player count bounds for a match.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// ActionType names an applied state transition, as published to the action log.
type ActionType string

const (
	ActionGameCreated ActionType = "game_created"
	ActionCardPlayed  ActionType = "card_played"
	ActionCardDrawn   ActionType = "card_drawn"
	ActionUnoDeclared ActionType = "uno_declared"
	ActionGameWon     ActionType = "game_won"
)

// Commit is handed to OnCommit after a mutation is applied.
type Commit struct {
	State   *GameState
	ActorID uuid.UUID
	Action  ActionType
	Payload map[string]interface{}
}

// DrawResult describes an applied draw.
type DrawResult struct {
	DrawnCard models.Card `json:"drawnCard"`
}

// UnoGame is one match. Mutations are serialized by mu and applied to a copy of the
// committed state; readers load the committed state without locking.
type UnoGame struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    atomic.Pointer[GameState]
	shuffler Shuffler
	now      func() time.Time

	// OnCommit runs under the match lock after every applied mutation, in version order.
	OnCommit func(c Commit)

	subsMu sync.Mutex
	subs   map[int]chan uint64
	nextID int
}

// NewUnoGame builds, shuffles and deals a new match for the given player names in seat order.
func NewUnoGame(names []string, rules HouseRules, sh Shuffler) (*UnoGame, error) {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return nil, reject(KindInvalidPlayerCount, "game requires %d-%d players, got %d", MinPlayers, MaxPlayers, len(names))
	}
	if rules.InitialHandSize < MinHandSize || rules.InitialHandSize > MaxHandSize {
		return nil, reject(KindInvalidHouseRules, "initialHandSize must be between %d and %d", MinHandSize, MaxHandSize)
	}

	players := make([]*models.Player, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, reject(KindInvalidPlayerName, "player %d has no name", i+1)
		}
		players = append(players, &models.Player{
			ID:   uuid.New(),
			Name: name,
			Hand: []models.Card{},
		})
	}

	if sh == nil {
		sh = NewShuffler()
	}

	deck := BuildDeck()
	ShuffleCards(deck, sh)

	now := time.Now().UTC()
	s := &GameState{
		ID:          uuid.New(),
		Players:     players,
		Direction:   Clockwise,
		DrawPile:    deck,
		DiscardPile: []models.Card{},
		LastAction:  "Game started",
		HouseRules:  rules,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.deal(rules.InitialHandSize)
	s.flipInitialDiscard()

	return RestoreUnoGame(s, sh), nil
}

// RestoreUnoGame wraps an existing state, e.g. one loaded from a store.
func RestoreUnoGame(s *GameState, sh Shuffler) *UnoGame {
	if sh == nil {
		sh = NewShuffler()
	}
	g := &UnoGame{
		ID:       s.ID,
		shuffler: sh,
		now:      func() time.Time { return time.Now().UTC() },
		subs:     make(map[int]chan uint64),
	}
	g.state.Store(s)
	return g
}

// State returns the latest committed state. Callers must treat it as read-only.
func (g *UnoGame) State() *GameState {
	return g.state.Load()
}

// View projects the committed state for viewer.
func (g *UnoGame) View(viewer uuid.UUID) (View, error) {
	return Project(g.State(), viewer)
}

// Play validates and applies playerID playing card. chosen is required for wilds.
func (g *UnoGame) Play(playerID uuid.UUID, card models.Card, chosen models.Color) (PlayResult, error) {
	var res PlayResult
	err := g.apply(playerID, func(s *GameState) (ActionType, map[string]interface{}, error) {
		player, idx, err := validatePlay(s, playerID, card, chosen)
		if err != nil {
			return "", nil, err
		}
		res, err = s.resolvePlay(player, idx, chosen, g.shuffler)
		if err != nil {
			return "", nil, err
		}
		action := ActionCardPlayed
		if res.GameOver {
			action = ActionGameWon
		}
		return action, map[string]interface{}{
			"card":        res.Card,
			"effect":      res.Effect,
			"activeColor": res.ActiveColor,
		}, nil
	})
	return res, err
}

// Draw gives the current player one card and ends their turn.
func (g *UnoGame) Draw(playerID uuid.UUID) (DrawResult, error) {
	var res DrawResult
	err := g.apply(playerID, func(s *GameState) (ActionType, map[string]interface{}, error) {
		player, err := checkTurn(s, playerID)
		if err != nil {
			return "", nil, err
		}
		drawn := s.drawCards(1, g.shuffler)
		if len(drawn) == 0 {
			return "", nil, reject(KindEmptyDrawPile, "no cards left to draw")
		}
		player.Give(drawn[0])
		s.LastAction = fmt.Sprintf("%s drew a card", player.Name)
		s.advance(1)
		res.DrawnCard = drawn[0]
		return ActionCardDrawn, map[string]interface{}{
			"drawPileCount": len(s.DrawPile),
		}, nil
	})
	return res, err
}

// DeclareUno records that playerID has called UNO while holding exactly one card.
func (g *UnoGame) DeclareUno(playerID uuid.UUID) error {
	return g.apply(playerID, func(s *GameState) (ActionType, map[string]interface{}, error) {
		if s.GameOver {
			return "", nil, reject(KindGameAlreadyOver, "game %s is over", s.ID)
		}
		player, idx := s.PlayerByID(playerID)
		if player == nil {
			return "", nil, reject(KindUnknownPlayer, "player %s is not in game %s", playerID, s.ID)
		}
		if s.HouseRules.UnoOnlyOnTurn && idx != s.CurrentPlayerIndex {
			return "", nil, reject(KindNotYourTurn, "it is %s's turn", s.CurrentPlayer().Name)
		}
		if len(player.Hand) != 1 {
			return "", nil, reject(KindInvalidUnoDeclaration, "%s holds %d cards", player.Name, len(player.Hand))
		}
		player.HasDeclaredUno = true
		s.LastAction = fmt.Sprintf("%s called UNO!", player.Name)
		return ActionUnoDeclared, nil, nil
	})
}

// apply runs fn against a copy of the committed state under the match lock. On success the
// copy becomes the committed state; on error it is discarded and nothing changes.
func (g *UnoGame) apply(actorID uuid.UUID, fn func(s *GameState) (ActionType, map[string]interface{}, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cur := g.state.Load()
	next := cur.Clone()

	action, payload, err := fn(next)
	if err != nil {
		return err
	}

	next.Version = cur.Version + 1
	next.UpdatedAt = g.now()
	g.state.Store(next)

	if g.OnCommit != nil {
		g.OnCommit(Commit{State: next, ActorID: actorID, Action: action, Payload: payload})
	}
	g.notify(next.Version)
	return nil
}

// Subscribe returns a channel that receives the version of every later commit. Slow
// readers miss intermediate versions rather than block the match.
func (g *UnoGame) Subscribe() (<-chan uint64, func()) {
	g.subsMu.Lock()
	defer g.subsMu.Unlock()

	id := g.nextID
	g.nextID++
	ch := make(chan uint64, 1)
	g.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.subsMu.Lock()
			defer g.subsMu.Unlock()
			delete(g.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (g *UnoGame) notify(version uint64) {
	g.subsMu.Lock()
	defer g.subsMu.Unlock()
	for _, ch := range g.subs {
		select {
		case ch <- version:
		default:
			// drop the stale pending version and keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- version:
			default:
			}
		}
	}
}
