// internal/game/game_test.go
package game

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnoGame(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		g, err := NewUnoGame(testNames[:n], DefaultHouseRules(), NewSeededShuffler(int64(n)))
		require.NoError(t, err)

		s := g.State()
		require.Len(t, s.Players, n)
		for i, p := range s.Players {
			assert.Equal(t, testNames[i], p.Name)
			assert.Len(t, p.Hand, DefaultHandSize)
			assert.NotEqual(t, uuid.Nil, p.ID)
		}
		require.Len(t, s.DiscardPile, 1)
		assert.True(t, s.DiscardTop().Value.IsNumber(), "opening card must be a number card")
		assert.Equal(t, s.DiscardTop().Color, s.ActiveColor)
		assert.Equal(t, DeckSize-n*DefaultHandSize-1, len(s.DrawPile))
		assert.Equal(t, DeckSize, s.TotalCards())
		assert.Equal(t, 0, s.CurrentPlayerIndex)
		assert.Equal(t, Clockwise, s.Direction)
		assert.Equal(t, uint64(1), s.Version)
		assert.False(t, s.GameOver)
	}
}

func TestNewUnoGameRejects(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		rules HouseRules
		kind  Kind
	}{
		{"one player", []string{"Alice"}, DefaultHouseRules(), KindInvalidPlayerCount},
		{"five players", []string{"A", "B", "C", "D", "E"}, DefaultHouseRules(), KindInvalidPlayerCount},
		{"no players", nil, DefaultHouseRules(), KindInvalidPlayerCount},
		{"blank name", []string{"Alice", "  "}, DefaultHouseRules(), KindInvalidPlayerName},
		{"hand too large", []string{"Alice", "Bob"}, HouseRules{InitialHandSize: 40}, KindInvalidHouseRules},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewUnoGame(tt.names, tt.rules, nil)
			assert.Nil(t, g)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestNewUnoGameHandSize(t *testing.T) {
	rules := DefaultHouseRules()
	rules.InitialHandSize = MaxHandSize
	g, err := NewUnoGame(testNames, rules, NewSeededShuffler(7))
	require.NoError(t, err)
	for _, p := range g.State().Players {
		assert.Len(t, p.Hand, MaxHandSize)
	}
	assert.Equal(t, DeckSize, g.State().TotalCards())
}

func TestPlayNumberCard(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3), num(models.ColorGreen, 4)},
		{num(models.ColorYellow, 1), num(models.ColorYellow, 2)},
	}, num(models.ColorRed, 5), models.ColorRed)

	res, err := g.Play(players[0].ID, num(models.ColorRed, 7), "")
	require.NoError(t, err)
	assert.Equal(t, EffectNone, res.Effect)

	s := g.State()
	assert.Equal(t, num(models.ColorRed, 7), s.DiscardTop())
	assert.Equal(t, models.ColorRed, s.ActiveColor)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
	assert.Equal(t, []models.Card{num(models.ColorBlue, 2)}, s.Players[0].Hand)
	assert.Equal(t, "Alice played red-7", s.LastAction)
	assert.Equal(t, uint64(2), s.Version)

	// matching by value across colors
	_, err = g.Play(players[1].ID, num(models.ColorGreen, 7), "")
	assert.ErrorIs(t, err, ErrCardNotInHand)
	_, err = g.Play(players[1].ID, num(models.ColorGreen, 3), "")
	assert.ErrorIs(t, err, ErrIllegalPlay)
}

func TestRejectionsLeaveStateUnchanged(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorBlue, 2), wildCard},
		{num(models.ColorRed, 3), num(models.ColorGreen, 4)},
	}, num(models.ColorRed, 5), models.ColorRed)
	before := snapshot(t, g)

	_, err := g.Play(players[1].ID, num(models.ColorRed, 3), "")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Draw(players[1].ID)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Play(uuid.New(), num(models.ColorRed, 3), "")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.Play(players[0].ID, num(models.ColorRed, 9), "")
	assert.ErrorIs(t, err, ErrCardNotInHand)

	_, err = g.Play(players[0].ID, num(models.ColorBlue, 2), "")
	assert.ErrorIs(t, err, ErrIllegalPlay)

	_, err = g.Play(players[0].ID, wildCard, "")
	assert.ErrorIs(t, err, ErrMissingColorChoice)

	_, err = g.Play(players[0].ID, wildCard, "purple")
	assert.ErrorIs(t, err, ErrMissingColorChoice)

	err = g.DeclareUno(players[0].ID)
	assert.ErrorIs(t, err, ErrInvalidUnoDeclaration)

	assert.Equal(t, before, snapshot(t, g))
}

func TestSkip(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{card(models.ColorRed, models.ValueSkip), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
		{num(models.ColorYellow, 1)},
	}, num(models.ColorRed, 5), models.ColorRed)

	res, err := g.Play(players[0].ID, card(models.ColorRed, models.ValueSkip), "")
	require.NoError(t, err)
	assert.Equal(t, EffectSkip, res.Effect)
	assert.Equal(t, 2, g.State().CurrentPlayerIndex)
	assert.Equal(t, "Alice played red-skip, Bob is skipped", g.State().LastAction)
}

func TestReverse(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{card(models.ColorRed, models.ValueReverse), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
		{card(models.ColorRed, models.ValueReverse), num(models.ColorYellow, 1)},
	}, num(models.ColorRed, 5), models.ColorRed)

	res, err := g.Play(players[0].ID, card(models.ColorRed, models.ValueReverse), "")
	require.NoError(t, err)
	assert.Equal(t, EffectReverse, res.Effect)
	assert.Equal(t, CounterClockwise, g.State().Direction)
	assert.Equal(t, 2, g.State().CurrentPlayerIndex, "turn passes backwards to Carol")

	// reversing again restores clockwise order: Carol -> Alice
	_, err = g.Play(players[2].ID, card(models.ColorRed, models.ValueReverse), "")
	require.NoError(t, err)
	assert.Equal(t, Clockwise, g.State().Direction)
	assert.Equal(t, 0, g.State().CurrentPlayerIndex)
}

func TestTwoPlayerReverseActsAsSkip(t *testing.T) {
	hands := [][]models.Card{
		{card(models.ColorRed, models.ValueReverse), card(models.ColorRed, models.ValueSkip), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
	}
	rev, revPlayers := setupTestGame(t, hands, num(models.ColorRed, 5), models.ColorRed)
	skip, skipPlayers := setupTestGame(t, hands, num(models.ColorRed, 5), models.ColorRed)

	_, err := rev.Play(revPlayers[0].ID, card(models.ColorRed, models.ValueReverse), "")
	require.NoError(t, err)
	_, err = skip.Play(skipPlayers[0].ID, card(models.ColorRed, models.ValueSkip), "")
	require.NoError(t, err)

	assert.Equal(t, skip.State().CurrentPlayerIndex, rev.State().CurrentPlayerIndex)
	assert.Equal(t, 0, rev.State().CurrentPlayerIndex, "Alice acts again")
}

func TestForcedDraw2(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{card(models.ColorRed, models.ValueDraw2), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3), num(models.ColorGreen, 4), num(models.ColorGreen, 6)},
		{num(models.ColorYellow, 1)},
	}, num(models.ColorRed, 5), models.ColorRed)
	drawBefore := len(g.State().DrawPile)

	res, err := g.Play(players[0].ID, card(models.ColorRed, models.ValueDraw2), "")
	require.NoError(t, err)
	assert.Equal(t, EffectDraw2, res.Effect)

	s := g.State()
	assert.Len(t, s.Players[1].Hand, 5)
	assert.NotEqual(t, 1, s.CurrentPlayerIndex, "Bob forfeits his turn")
	assert.Equal(t, 2, s.CurrentPlayerIndex)
	assert.Equal(t, drawBefore-2, len(s.DrawPile))
	assert.Equal(t, "Alice played red-draw2, Bob draws 2 and is skipped", s.LastAction)
	assert.Equal(t, DeckSize, s.TotalCards())
}

func TestForcedDrawWild4(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{wild4Card, num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
	}, num(models.ColorRed, 5), models.ColorRed)

	_, err := g.Play(players[0].ID, wild4Card, "")
	require.ErrorIs(t, err, ErrMissingColorChoice)

	res, err := g.Play(players[0].ID, wild4Card, models.ColorBlue)
	require.NoError(t, err)
	assert.Equal(t, EffectWild4, res.Effect)

	s := g.State()
	assert.Len(t, s.Players[1].Hand, 5)
	assert.Equal(t, 0, s.CurrentPlayerIndex, "two players: Alice plays again")
	assert.Equal(t, models.ColorBlue, s.ActiveColor)
	assert.Equal(t, wild4Card, s.DiscardTop(), "the wild keeps its printed color in the pile")
}

func TestForcedDrawShortfall(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{card(models.ColorRed, models.ValueDraw2), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
	}, num(models.ColorRed, 5), models.ColorRed)

	s := g.State()
	s.Players[1].Hand = append(s.Players[1].Hand, s.DrawPile...)
	s.DrawPile = nil
	bobBefore := len(s.Players[1].Hand)

	_, err := g.Play(players[0].ID, card(models.ColorRed, models.ValueDraw2), "")
	require.NoError(t, err)

	after := g.State()
	assert.Len(t, after.Players[1].Hand, bobBefore+1, "only the recycled red-5 was available")
	assert.Equal(t, []models.Card{card(models.ColorRed, models.ValueDraw2)}, after.DiscardPile)
	assert.Contains(t, after.LastAction, "only 1 left")
	assert.Equal(t, DeckSize, after.TotalCards())
}

func TestWildRequiresColor(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{wildCard, num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3), num(models.ColorRed, 4)},
		{num(models.ColorYellow, 1)},
	}, num(models.ColorRed, 5), models.ColorRed)

	_, err := g.Play(players[0].ID, wildCard, "")
	require.ErrorIs(t, err, ErrMissingColorChoice)
	_, err = g.Play(players[0].ID, wildCard, models.ColorWild)
	require.ErrorIs(t, err, ErrMissingColorChoice)

	res, err := g.Play(players[0].ID, wildCard, models.ColorGreen)
	require.NoError(t, err)
	assert.Equal(t, EffectWild, res.Effect)
	assert.Equal(t, models.ColorGreen, g.State().ActiveColor)
	assert.Equal(t, 1, g.State().CurrentPlayerIndex)
	assert.Equal(t, "Alice played wild, color is now green", g.State().LastAction)

	// the next play must follow the chosen color
	_, err = g.Play(players[1].ID, num(models.ColorRed, 4), "")
	assert.ErrorIs(t, err, ErrIllegalPlay)
	_, err = g.Play(players[1].ID, num(models.ColorGreen, 3), "")
	assert.NoError(t, err)
}

func TestWinDetection(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{card(models.ColorRed, models.ValueDraw2)},
		{num(models.ColorGreen, 3), num(models.ColorGreen, 4)},
		{num(models.ColorYellow, 1)},
	}, num(models.ColorRed, 5), models.ColorRed)
	drawBefore := len(g.State().DrawPile)

	res, err := g.Play(players[0].ID, card(models.ColorRed, models.ValueDraw2), "")
	require.NoError(t, err)
	assert.True(t, res.GameOver)

	s := g.State()
	assert.True(t, s.GameOver)
	require.NotNil(t, s.WinnerID)
	assert.Equal(t, players[0].ID, *s.WinnerID)
	assert.Equal(t, 0, s.CurrentPlayerIndex, "no turn advance after the winning play")
	assert.Len(t, s.Players[1].Hand, 2, "effects are not applied once the match is won")
	assert.Equal(t, drawBefore, len(s.DrawPile))
	assert.Equal(t, "Alice played red-draw2 and wins!", s.LastAction)

	before := snapshot(t, g)
	_, err = g.Play(players[0].ID, num(models.ColorGreen, 3), "")
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	_, err = g.Draw(players[0].ID)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	assert.ErrorIs(t, g.DeclareUno(players[1].ID), ErrGameAlreadyOver)
	assert.Equal(t, before, snapshot(t, g))
}

func TestDeclareUno(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3), num(models.ColorGreen, 4)},
	}, num(models.ColorRed, 5), models.ColorRed)

	assert.ErrorIs(t, g.DeclareUno(players[0].ID), ErrInvalidUnoDeclaration)
	assert.ErrorIs(t, g.DeclareUno(uuid.New()), ErrUnknownPlayer)

	_, err := g.Play(players[0].ID, num(models.ColorRed, 7), "")
	require.NoError(t, err)

	// Alice may declare after her turn has passed
	require.NoError(t, g.DeclareUno(players[0].ID))
	assert.True(t, g.State().Players[0].HasDeclaredUno)
	assert.Equal(t, "Alice called UNO!", g.State().LastAction)

	// Bob draws, Alice draws: her hand grows and the declaration resets
	_, err = g.Draw(players[1].ID)
	require.NoError(t, err)
	_, err = g.Draw(players[0].ID)
	require.NoError(t, err)
	assert.False(t, g.State().Players[0].HasDeclaredUno)
}

func TestDeclareUnoOnlyOnTurn(t *testing.T) {
	s := buildState(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3)},
	}, num(models.ColorRed, 5), models.ColorRed)
	s.HouseRules.UnoOnlyOnTurn = true
	g := RestoreUnoGame(s, NewSeededShuffler(1))
	players := g.State().Players
	before := snapshot(t, g)

	assert.ErrorIs(t, g.DeclareUno(players[1].ID), ErrNotYourTurn)
	assert.Equal(t, before, snapshot(t, g))

	_, err := g.Draw(players[0].ID)
	require.NoError(t, err)
	assert.NoError(t, g.DeclareUno(players[1].ID))
}

func TestConservationPlaythrough(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g, err := NewUnoGame(testNames[:3], DefaultHouseRules(), NewSeededShuffler(seed))
		require.NoError(t, err)

		for turn := 0; turn < 3000 && !g.State().GameOver; turn++ {
			s := g.State()
			p := s.CurrentPlayer()

			played := false
			for _, c := range p.Hand {
				chosen := models.Color("")
				if c.IsWild() {
					chosen = models.ColorYellow
				}
				if _, _, err := validatePlay(s, p.ID, c, chosen); err != nil {
					continue
				}
				_, err := g.Play(p.ID, c, chosen)
				require.NoError(t, err)
				played = true
				break
			}
			if !played {
				if _, err := g.Draw(p.ID); err != nil {
					require.ErrorIs(t, err, ErrEmptyDrawPile)
					break
				}
			}
			require.Equal(t, DeckSize, g.State().TotalCards(), "seed %d turn %d", seed, turn)
		}
	}
}

func TestConcurrentDrawsSerialize(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7)},
		{num(models.ColorGreen, 3)},
	}, num(models.ColorRed, 5), models.ColorRed)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Draw(players[0].ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNotYourTurn)
	}
	assert.Equal(t, 1, succeeded, "only the first draw may pass the turn check")
	assert.Len(t, handOf(g, 0), 2)
	assert.Equal(t, uint64(2), g.State().Version)
}

func TestOnCommitAndSubscribe(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorRed, 8)},
		{num(models.ColorGreen, 3)},
	}, num(models.ColorRed, 5), models.ColorRed)

	var commits []Commit
	g.OnCommit = func(c Commit) { commits = append(commits, c) }
	updates, cancel := g.Subscribe()
	defer cancel()

	_, err := g.Play(players[0].ID, num(models.ColorRed, 7), "")
	require.NoError(t, err)
	_, err = g.Play(players[0].ID, num(models.ColorRed, 8), "")
	require.ErrorIs(t, err, ErrNotYourTurn)

	require.Len(t, commits, 1)
	assert.Equal(t, ActionCardPlayed, commits[0].Action)
	assert.Equal(t, players[0].ID, commits[0].ActorID)
	assert.Equal(t, uint64(2), commits[0].State.Version)
	assert.Equal(t, uint64(2), <-updates)
}

func TestProjectHidesOtherHands(t *testing.T) {
	g, players := setupTestGame(t, [][]models.Card{
		{num(models.ColorRed, 7), num(models.ColorBlue, 2)},
		{num(models.ColorGreen, 3), num(models.ColorGreen, 4), wildCard},
	}, num(models.ColorRed, 5), models.ColorRed)

	v, err := g.View(players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, players[0].ID, v.ViewerID)
	assert.Equal(t, handOf(g, 0), v.Hand)
	require.Len(t, v.Players, 2)
	assert.Equal(t, 2, v.Players[0].CardCount)
	assert.Equal(t, 3, v.Players[1].CardCount)
	assert.True(t, v.Players[0].IsCurrentTurn)
	assert.Equal(t, "Alice", v.CurrentPlayerName)
	assert.Equal(t, num(models.ColorRed, 5), v.DiscardTop)
	assert.Equal(t, len(g.State().DrawPile), v.DrawPileCount)
	for _, c := range handOf(g, 1) {
		assert.NotContains(t, v.Hand, c)
	}

	// the projection is a copy
	v.Hand[0] = wild4Card
	assert.Equal(t, num(models.ColorRed, 7), handOf(g, 0)[0])

	_, err = g.View(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}
