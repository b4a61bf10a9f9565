package session

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func newSession(t *testing.T, store Store, mutate func(*config.Config)) *Session {
	t.Helper()
	content, err := LoadContent(nil, quiet())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Seed = 7
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg, content, store, quiet())
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, l := range lines {
		_, err := s.Execute(l)
		require.NoError(t, err, l)
	}
}

func TestExecute(t *testing.T) {
	s := newSession(t, nil, nil)
	assert.NotEmpty(t, s.RunID())
	assert.Equal(t, uint64(7), s.Seed())

	t.Run("help", func(t *testing.T) {
		usage, err := s.Execute("help")
		require.NoError(t, err)
		assert.Contains(t, usage, "bet <amount>")
		assert.Equal(t, engine.IntroNarrative, s.Engine().State())
	})

	t.Run("grammar error", func(t *testing.T) {
		_, err := s.Execute("bet")
		assert.ErrorContains(t, err, "bet <amount>")
	})

	t.Run("refused command", func(t *testing.T) {
		_, err := s.Execute("hit")
		assert.ErrorIs(t, err, engine.ErrInvalidInput)
	})

	t.Run("a winning round", func(t *testing.T) {
		run(t, s, "continue", "stack 8D 8S 5C 9H 7S", "bet 10")
		require.NoError(t, s.Tick(1))
		run(t, s, "hit", "stand")
		require.NoError(t, s.Tick(5))
		assert.Equal(t, engine.RoundEnd, s.Engine().State())
		assert.Equal(t, 110, s.Engine().Human().Chips)
		assert.NotEmpty(t, s.Intents())
		assert.Empty(t, s.Intents(), "intents are drained")
	})

	t.Run("result of an unfinished run", func(t *testing.T) {
		_, ended := s.Ended()
		assert.False(t, ended)
		r := s.Result()
		assert.Equal(t, "abandoned", r.Outcome)
		assert.Equal(t, 1, r.Hands)
		assert.Equal(t, 10, r.Damage)
	})
}

func TestZeroSeedIsReplaced(t *testing.T) {
	s := newSession(t, nil, func(c *config.Config) { c.Seed = 0 })
	assert.NotZero(t, s.Seed())
}

func TestGameOverIsRecorded(t *testing.T) {
	store, err := persistence.NewStore(filepath.Join(t.TempDir(), "trace.jsonl"))
	require.NoError(t, err)
	s := newSession(t, store, func(c *config.Config) { c.StartingChips = 10 })
	run(t, s, "continue", "stack 10H 10S 7D 9C", "bet 10")
	require.NoError(t, s.Tick(1))
	run(t, s, "stand")
	require.NoError(t, s.Tick(5))

	ended, ok := s.Ended()
	require.True(t, ok)
	assert.False(t, ended.Victory)
	assert.Equal(t, "defeat", s.Result().Outcome)

	records, err := store.Load()
	require.NoError(t, err)
	_, last := records[len(records)-1].(persistence.RunEnded)
	assert.True(t, last)
	require.NoError(t, s.Close())
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	store, err := persistence.NewStore(path)
	require.NoError(t, err)

	s := newSession(t, store, func(c *config.Config) { c.Class = "dealer" })
	run(t, s, "continue", "bet 10")
	require.NoError(t, s.Tick(1))
	// pointer input and a refused command both go into the trace
	require.NoError(t, s.Apply(0.1, engine.Input{Hover: &engine.CardRef{Owner: player.HumanID, Index: 0}}))
	_, _ = s.Execute("sell")
	run(t, s, "stand")
	require.NoError(t, s.Tick(5))
	want := s.Engine().View()
	require.NoError(t, s.Close())

	store, err = persistence.NewStore(path)
	require.NoError(t, err)
	defer store.Close()
	content, err := LoadContent(nil, quiet())
	require.NoError(t, err)
	replayed, err := Replay(store, content, config.Default(), quiet())
	require.NoError(t, err)

	assert.Equal(t, s.RunID(), replayed.RunID())
	assert.Equal(t, want, replayed.Engine().View())
}

func TestReplayRestoresTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	store, err := persistence.NewStore(path)
	require.NoError(t, err)

	s := newSession(t, store, func(c *config.Config) {
		c.StartingSanity = 120
		c.BetAmounts = []int{5, 25, 60}
		c.DealSeconds = 2
		c.RerollBaseCost = 10
	})
	run(t, s, "continue", "bet 5")
	require.NoError(t, s.Tick(2))
	_, _ = s.Execute("stand")
	require.NoError(t, s.Tick(5))
	want := s.Engine().View()
	require.NoError(t, s.Close())

	store, err = persistence.NewStore(path)
	require.NoError(t, err)
	defer store.Close()
	content, err := LoadContent(nil, quiet())
	require.NoError(t, err)
	replayed, err := Replay(store, content, config.Default(), quiet())
	require.NoError(t, err)

	got := replayed.Engine().View()
	assert.Equal(t, 120, got.MaxSanity)
	assert.Equal(t, 1, got.Stats.Rounds, "the 5 chip bet is accepted on replay")
	assert.Equal(t, want, got)
}

func TestReplayRejectsBadTraces(t *testing.T) {
	content, err := LoadContent(nil, quiet())
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		store, err := persistence.NewStore(filepath.Join(t.TempDir(), "empty.jsonl"))
		require.NoError(t, err)
		defer store.Close()
		_, err = Replay(store, content, config.Default(), quiet())
		assert.ErrorIs(t, err, ErrBadTrace)
	})

	t.Run("no header", func(t *testing.T) {
		store, err := persistence.NewStore(filepath.Join(t.TempDir(), "headless.jsonl"))
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.Append(persistence.InputApplied{Line: "hit"}))
		_, err = Replay(store, content, config.Default(), quiet())
		assert.ErrorIs(t, err, ErrBadTrace)
	})

	t.Run("unparseable line", func(t *testing.T) {
		store, err := persistence.NewStore(filepath.Join(t.TempDir(), "garbled.jsonl"))
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.Append(persistence.RunStarted{RunID: "x", Seed: 1, Act: "tutorial", Class: "degenerate", Chips: 100}))
		require.NoError(t, store.Append(persistence.InputApplied{Line: "fold"}))
		_, err = Replay(store, content, config.Default(), quiet())
		assert.ErrorIs(t, err, ErrBadTrace)
	})
}
