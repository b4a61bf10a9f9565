package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/act"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

func TestLoaderEmbeddedFallback(t *testing.T) {
	// Initialize loader with NO external directories
	l := NewLoader(nil)

	c, err := l.Load()
	require.NoError(t, err)

	t.Run("enemies", func(t *testing.T) {
		e, err := c.NewEnemy("didact", 1)
		require.NoError(t, err)
		assert.Equal(t, "The Didact", e.Name)
		assert.Equal(t, 100, e.MaxHP)
		require.NotEmpty(t, e.Bus.Abilities())
		assert.IsType(t, &ability.OnEvent{}, e.Bus.Abilities()[0].Trigger)

		// each spawn owns its trigger state
		again, err := c.NewEnemy("didact", 1)
		require.NoError(t, err)
		assert.NotSame(t, e.Bus.Abilities()[0], again.Bus.Abilities()[0])

		_, err = c.NewEnemy("nobody", 1)
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("class trinkets", func(t *testing.T) {
		tmpl, ok := c.ClassTrinket("dealer")
		require.True(t, ok)
		require.NotNil(t, tmpl.Active)
		assert.Equal(t, trinket.SetValue, tmpl.Active.Effect)
		assert.Equal(t, card.Rank(2), tmpl.Active.MinRank)
		assert.Equal(t, card.Rank(9), tmpl.Active.MaxRank)

		_, ok = c.ClassTrinket("dreamer")
		assert.False(t, ok)
	})

	t.Run("tags", func(t *testing.T) {
		assert.Equal(t, 10, c.Tags[card.Cursed].DrawDamage)
		assert.Equal(t, 5, c.Tags[card.Vampiric].DrawChips)
		assert.Equal(t, 10, c.Tags[card.Lucky].CritPercent)
	})

	t.Run("acts", func(t *testing.T) {
		a, err := c.NewAct("tutorial")
		require.NoError(t, err)
		assert.True(t, a.Tutorial)
		assert.NotEmpty(t, a.Intro)
		assert.Equal(t, 4, a.Len())
		assert.Equal(t, 2, a.Pool.Len())
		e, ok := a.Current()
		require.True(t, ok)
		assert.Equal(t, act.Normal, e.Kind)
		assert.Equal(t, "resources/enemies/didact.png", e.Portrait)
	})

	t.Run("affixes", func(t *testing.T) {
		assert.Len(t, c.Affixes, 7)
	})
}

func TestLoaderDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	enemies := `enemies:
  - key: dummy
    name: Training Dummy
    hp: 10
    abilities:
      - name: Wobble
        trigger: {type: hp_segment, segment: 50}
        effects:
          - {type: message, message: wobble}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enemies.yaml"), []byte(enemies), 0o644))
	acts := `acts:
  - key: drill
    name: Drill
    encounters:
      - {type: normal, enemy: dummy}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acts.yaml"), []byte(acts), 0o644))

	c, err := NewLoader([]string{dir}).Load()
	require.NoError(t, err)
	assert.Len(t, c.Enemies, 1)
	assert.Contains(t, c.Trinkets, "degenerate_gambit", "other files fall back to defaults")

	_, err = c.NewAct("tutorial")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestBuildRejectsBadData(t *testing.T) {
	cases := map[string]*Files{
		"bad trigger": {Enemies: []Enemy{{Key: "x", Name: "X", HP: 10, Abilities: []Ability{{Name: "a", Trigger: Trigger{Type: "hp_segment", Segment: 30}}}}}},
		"no hp":       {Enemies: []Enemy{{Key: "x", Name: "X"}}},
		"bad rarity":  {Trinkets: []Trinket{{Key: "t", Name: "T", Rarity: "mythic"}}},
		"bad tag":     {Tags: []CardTag{{Tag: "SHINY"}}},
		"no choices":  {Events: []Event{{ID: "e", Title: "E"}}},
		"unknown enemy in act": {Acts: []Act{{Key: "a", Encounters: []Encounter{{Type: "boss", Enemy: "ghost"}}}}},
		"status without kind": {Enemies: []Enemy{{Key: "x", Name: "X", HP: 10, Abilities: []Ability{{
			Name: "a", Trigger: Trigger{Type: "on_event", Event: "PLAYER_LOSS"},
			Effects: []Effect{{Type: "apply_status"}},
		}}}}},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build(f)
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

type checkerFunc func(string) error

func (f checkerFunc) Check(expr string) error { return f(expr) }

func TestCheckGuards(t *testing.T) {
	c, err := NewLoader(nil).Load()
	require.NoError(t, err)

	var seen []string
	require.NoError(t, c.CheckGuards(checkerFunc(func(expr string) error {
		seen = append(seen, expr)
		return nil
	})))
	assert.Contains(t, seen, "hand_before >= 15")
	assert.Contains(t, seen, "chips > 100")

	err = c.CheckGuards(checkerFunc(func(string) error { return assert.AnError }))
	assert.ErrorIs(t, err, ErrLoad)
}
