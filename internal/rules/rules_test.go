package rules

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed int

func (f fixed) IntN(n int) int { return int(f) % n }

func TestCELRegistry(t *testing.T) {
	registry, err := NewRegistry(fixed(30), log.New(io.Discard, "", 0))
	require.NoError(t, err)

	t.Run("Basic Boolean Expression", func(t *testing.T) {
		out, err := registry.Eval("hp_percent <= 50", Context{HP: 40, MaxHP: 100}.Vars())
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Chance Function", func(t *testing.T) {
		assert.True(t, registry.Allow("chance(31)", nil))
		assert.False(t, registry.Allow("chance(30)", nil))
		assert.True(t, registry.Allow("chance(100)", nil))
	})

	t.Run("Percent Function", func(t *testing.T) {
		out, err := registry.Eval("percent(chips, 200)", Context{Chips: 50}.Vars())
		assert.NoError(t, err)
		assert.Equal(t, int64(25), out)
	})

	t.Run("Lists And Strings", func(t *testing.T) {
		vars := Context{Statuses: []string{"CHIP_DRAIN"}, Class: "degenerate"}.Vars()
		assert.True(t, registry.Allow("'CHIP_DRAIN' in statuses && class.startsWith('degen')", vars))
	})

	t.Run("Missing Variables Read As Zero", func(t *testing.T) {
		assert.True(t, registry.Allow("hand_before == 0 && event == ''", map[string]any{}))
		assert.True(t, registry.Allow("hand_before >= 15", map[string]any{"hand_before": 16}))
	})

	t.Run("Errors Deny", func(t *testing.T) {
		assert.False(t, registry.Allow("chips +", nil))
		assert.False(t, registry.Allow("chips", nil), "non-boolean guard")
		assert.Error(t, registry.Check("unknown_var > 1"))
		assert.NoError(t, registry.Check("sanity_percent > 25"))
	})
}

func TestNilRand(t *testing.T) {
	registry, err := NewRegistry(nil, nil)
	require.NoError(t, err)
	assert.False(t, registry.Allow("chance(99)", nil))
	assert.True(t, registry.Allow("chance(100)", nil))
}
