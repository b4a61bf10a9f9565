package act

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer(t *testing.T) {
	a := New("tutorial", "Tutorial")
	require.NoError(t, a.Add(Encounter{Kind: Normal, Enemy: "didact"}))
	require.NoError(t, a.Add(Encounter{Kind: Event}))
	require.NoError(t, a.Add(Encounter{Kind: Boss, Enemy: "daemon"}))

	assert.Error(t, a.Add(Encounter{Kind: Elite}))
	assert.Error(t, a.Add(Encounter{Kind: Event, Enemy: "didact"}))
	assert.Equal(t, 3, a.Len())

	kinds := []Kind{}
	for !a.Complete() {
		e, ok := a.Current()
		require.True(t, ok)
		kinds = append(kinds, e.Kind)
		a.Advance()
	}
	assert.Equal(t, []Kind{Normal, Event, Boss}, kinds)
	assert.Equal(t, 3, a.Index())

	_, ok := a.Current()
	assert.False(t, ok)
	a.Advance()
	assert.Equal(t, 3, a.Index(), "cursor stops at the end")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("boss")
	require.NoError(t, err)
	assert.Equal(t, Boss, k)
	assert.True(t, k.Combat())
	assert.False(t, Event.Combat())

	_, err = ParseKind("shop")
	assert.Error(t, err)
}
