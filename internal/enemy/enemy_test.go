package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnemy(t *testing.T) {
	e, err := New("didact", "The Didact", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, e.MaxHP)
	assert.Equal(t, 100.0, e.DisplayHP)

	e, err = New("daemon", "The Daemon", 200, 0.75)
	require.NoError(t, err)
	assert.Equal(t, 150, e.MaxHP)

	_, err = New("ghost", "Ghost", 0, 1)
	assert.Error(t, err)
}

func TestDamageAndHeal(t *testing.T) {
	e, _ := New("didact", "The Didact", 100, 1)

	assert.Equal(t, 10, e.TakeDamage(10))
	assert.Equal(t, 90, e.HP)
	assert.Equal(t, 90, e.HPPercent())

	assert.Equal(t, 5, e.Heal(5))
	assert.Equal(t, 95, e.HP)
	assert.Equal(t, 5, e.Heal(20), "heal is capped at max")
	assert.Equal(t, 100, e.HP)

	assert.Equal(t, 100, e.TakeDamage(500))
	assert.Equal(t, 0, e.HP)
	assert.True(t, e.Defeated)
	assert.Equal(t, 110, e.TotalDamage)

	assert.Equal(t, 0, e.TakeDamage(5))
	assert.Equal(t, 0, e.Heal(5), "defeated enemies stay down")
}

func TestTween(t *testing.T) {
	e, _ := New("didact", "The Didact", 100, 1)
	e.TakeDamage(30)

	assert.True(t, e.Tween(0.25, 60))
	assert.InDelta(t, 85.0, e.DisplayHP, 0.001)
	assert.False(t, e.Tween(1, 60))
	assert.Equal(t, 70.0, e.DisplayHP)
	assert.False(t, e.Tween(1, 60))
}
