package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, [3]int{10, 50, 100}, c.Bets())
}

func TestValidate(t *testing.T) {
	c := Default()
	c.BetAmounts = []int{10, 50}
	assert.Error(t, c.Validate())

	c = Default()
	c.StartingChips = 0
	assert.Error(t, c.Validate())

	c = Default()
	c.DealerStandsOn = 30
	assert.Error(t, c.Validate())
}

func TestYAMLOverride(t *testing.T) {
	c := Default()
	err := yaml.Unmarshal([]byte("reroll_base_cost: 10\nseed: 42\nbet_amounts: [5, 25, 50]\n"), &c)
	assert.NoError(t, err)
	assert.Equal(t, 10, c.RerollBaseCost)
	assert.Equal(t, uint64(42), c.Seed)
	assert.Equal(t, [3]int{5, 25, 50}, c.Bets())
	assert.Equal(t, 100, c.StartingChips, "unset keys keep defaults")
}
