package enemy

import (
	"fmt"
	"math"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
)

// Enemy is the opponent sharing the dealer's cards during a combat.
type Enemy struct {
	Key         string
	Name        string
	Portrait    string
	MaxHP       int
	HP          int
	DisplayHP   float64
	Threat      int
	TotalDamage int
	Defeated    bool
	Bus         *ability.Bus
}

// New creates an enemy at full health. hpMultiplier scales the base HP and
// is ignored when not positive.
func New(key, name string, baseHP int, hpMultiplier float64, abilities ...*ability.Ability) (*Enemy, error) {
	if hpMultiplier <= 0 {
		hpMultiplier = 1
	}
	maxHP := int(math.Round(float64(baseHP) * hpMultiplier))
	if maxHP <= 0 {
		return nil, fmt.Errorf("enemy %s must have positive max HP, got %d", key, maxHP)
	}
	return &Enemy{
		Key:       key,
		Name:      name,
		MaxHP:     maxHP,
		HP:        maxHP,
		DisplayHP: float64(maxHP),
		Bus:       ability.NewBus(abilities...),
	}, nil
}

// TakeDamage lowers HP, never below zero, and returns the damage applied.
func (e *Enemy) TakeDamage(amount int) int {
	if amount <= 0 || e.Defeated {
		return 0
	}
	if amount > e.HP {
		amount = e.HP
	}
	e.HP -= amount
	e.TotalDamage += amount
	if e.HP == 0 {
		e.Defeated = true
	}
	return amount
}

// Heal raises HP up to the maximum and returns the amount healed.
func (e *Enemy) Heal(amount int) int {
	if amount <= 0 || e.Defeated {
		return 0
	}
	if e.HP+amount > e.MaxHP {
		amount = e.MaxHP - e.HP
	}
	e.HP += amount
	return amount
}

// HPPercent is the remaining health as a floored percentage.
func (e *Enemy) HPPercent() int {
	return e.HP * 100 / e.MaxHP
}

// Tween moves DisplayHP toward HP by at most rate*dt. It reports whether the
// display value is still moving.
func (e *Enemy) Tween(dt, rate float64) bool {
	target := float64(e.HP)
	diff := target - e.DisplayHP
	if diff == 0 {
		return false
	}
	step := rate * dt
	if rate <= 0 || math.Abs(diff) <= step {
		e.DisplayHP = target
		return false
	}
	if diff < 0 {
		step = -step
	}
	e.DisplayHP += step
	return true
}

// Snapshot exposes the enemy to ability triggers.
func (e *Enemy) Snapshot() ability.Snapshot {
	return ability.Snapshot{HP: e.HP, MaxHP: e.MaxHP, TotalDamage: e.TotalDamage}
}
