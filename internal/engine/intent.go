package engine

import (
	"errors"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
)

var (
	// ErrInvalidInput marks a command the current state refuses. The state
	// is left untouched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvariantBreach marks an internal inconsistency. It is logged and
	// the frame is skipped.
	ErrInvariantBreach = errors.New("invariant breach")
	// ErrPoolExhausted marks an event pool with nothing left to pick.
	ErrPoolExhausted = errors.New("event pool exhausted")
)

// Intent is a presentation request produced by Update. The engine never
// draws; a renderer drains intents once per frame.
type Intent interface {
	intent()
}

type StateChanged struct {
	From State
	To   State
}

type CardDealt struct {
	Owner  player.ID
	Card   card.ID
	FaceUp bool
}

type CardRevealed struct {
	Owner player.ID
	Card  card.ID
}

// DamageNumber floats over the enemy portrait. Heal is set for healing.
type DamageNumber struct {
	Amount int
	Crit   bool
	Heal   bool
	Source string
}

type ChipsChanged struct {
	Delta int
	Chips int
}

type Popup struct{ Text string }

type LogLine struct{ Text string }

type ScreenShake struct{ Intensity float64 }

type EnemySpawned struct {
	Key   string
	Name  string
	MaxHP int
}

// RunComplete is raised when the act is finished or the player goes broke.
type RunComplete struct{ Victory bool }

func (StateChanged) intent() {}
func (CardDealt) intent()    {}
func (CardRevealed) intent() {}
func (DamageNumber) intent() {}
func (ChipsChanged) intent() {}
func (Popup) intent()        {}
func (LogLine) intent()      {}
func (ScreenShake) intent()  {}
func (EnemySpawned) intent() {}
func (RunComplete) intent()  {}
