// Package narrative holds the choose-one text encounters met between combats
// and the weighted pool they are drawn from.
package narrative

import (
	"errors"
	"fmt"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

var (
	ErrNoChoice     = errors.New("no such choice")
	ErrChoiceLocked = errors.New("choice is locked")
	ErrResolved     = errors.New("event already resolved")
)

// Choice is one option of an event. All of its consequences are applied
// together when it is selected.
type Choice struct {
	Text   string
	Result string
	Chips  int
	Sanity int
	// Tags are granted to random untagged cards, one card per entry.
	Tags           []card.Tag
	Status         status.Kind
	StatusValue    int
	StatusDuration int
	// Trinket is a template key granted into the first free slot.
	Trinket string
	// EnemyHPMultiplier scales the next combat's enemy when positive.
	EnemyHPMultiplier float64
	// Requires is an optional guard; the choice is locked while it is false.
	Requires string
}

// Event is a narrative encounter.
type Event struct {
	ID          string
	Title       string
	Description string
	Portrait    string
	Choices     []Choice
	Selected    int
}

// Clone returns a fresh unresolved copy, as handed out by the pool.
func (e *Event) Clone() *Event {
	c := *e
	c.Choices = append([]Choice(nil), e.Choices...)
	c.Selected = -1
	return &c
}

// Complete reports whether a choice was taken.
func (e *Event) Complete() bool { return e.Selected >= 0 }

// Validate checks the event has at least one choice.
func (e *Event) Validate() error {
	if e.ID == "" {
		return errors.New("event without id")
	}
	if len(e.Choices) == 0 {
		return fmt.Errorf("event %s has no choices", e.ID)
	}
	return nil
}

// Select takes choice i. locked, when non-nil, vetoes choices whose
// requirement is not met.
func (e *Event) Select(i int, locked func(Choice) bool) (Choice, error) {
	if e.Complete() {
		return Choice{}, fmt.Errorf("event %s: %w", e.ID, ErrResolved)
	}
	if i < 0 || i >= len(e.Choices) {
		return Choice{}, fmt.Errorf("choice %d of %d: %w", i+1, len(e.Choices), ErrNoChoice)
	}
	c := e.Choices[i]
	if locked != nil && locked(c) {
		return Choice{}, fmt.Errorf("choice %d: %w", i+1, ErrChoiceLocked)
	}
	e.Selected = i
	return c, nil
}
