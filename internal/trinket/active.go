package trinket

import (
	"errors"
	"fmt"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
)

var (
	ErrNoActive   = errors.New("trinket has no active ability")
	ErrOnCooldown = errors.New("trinket is on cooldown")
	ErrBadTarget  = errors.New("invalid trinket target")
)

// CanActivate checks that the trinket has an active that is off cooldown.
func (in *Instance) CanActivate() error {
	a := in.Template.Active
	if a == nil {
		return fmt.Errorf("%s: %w", in.Name(), ErrNoActive)
	}
	if in.Cooldown > 0 {
		return fmt.Errorf("%s (%d hands): %w", in.Name(), in.Cooldown, ErrOnCooldown)
	}
	return nil
}

// NeedsTarget reports whether activation goes through card targeting.
func (in *Instance) NeedsTarget() bool {
	return in.Template.Active != nil && in.Template.Active.Target == TargetCard
}

// Accepts is the target predicate: a face-up card whose rank lies in the
// active's range.
func (in *Instance) Accepts(c card.InHand) bool {
	a := in.Template.Active
	if a == nil || !c.FaceUp {
		return false
	}
	r := c.ID.Rank()
	if a.MinRank > 0 && r < a.MinRank {
		return false
	}
	if a.MaxRank > 0 && r > a.MaxRank {
		return false
	}
	return true
}

// InvalidTargetText is the popup shown when a target is refused.
func (in *Instance) InvalidTargetText() string {
	a := in.Template.Active
	if a == nil {
		return ErrBadTarget.Error()
	}
	if a.InvalidText != "" {
		return a.InvalidText
	}
	return fmt.Sprintf("targets rank %s–%s only", a.MinRank, a.MaxRank)
}

// Activate applies the active effect to c and starts the cooldown.
func (in *Instance) Activate(c *card.InHand) error {
	if err := in.CanActivate(); err != nil {
		return err
	}
	if !in.Accepts(*c) {
		return fmt.Errorf("%s on %s: %w", in.Name(), c.ID, ErrBadTarget)
	}
	a := in.Template.Active
	switch a.Effect {
	case SetValue:
		c.Override = card.Override{Value: a.Value}
	case DoubleValue:
		c.Override = card.Override{Doubled: true}
	}
	in.Cooldown = a.Cooldown
	in.PassiveBonus += a.PassiveGrowth
	return nil
}
