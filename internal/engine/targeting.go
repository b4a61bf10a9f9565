package engine

import (
	"errors"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// useTrinket starts an active. Card-targeted actives go through TARGETING.
func (e *Engine) useTrinket(c UseTrinket) error {
	in := e.Human().Trinket(c.Slot)
	if in == nil {
		return e.refuse("no trinket in slot %s", c.Slot)
	}
	if err := in.CanActivate(); err != nil {
		if errors.Is(err, trinket.ErrOnCooldown) {
			return e.refuse("%s recharges in %d hands", in.Name(), in.Cooldown)
		}
		return e.refuse("%s has no active ability", in.Name())
	}
	if !in.NeedsTarget() {
		return e.refuse("%s has nothing to aim at", in.Name())
	}
	e.enter(&targetingPhase{Slot: c.Slot})
	e.emit(LogLine{Text: "Choose a card for " + in.Name()})
	return nil
}

// target applies the active to the referenced card. A refused card keeps
// the engine in TARGETING and the cooldown unspent.
func (e *Engine) target(p *targetingPhase, ref CardRef) error {
	owner, ok := e.seats.Get(ref.Owner)
	if !ok || ref.Index < 0 || ref.Index >= owner.Hand.Len() {
		return nil
	}
	in := e.Human().Trinket(p.Slot)
	if in == nil {
		e.breach("targeting with empty slot %s", p.Slot)
		e.enter(&playerTurnPhase{})
		return nil
	}
	c := &owner.Hand.Cards[ref.Index]
	if !in.Accepts(*c) {
		return e.refuse("%s", in.InvalidTargetText())
	}
	if err := in.Activate(c); err != nil {
		return e.refuse("%v", err)
	}
	e.say("%s changes %s", in.Name(), c.ID)
	e.enter(&playerTurnPhase{})
	if e.Human().Hand.Busted() {
		e.toDealer()
	}
	return nil
}

func (e *Engine) cancelTargeting() {
	e.enter(&playerTurnPhase{})
}
