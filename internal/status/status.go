// Package status implements time-bounded outcome modifiers on the player.
//
// Status effects never change what the player may do; they only adjust the
// chips gained or lost once a round has resolved, plus the round-end drain.
package status

import (
	"fmt"
	"strings"
)

// Kind identifies a status effect.
type Kind int

const (
	None Kind = iota
	ChipDrain
	Tilt
	Greed
	Rake
)

var kindNames = map[Kind]string{
	ChipDrain: "CHIP_DRAIN",
	Tilt:      "TILT",
	Greed:     "GREED",
	Rake:      "RAKE",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "NONE"
}

// ParseKind reads a status name such as "chip_drain" or "TILT".
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown status effect %q", s)
}

// DurationType says what consumes an effect's duration.
type DurationType int

const (
	// Rounds are decremented at every hand end.
	Rounds DurationType = iota
	// Stacks are decremented each time the effect triggers.
	Stacks
)

// DurationTypeOf returns how a kind's duration is consumed.
func DurationTypeOf(k Kind) DurationType {
	if k == Rake {
		return Stacks
	}
	return Rounds
}

// Effect is one active status on the player.
type Effect struct {
	Kind      Kind
	Value     int
	Duration  int
	Type      DurationType
	Intensity float64
}

// Outcome is the result class a modifier reacts to.
type Outcome int

const (
	Loss Outcome = iota
	Push
	Win
)

// Set holds the player's active effects in application order.
type Set struct {
	effects []Effect
}

// Apply adds an effect or refreshes the value and duration of an existing one.
func (s *Set) Apply(k Kind, value, duration int) {
	if k == None || duration <= 0 {
		return
	}
	for i := range s.effects {
		if s.effects[i].Kind == k {
			s.effects[i].Value = value
			s.effects[i].Duration = duration
			s.effects[i].Intensity = 1
			return
		}
	}
	s.effects = append(s.effects, Effect{
		Kind:      k,
		Value:     value,
		Duration:  duration,
		Type:      DurationTypeOf(k),
		Intensity: 1,
	})
}

// Remove drops an effect. It reports whether anything was removed.
func (s *Set) Remove(k Kind) bool {
	for i := range s.effects {
		if s.effects[i].Kind == k {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Set) Has(k Kind) bool {
	e, ok := s.Get(k)
	return ok && e.Duration > 0
}

// Get returns a copy of the effect for k.
func (s *Set) Get(k Kind) (Effect, bool) {
	for _, e := range s.effects {
		if e.Kind == k {
			return e, true
		}
	}
	return Effect{}, false
}

// Active returns a copy of the active effects.
func (s *Set) Active() []Effect {
	return append([]Effect(nil), s.effects...)
}

func (s *Set) Len() int { return len(s.effects) }

// Clear drops every effect, as at the end of a combat.
func (s *Set) Clear() { s.effects = nil }

// Tick decrements round-based durations and removes expired effects.
// It returns the kinds that expired.
func (s *Set) Tick() []Kind {
	var expired []Kind
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Type == Rounds {
			e.Duration--
		}
		if e.Duration <= 0 {
			expired = append(expired, e.Kind)
			continue
		}
		if e.Duration == 1 {
			e.Intensity = 0.5
		}
		kept = append(kept, e)
	}
	s.effects = kept
	return expired
}

// consume uses one stack of a stack-typed effect.
func (s *Set) consume(k Kind) {
	for i := range s.effects {
		if s.effects[i].Kind == k && s.effects[i].Type == Stacks {
			s.effects[i].Duration--
			if s.effects[i].Duration <= 0 {
				s.effects = append(s.effects[:i], s.effects[i+1:]...)
			}
			return
		}
	}
}

// ModifyOutcome adjusts the net chip delta of a resolved round. For a loss
// delta is negative (the forfeited stake); for a win it is the profit.
//
// TILT doubles losses. GREED adds Value% to profits and Value% of the bet to
// losses. RAKE forfeits Value% of profits and consumes one stack.
func (s *Set) ModifyOutcome(o Outcome, bet, delta int) int {
	for _, e := range s.Active() {
		if e.Duration <= 0 {
			continue
		}
		switch e.Kind {
		case Tilt:
			if o == Loss {
				delta -= bet
			}
		case Greed:
			switch o {
			case Win:
				delta += delta * e.Value / 100
			case Loss:
				delta -= bet * e.Value / 100
			}
		case Rake:
			if o == Win && delta > 0 {
				delta -= delta * e.Value / 100
				s.consume(Rake)
			}
		}
	}
	return delta
}

// RoundEndDrain computes the CHIP_DRAIN loss for a player holding chips.
// The drain never exceeds the chips held.
func (s *Set) RoundEndDrain(chips int) int {
	e, ok := s.Get(ChipDrain)
	if !ok || e.Duration <= 0 || e.Value <= 0 {
		return 0
	}
	if e.Value > chips {
		return chips
	}
	return e.Value
}
