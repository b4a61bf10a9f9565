package ability

import (
	"fmt"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

// EffectType enumerates what an effect does.
type EffectType int

const (
	ApplyStatus EffectType = iota
	RemoveStatus
	Heal
	Damage
	ShuffleDeck
	DiscardHand
	ForceHit
	RevealHole
	Message
)

var effectNames = [...]string{
	"apply_status",
	"remove_status",
	"heal",
	"damage",
	"shuffle_deck",
	"discard_hand",
	"force_hit",
	"reveal_hole",
	"message",
}

func (t EffectType) String() string {
	if t < 0 || int(t) >= len(effectNames) {
		return "unknown"
	}
	return effectNames[t]
}

func ParseEffectType(s string) (EffectType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range effectNames {
		if n == s {
			return EffectType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect type %q", s)
}

// Target selects who an effect lands on.
type Target int

const (
	TargetPlayer Target = iota
	TargetSelf
)

func (t Target) String() string {
	if t == TargetSelf {
		return "self"
	}
	return "player"
}

// ParseTarget reads "player" or "self". Empty defaults to the player.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "player":
		return TargetPlayer, nil
	case "self", "enemy":
		return TargetSelf, nil
	}
	return 0, fmt.Errorf("unknown effect target %q", s)
}

// Effect is one step of an ability's effect chain.
type Effect struct {
	Type     EffectType
	Target   Target
	Value    int
	Duration int
	Status   status.Kind
	Message  string
}

// Record is a side effect produced by evaluating an effect. The engine is
// the only place records are applied.
type Record interface {
	record()
}

type StatusApplied struct {
	Kind     status.Kind
	Value    int
	Duration int
}

type StatusRemoved struct {
	Kind status.Kind
}

type EnemyHealed struct{ Amount int }

type EnemyDamaged struct{ Amount int }

type ChipsGained struct{ Amount int }

type ChipsLost struct{ Amount int }

type DeckShuffled struct{}

type HandDiscarded struct{}

type Announcement struct{ Text string }

// Reserved marks an effect type with no behaviour yet.
type Reserved struct{ Type EffectType }

func (StatusApplied) record() {}
func (StatusRemoved) record() {}
func (EnemyHealed) record()   {}
func (EnemyDamaged) record()  {}
func (ChipsGained) record()   {}
func (ChipsLost) record()     {}
func (DeckShuffled) record()  {}
func (HandDiscarded) record() {}
func (Announcement) record()  {}
func (Reserved) record()      {}

// Evaluate turns an effect into side-effect records without touching any
// game state.
func Evaluate(e Effect) []Record {
	var recs []Record
	switch e.Type {
	case ApplyStatus:
		if e.Status != status.None {
			recs = append(recs, StatusApplied{Kind: e.Status, Value: e.Value, Duration: e.Duration})
		}
	case RemoveStatus:
		if e.Status != status.None {
			recs = append(recs, StatusRemoved{Kind: e.Status})
		}
	case Heal:
		if e.Value > 0 {
			if e.Target == TargetSelf {
				recs = append(recs, EnemyHealed{Amount: e.Value})
			} else {
				recs = append(recs, ChipsGained{Amount: e.Value})
			}
		}
	case Damage:
		if e.Value > 0 {
			if e.Target == TargetSelf {
				recs = append(recs, EnemyDamaged{Amount: e.Value})
			} else {
				recs = append(recs, ChipsLost{Amount: e.Value})
			}
		}
	case ShuffleDeck:
		recs = append(recs, DeckShuffled{})
	case DiscardHand:
		recs = append(recs, HandDiscarded{})
	case ForceHit, RevealHole:
		recs = append(recs, Reserved{Type: e.Type})
	case Message:
		if e.Message != "" {
			return []Record{Announcement{Text: e.Message}}
		}
		return nil
	}
	if e.Message != "" {
		recs = append(recs, Announcement{Text: e.Message})
	}
	return recs
}
