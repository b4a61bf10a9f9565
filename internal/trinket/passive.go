package trinket

import (
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

// Record is a side effect requested by a trinket passive.
type Record interface {
	trinketRecord()
}

// ChipsDelta adds (or removes, when negative) chips.
type ChipsDelta struct{ Amount int }

type StatusGrant struct {
	Kind     status.Kind
	Value    int
	Duration int
}

type StatusClear struct{ Kind status.Kind }

// Damage is raw damage to the enemy before the player's damage modifiers.
type Damage struct{ Base int }

// TagCards tags Count random untagged cards.
type TagCards struct {
	Tag   card.Tag
	Count int
}

// Restat marks the owner's combat-stat cache dirty.
type Restat struct{}

func (ChipsDelta) trinketRecord()  {}
func (StatusGrant) trinketRecord() {}
func (StatusClear) trinketRecord() {}
func (Damage) trinketRecord()      {}
func (TagCards) trinketRecord()    {}
func (Restat) trinketRecord()      {}

// Context carries what passives read when they react.
type Context struct {
	Bet   int
	Guard ability.Guard
	Vars  map[string]any
}

// OnEvent runs every passive listening to ev, primary first.
func (in *Instance) OnEvent(ev ability.EventKind, c Context) []Record {
	var recs []Record
	for _, p := range in.Template.Passives {
		if p.Trigger != ev {
			continue
		}
		if p.Condition != "" && c.Guard != nil && !c.Guard.Allow(p.Condition, c.Vars) {
			continue
		}
		recs = append(recs, in.execute(p, c)...)
	}
	return recs
}

func (in *Instance) execute(p Passive, c Context) []Record {
	switch p.Effect {
	case AddChips:
		if p.Value > 0 {
			in.Track(TrackBonusChips, p.Value)
			return []Record{ChipsDelta{Amount: p.Value}}
		}
	case AddChipsPercent:
		if bonus := c.Bet * p.Value / 100; bonus > 0 {
			in.Track(TrackBonusChips, bonus)
			return []Record{ChipsDelta{Amount: bonus}}
		}
	case LoseChips:
		if p.Value > 0 {
			return []Record{ChipsDelta{Amount: -p.Value}}
		}
	case RefundChipsPercent:
		if refund := c.Bet * p.Value / 100; refund > 0 {
			in.Track(TrackRefundedChips, refund)
			return []Record{ChipsDelta{Amount: refund}}
		}
	case ApplyStatus:
		if p.Status != status.None {
			return []Record{StatusGrant{Kind: p.Status, Value: p.Value, Duration: p.StatusDuration}}
		}
	case ClearStatus:
		if p.Status != status.None {
			return []Record{StatusClear{Kind: p.Status}}
		}
	case Stack:
		if in.AddStack() {
			return []Record{Restat{}}
		}
	case StackReset:
		if in.Stacks != 0 {
			in.Stacks = 0
			return []Record{Restat{}}
		}
	case AddDamageFlat:
		if base := p.Value + in.PassiveBonus; base > 0 {
			return []Record{Damage{Base: base}}
		}
	case AddTagToCards:
		if g := in.Template.Tags; g != nil && g.Count > 0 {
			return []Record{TagCards{Tag: g.Tag, Count: g.Count}}
		}
	case BlockDebuff:
		in.DebuffBlocks += p.Value
	case PunishHeal:
		in.HealPunishes += p.Value
	}
	return nil
}

// OnEquip returns the records fired once when the trinket is equipped.
func (in *Instance) OnEquip() []Record {
	recs := []Record{Restat{}}
	if g := in.Template.Tags; g != nil && g.Count > 0 {
		recs = append(recs, TagCards{Tag: g.Tag, Count: g.Count})
	}
	return recs
}

// AddStack grows the stack counter. At the cap the counter either loops to
// one or stays put. It reports whether the counter changed.
func (in *Instance) AddStack() bool {
	r := in.Template.Stack
	if r == nil {
		return false
	}
	if r.Max > 0 && in.Stacks >= r.Max {
		if r.ResetToOne {
			in.Stacks = 1
			return true
		}
		return false
	}
	in.Stacks++
	if r.Max == 0 && in.Stacks > in.Tracked[TrackHighestStreak] {
		if in.Tracked == nil {
			in.Tracked = make(map[Tracked]int)
		}
		in.Tracked[TrackHighestStreak] = in.Stacks
	}
	return true
}

// TagBuff is the extra damage this trinket adds to a tag's on-draw damage.
func (in *Instance) TagBuff(tag card.Tag) int {
	if g := in.Template.Tags; g != nil && g.Tag == tag {
		for _, p := range in.Template.Passives {
			if p.Effect == BuffTagDamage {
				return g.BuffDamage
			}
		}
	}
	return 0
}
