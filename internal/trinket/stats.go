package trinket

import (
	"fmt"
	"strings"
)

// Stat is a combat statistic trinkets contribute to.
type Stat string

const (
	DamageFlat        Stat = "damage_flat"
	DamagePercent     Stat = "damage_percent"
	CritChance        Stat = "crit_chance"
	CritBonus         Stat = "crit_bonus"
	WinBonusPercent   Stat = "win_bonus_percent"
	LossRefundPercent Stat = "loss_refund_percent"
	PushDamage        Stat = "push_damage_percent"
	FlatChipsOnWin    Stat = "flat_chips_on_win"
)

var allStats = []Stat{DamageFlat, DamagePercent, CritChance, CritBonus, WinBonusPercent, LossRefundPercent, PushDamage, FlatChipsOnWin}

func ParseStat(s string) (Stat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range allStats {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown combat stat %q", s)
}

// Stats is the aggregated combat-stat sheet of a player.
type Stats struct {
	DamageFlat        int
	DamagePercent     int
	CritChance        int
	CritBonus         int
	WinBonusPercent   int
	LossRefundPercent int
	PushDamagePercent int
	FlatChipsOnWin    int
}

// Add accumulates v into the named stat.
func (s *Stats) Add(st Stat, v int) {
	switch st {
	case DamageFlat:
		s.DamageFlat += v
	case DamagePercent:
		s.DamagePercent += v
	case CritChance:
		s.CritChance += v
	case CritBonus:
		s.CritBonus += v
	case WinBonusPercent:
		s.WinBonusPercent += v
	case LossRefundPercent:
		s.LossRefundPercent += v
	case PushDamage:
		s.PushDamagePercent += v
	case FlatChipsOnWin:
		s.FlatChipsOnWin += v
	}
}

// Contribute adds the instance's static stats, affixes and stack bonus.
// Damage-multiplier and push-damage passives are standing bonuses and
// count here rather than on their trigger.
func (in *Instance) Contribute(s *Stats) {
	t := in.Template
	for st, v := range t.Stats {
		s.Add(st, v)
	}
	for _, p := range t.Passives {
		switch p.Effect {
		case DamageMultiplier:
			s.Add(DamagePercent, p.Value)
		case PushDamagePercent:
			s.Add(PushDamage, p.Value)
		}
	}
	for _, a := range in.Affixes {
		s.Add(a.Stat, a.Value)
	}
	if t.Stack != nil && in.Stacks > 0 {
		s.Add(t.Stack.Stat, t.Stack.Value*in.Stacks)
	}
}
