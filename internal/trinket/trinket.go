// Package trinket models equippable trinkets: data templates, rolled
// instances with affixes and stacks, passive reactions to game events and
// card-targeted actives.
package trinket

import (
	"fmt"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Legendary
	EventRarity
	ClassRarity
)

var rarityNames = [...]string{"common", "uncommon", "rare", "legendary", "event", "class"}

func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return "unknown"
	}
	return rarityNames[r]
}

func ParseRarity(s string) (Rarity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range rarityNames {
		if n == s {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trinket rarity %q", s)
}

// EffectKind is what a passive does when its trigger event is raised.
type EffectKind int

const (
	AddChips EffectKind = iota
	AddChipsPercent
	LoseChips
	ApplyStatus
	ClearStatus
	Stack
	StackReset
	RefundChipsPercent
	AddDamageFlat
	DamageMultiplier
	AddTagToCards
	BuffTagDamage
	PushDamagePercent
	BlockDebuff
	PunishHeal
)

var effectNames = [...]string{
	"add_chips", "add_chips_percent", "lose_chips", "apply_status",
	"clear_status", "trinket_stack", "trinket_stack_reset",
	"refund_chips_percent", "add_damage_flat", "damage_multiplier",
	"add_tag_to_cards", "buff_tag_damage", "push_damage_percent",
	"block_debuff", "punish_heal",
}

func (k EffectKind) String() string {
	if k < 0 || int(k) >= len(effectNames) {
		return "unknown"
	}
	return effectNames[k]
}

func ParseEffectKind(s string) (EffectKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range effectNames {
		if n == s {
			return EffectKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trinket effect %q", s)
}

// Passive is a reaction to a game event.
type Passive struct {
	Trigger        ability.EventKind
	Effect         EffectKind
	Value          int
	Status         status.Kind
	StatusDuration int
	// Condition is an optional guard expression evaluated by the engine.
	Condition string
}

// StackRule describes a trinket that grows with repeated triggers.
type StackRule struct {
	Stat       Stat
	Value      int // stat gained per stack
	Max        int // 0 means unbounded
	ResetToOne bool
}

// TagGrant tags random cards when the trinket is equipped.
type TagGrant struct {
	Tag        card.Tag
	Count      int
	BuffDamage int
}

type TargetType int

const (
	TargetNone TargetType = iota
	TargetCard
)

type ActiveEffect int

const (
	SetValue ActiveEffect = iota
	DoubleValue
)

// Active is a player-triggered ability aimed at a card.
type Active struct {
	Target        TargetType
	MinRank       card.Rank
	MaxRank       card.Rank
	Effect        ActiveEffect
	Value         int
	Cooldown      int
	InvalidText   string
	PassiveGrowth int
	Description   string
}

// Template is the data definition of a trinket.
type Template struct {
	Key       string
	Name      string
	Flavor    string
	Rarity    Rarity
	BaseValue int
	Passives  []Passive
	Stack     *StackRule
	Tags      *TagGrant
	Active    *Active
	Stats     map[Stat]int
}

// Affix is a rolled stat bonus on an instance.
type Affix struct {
	Stat  Stat
	Name  string
	Value int
}

// Tracked names the per-instance counters shown on the trinket tooltip.
type Tracked string

const (
	TrackDamageDealt    Tracked = "damage_dealt"
	TrackBonusChips     Tracked = "bonus_chips"
	TrackRefundedChips  Tracked = "refunded_chips"
	TrackHighestStreak  Tracked = "highest_streak"
	TrackDebuffsBlocked Tracked = "debuffs_blocked"
	TrackHealDamage     Tracked = "heal_damage_dealt"
)

// Instance is a trinket the player owns.
type Instance struct {
	Template     *Template
	Rarity       Rarity
	Tier         int
	SellValue    int
	Affixes      []Affix
	Stacks       int
	Cooldown     int
	DebuffBlocks int
	HealPunishes int
	PassiveBonus int
	Tracked      map[Tracked]int
}

// NewInstance creates an unrolled instance of a template.
func NewInstance(t *Template, tier int) *Instance {
	if tier < 1 {
		tier = 1
	}
	return &Instance{
		Template:  t,
		Rarity:    t.Rarity,
		Tier:      tier,
		SellValue: t.BaseValue * tier,
		Tracked:   make(map[Tracked]int),
	}
}

func (in *Instance) Name() string { return in.Template.Name }

// Track adds to a tracked counter.
func (in *Instance) Track(k Tracked, v int) {
	if in.Tracked == nil {
		in.Tracked = make(map[Tracked]int)
	}
	in.Tracked[k] += v
}

// ResetCombat clears the per-combat charges.
func (in *Instance) ResetCombat() {
	in.DebuffBlocks = 0
	in.HealPunishes = 0
}

// TickCooldown lowers the active cooldown by one.
func (in *Instance) TickCooldown() {
	if in.Cooldown > 0 {
		in.Cooldown--
	}
}
