package trinket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

// seq returns scripted values, each reduced modulo n.
type seq struct {
	vals []int
	i    int
}

func (s *seq) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func streakTemplate(max int, loop bool) *Template {
	return &Template{
		Key:  "streak",
		Name: "Lucky Streak",
		Passives: []Passive{
			{Trigger: ability.PlayerWin, Effect: Stack},
			{Trigger: ability.PlayerLoss, Effect: StackReset},
		},
		Stack: &StackRule{Stat: DamagePercent, Value: 5, Max: max, ResetToOne: loop},
	}
}

func TestStacks(t *testing.T) {
	t.Run("saturates at max", func(t *testing.T) {
		in := NewInstance(streakTemplate(3, false), 1)
		for i := 0; i < 5; i++ {
			in.OnEvent(ability.PlayerWin, Context{})
		}
		assert.Equal(t, 3, in.Stacks)
		assert.Empty(t, in.OnEvent(ability.PlayerWin, Context{}), "no restat at the cap")

		var s Stats
		in.Contribute(&s)
		assert.Equal(t, 15, s.DamagePercent)

		in.OnEvent(ability.PlayerLoss, Context{})
		assert.Equal(t, 0, in.Stacks)
	})

	t.Run("loops to one", func(t *testing.T) {
		in := NewInstance(streakTemplate(2, true), 1)
		in.AddStack()
		in.AddStack()
		assert.True(t, in.AddStack())
		assert.Equal(t, 1, in.Stacks)
	})

	t.Run("unbounded tracks highest streak", func(t *testing.T) {
		in := NewInstance(streakTemplate(0, false), 1)
		for i := 0; i < 4; i++ {
			in.AddStack()
		}
		in.OnEvent(ability.PlayerLoss, Context{})
		in.AddStack()
		assert.Equal(t, 4, in.Tracked[TrackHighestStreak])
	})
}

func TestPassiveRecords(t *testing.T) {
	tmpl := &Template{
		Name: "Gambler's Purse",
		Passives: []Passive{
			{Trigger: ability.PlayerWin, Effect: AddChipsPercent, Value: 20},
			{Trigger: ability.PlayerLoss, Effect: RefundChipsPercent, Value: 50},
			{Trigger: ability.CombatStart, Effect: BlockDebuff, Value: 2},
			{Trigger: ability.PlayerBust, Effect: ApplyStatus, Value: 0, Status: status.Tilt, StatusDuration: 2},
			{Trigger: ability.HandEnd, Effect: AddDamageFlat, Value: 3},
		},
	}
	in := NewInstance(tmpl, 1)

	assert.Equal(t, []Record{ChipsDelta{Amount: 10}}, in.OnEvent(ability.PlayerWin, Context{Bet: 50}))
	assert.Equal(t, []Record{ChipsDelta{Amount: 25}}, in.OnEvent(ability.PlayerLoss, Context{Bet: 50}))
	assert.Equal(t, 10, in.Tracked[TrackBonusChips])
	assert.Equal(t, 25, in.Tracked[TrackRefundedChips])

	assert.Empty(t, in.OnEvent(ability.CombatStart, Context{}))
	assert.Equal(t, 2, in.DebuffBlocks)
	in.ResetCombat()
	assert.Equal(t, 0, in.DebuffBlocks)

	assert.Equal(t, []Record{StatusGrant{Kind: status.Tilt, Duration: 2}}, in.OnEvent(ability.PlayerBust, Context{}))

	in.PassiveBonus = 5
	assert.Equal(t, []Record{Damage{Base: 8}}, in.OnEvent(ability.HandEnd, Context{}))
}

type guardFunc func(string, map[string]any) bool

func (g guardFunc) Allow(expr string, vars map[string]any) bool { return g(expr, vars) }

func TestPassiveCondition(t *testing.T) {
	tmpl := &Template{
		Passives: []Passive{{Trigger: ability.CardDrawn, Effect: AddChips, Value: 5, Condition: "hand_before >= 15"}},
	}
	in := NewInstance(tmpl, 1)
	guard := guardFunc(func(_ string, vars map[string]any) bool { return vars["hand_before"].(int) >= 15 })

	assert.Empty(t, in.OnEvent(ability.CardDrawn, Context{Guard: guard, Vars: map[string]any{"hand_before": 12}}))
	assert.Len(t, in.OnEvent(ability.CardDrawn, Context{Guard: guard, Vars: map[string]any{"hand_before": 16}}), 1)
}

func TestOnEquipTags(t *testing.T) {
	in := NewInstance(&Template{
		Name:     "Cursed Idol",
		Tags:     &TagGrant{Tag: card.Cursed, Count: 3, BuffDamage: 5},
		Passives: []Passive{{Trigger: ability.CombatStart, Effect: BuffTagDamage}},
	}, 1)
	recs := in.OnEquip()
	assert.Contains(t, recs, TagCards{Tag: card.Cursed, Count: 3})
	assert.Equal(t, 5, in.TagBuff(card.Cursed))
	assert.Equal(t, 0, in.TagBuff(card.Vampiric))
}

func classTrinket() *Template {
	return &Template{
		Key:    "degenerate_gambit",
		Name:   "Degenerate's Gambit",
		Rarity: ClassRarity,
		Active: &Active{
			Target: TargetCard, MinRank: 2, MaxRank: 9,
			Effect: SetValue, Value: 10, Cooldown: 3,
			InvalidText: "targets rank 2–9 only", PassiveGrowth: 5,
		},
	}
}

func TestActive(t *testing.T) {
	in := NewInstance(classTrinket(), 1)
	require.NoError(t, in.CanActivate())
	assert.True(t, in.NeedsTarget())

	ace := card.InHand{ID: card.MustParse("AS"), FaceUp: true}
	assert.False(t, in.Accepts(ace))
	assert.Equal(t, "targets rank 2–9 only", in.InvalidTargetText())
	assert.ErrorIs(t, in.Activate(&ace), ErrBadTarget)

	hidden := card.InHand{ID: card.MustParse("3D")}
	assert.False(t, in.Accepts(hidden))

	three := card.InHand{ID: card.MustParse("3D"), FaceUp: true}
	require.NoError(t, in.Activate(&three))
	assert.Equal(t, 10, three.Override.Value)
	assert.Equal(t, 3, in.Cooldown)
	assert.Equal(t, 5, in.PassiveBonus)
	assert.ErrorIs(t, in.CanActivate(), ErrOnCooldown)

	in.TickCooldown()
	in.TickCooldown()
	in.TickCooldown()
	assert.NoError(t, in.CanActivate())

	plain := NewInstance(&Template{Name: "Charm"}, 1)
	assert.ErrorIs(t, plain.CanActivate(), ErrNoActive)
}

func TestDropper(t *testing.T) {
	templates := []*Template{
		{Key: "c", Name: "Common", Rarity: Common, BaseValue: 10},
		{Key: "r", Name: "Rare", Rarity: Rare, BaseValue: 30},
		{Key: "e", Name: "Event", Rarity: EventRarity, BaseValue: 99},
	}
	affixes := []AffixTemplate{
		{Stat: DamageFlat, Name: "Sharp", Min: 2, Max: 2},
		{Stat: CritChance, Name: "Keen", Min: 4, Max: 4},
		{Stat: WinBonusPercent, Name: "Rich", Min: 6, Max: 6},
	}

	t.Run("common roll", func(t *testing.T) {
		d := NewDropper(templates, affixes, 5)
		in, err := d.Roll("normal", 1, &seq{vals: []int{0}})
		require.NoError(t, err)
		assert.Equal(t, "c", in.Template.Key)
		assert.Equal(t, Common, in.Rarity)
		assert.Len(t, in.Affixes, 1)
		assert.Equal(t, 10+5, in.SellValue)
		assert.Equal(t, 1, d.Pity("normal"))
	})

	t.Run("uncommon roll falls back to a common template", func(t *testing.T) {
		d := NewDropper(templates, affixes, 5)
		in, err := d.Roll("normal", 3, &seq{vals: []int{70, 0}})
		require.NoError(t, err)
		assert.Equal(t, "c", in.Template.Key)
		assert.Equal(t, Common, in.Rarity, "rarity follows the template")
		require.Len(t, in.Affixes, 1)
		assert.Equal(t, 30+5, in.SellValue)
		for _, a := range in.Affixes {
			base := map[Stat]int{DamageFlat: 2, CritChance: 4, WinBonusPercent: 6}[a.Stat]
			assert.Equal(t, base*2, a.Value, "tier 3 doubles affix values")
		}
	})

	t.Run("pity forces rare", func(t *testing.T) {
		d := NewDropper(templates, affixes, 2)
		rng := &seq{vals: []int{0}}
		_, _ = d.Roll("elite", 1, rng)
		_, _ = d.Roll("elite", 1, rng)
		assert.Equal(t, 2, d.Pity("elite"))
		in, err := d.Roll("elite", 1, rng)
		require.NoError(t, err)
		assert.Equal(t, Rare, in.Rarity)
		assert.Equal(t, "r", in.Template.Key)
		assert.Equal(t, 0, d.Pity("elite"))
		assert.Equal(t, 0, d.Pity("boss"), "pity is per source")
	})

	t.Run("empty pool", func(t *testing.T) {
		d := NewDropper(nil, nil, 5)
		_, err := d.Roll("boss", 1, &seq{})
		assert.ErrorIs(t, err, ErrNoTemplates)
	})
}
