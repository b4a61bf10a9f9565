package ability

import (
	"testing"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ v int }

func (r fixedRand) IntN(int) int { return r.v }

type denyAll struct{}

func (denyAll) Allow(string, map[string]any) bool { return false }

func hpSnap(hp int) Snapshot {
	return Snapshot{HP: hp, MaxHP: 100, TotalDamage: 100 - hp}
}

var damaged = Event{Kind: EnemyHit}

func TestHPSegment(t *testing.T) {
	seg := &HPSegment{Segment: 25}
	a := &Ability{Name: "Shed", Trigger: seg, Effects: []Effect{{Type: Message, Message: "shed"}}}
	bus := NewBus(a)

	t.Run("Fires once crossing 75", func(t *testing.T) {
		assert.Len(t, bus.Dispatch(damaged, hpSnap(74)), 1)
		assert.Empty(t, bus.Dispatch(damaged, hpSnap(74)))
	})

	t.Run("Fires again crossing 50", func(t *testing.T) {
		assert.Len(t, bus.Dispatch(damaged, hpSnap(49)), 1)
	})

	t.Run("Hovering around 50 does not re-fire", func(t *testing.T) {
		assert.Empty(t, bus.Dispatch(damaged, hpSnap(50)))
		assert.Empty(t, bus.Dispatch(damaged, hpSnap(49)))
		assert.Empty(t, bus.Dispatch(damaged, hpSnap(50)))
	})

	t.Run("At most floor(100/s)-1 fires per combat", func(t *testing.T) {
		fresh := &HPSegment{Segment: 20}
		b := NewBus(&Ability{Trigger: fresh})
		fires := 0
		for hp := 100; hp >= 0; hp-- {
			for i := 0; i < 3; i++ {
				fires += len(b.Dispatch(damaged, hpSnap(hp)))
			}
		}
		assert.Equal(t, 4, fires)
		assert.Equal(t, 4, fresh.Thresholds())
	})

	t.Run("Big drop fires one threshold per check", func(t *testing.T) {
		b := NewBus(&Ability{Trigger: &HPSegment{Segment: 25}})
		assert.Len(t, b.Dispatch(damaged, hpSnap(10)), 1)
		assert.Len(t, b.Dispatch(damaged, hpSnap(10)), 1)
		assert.Len(t, b.Dispatch(damaged, hpSnap(10)), 1)
		assert.Empty(t, b.Dispatch(damaged, hpSnap(10)))
	})

	t.Run("Reset clears the mask", func(t *testing.T) {
		bus.Reset()
		assert.Len(t, bus.Dispatch(damaged, hpSnap(74)), 1)
	})
}

func TestCounter(t *testing.T) {
	c := &Counter{Event: PlayerLoss, Max: 3}
	bus := NewBus(&Ability{Trigger: c})
	loss := Event{Kind: PlayerLoss}

	assert.Empty(t, bus.Dispatch(loss, Snapshot{}))
	assert.Empty(t, bus.Dispatch(Event{Kind: PlayerWin}, Snapshot{}))
	assert.Empty(t, bus.Dispatch(loss, Snapshot{}))
	assert.Len(t, bus.Dispatch(loss, Snapshot{}), 1)
	assert.Equal(t, 0, c.Count)
}

func TestHPThresholdOnce(t *testing.T) {
	once := NewBus(&Ability{Trigger: &HPThreshold{Percent: 50, Once: true}})
	assert.Empty(t, once.Dispatch(damaged, hpSnap(60)))
	assert.Len(t, once.Dispatch(damaged, hpSnap(50)), 1)
	assert.Empty(t, once.Dispatch(damaged, hpSnap(30)))

	repeat := NewBus(&Ability{Trigger: &HPThreshold{Percent: 50}})
	assert.Len(t, repeat.Dispatch(damaged, hpSnap(40)), 1)
	assert.Len(t, repeat.Dispatch(damaged, hpSnap(30)), 1)
}

func TestRandomAndAction(t *testing.T) {
	r := NewBus(&Ability{Trigger: &Random{Event: PlayerWin, Chance: 30}})
	assert.Len(t, r.Dispatch(Event{Kind: PlayerWin}, Snapshot{Rand: fixedRand{29}}), 1)
	assert.Empty(t, r.Dispatch(Event{Kind: PlayerWin}, Snapshot{Rand: fixedRand{30}}))

	a := NewBus(&Ability{Trigger: &OnAction{Action: Double}})
	assert.Empty(t, a.Dispatch(Event{Kind: PlayerActionEnd, Action: Hit}, Snapshot{}))
	assert.Len(t, a.Dispatch(Event{Kind: PlayerActionEnd, Action: Double}, Snapshot{}), 1)
}

func TestDamageAccumulator(t *testing.T) {
	acc := &DamageAccumulator{Threshold: 30}
	bus := NewBus(&Ability{Trigger: acc})
	assert.Empty(t, bus.Dispatch(damaged, Snapshot{HP: 80, MaxHP: 100, TotalDamage: 20}))
	assert.Len(t, bus.Dispatch(damaged, Snapshot{HP: 65, MaxHP: 100, TotalDamage: 35}), 1)
	assert.Empty(t, bus.Dispatch(damaged, Snapshot{HP: 60, MaxHP: 100, TotalDamage: 40}))
	assert.Len(t, bus.Dispatch(damaged, Snapshot{HP: 30, MaxHP: 100, TotalDamage: 70}), 1)
}

func TestCooldownBlocksFiring(t *testing.T) {
	a := &Ability{Trigger: &OnEvent{Event: PlayerLoss}, CooldownMax: 2}
	bus := NewBus(a)
	loss := Event{Kind: PlayerLoss}

	assert.Len(t, bus.Dispatch(loss, Snapshot{}), 1)
	assert.Equal(t, 2, a.Cooldown)
	assert.Empty(t, bus.Dispatch(loss, Snapshot{}))
	bus.TickCooldowns()
	assert.Empty(t, bus.Dispatch(loss, Snapshot{}))
	bus.TickCooldowns()
	assert.Len(t, bus.Dispatch(loss, Snapshot{}), 1)
}

func TestGuardSkipsWithoutConsumingCounter(t *testing.T) {
	c := &Counter{Event: PlayerLoss, Max: 2}
	bus := NewBus(&Ability{Trigger: c, When: "player.chips > 1000"})
	bus.Dispatch(Event{Kind: PlayerLoss}, Snapshot{Guard: denyAll{}})
	assert.Equal(t, 0, c.Count)
}

func TestDeclarationOrderAndEffectChain(t *testing.T) {
	first := &Ability{
		Name:    "Drain",
		Trigger: &OnEvent{Event: PlayerLoss},
		Effects: []Effect{
			{Type: ApplyStatus, Status: status.ChipDrain, Value: 5, Duration: 3},
			{Type: Message, Message: "The house collects."},
		},
	}
	second := &Ability{
		Name:    "Mend",
		Trigger: &OnEvent{Event: PlayerLoss},
		Effects: []Effect{{Type: Heal, Target: TargetSelf, Value: 10}},
	}
	firings := NewBus(first, second).Dispatch(Event{Kind: PlayerLoss}, Snapshot{})

	require.Len(t, firings, 2)
	assert.Equal(t, "Drain", firings[0].Ability.Name)
	assert.Equal(t, []Record{
		StatusApplied{Kind: status.ChipDrain, Value: 5, Duration: 3},
		Announcement{Text: "The house collects."},
	}, firings[0].Records)
	assert.Equal(t, []Record{EnemyHealed{Amount: 10}}, firings[1].Records)
}

func TestEvaluate(t *testing.T) {
	assert.Equal(t, []Record{ChipsLost{Amount: 7}}, Evaluate(Effect{Type: Damage, Value: 7}))
	assert.Equal(t, []Record{EnemyDamaged{Amount: 7}}, Evaluate(Effect{Type: Damage, Target: TargetSelf, Value: 7}))
	assert.Equal(t, []Record{ChipsGained{Amount: 3}}, Evaluate(Effect{Type: Heal, Value: 3}))
	assert.Equal(t, []Record{Reserved{Type: ForceHit}}, Evaluate(Effect{Type: ForceHit}))
	assert.Equal(t, []Record{DeckShuffled{}}, Evaluate(Effect{Type: ShuffleDeck}))
	assert.Nil(t, Evaluate(Effect{Type: Message}))
}

func TestNewTrigger(t *testing.T) {
	tr, err := NewTrigger("hp_segment", TriggerParams{Segment: 25})
	require.NoError(t, err)
	assert.Equal(t, 3, tr.(*HPSegment).Thresholds())

	_, err = NewTrigger("hp_segment", TriggerParams{Segment: 30})
	assert.Error(t, err)

	tr, err = NewTrigger("counter", TriggerParams{Event: "player_bust", Max: 2})
	require.NoError(t, err)
	assert.Equal(t, PlayerBust, tr.(*Counter).Event)

	_, err = NewTrigger("on_event", TriggerParams{})
	assert.Error(t, err)

	_, err = NewTrigger("teleport", TriggerParams{})
	assert.Error(t, err)

	tr, err = NewTrigger("on_action", TriggerParams{Action: "double"})
	require.NoError(t, err)
	assert.Equal(t, Double, tr.(*OnAction).Action)
}

func TestEnemyHitEventName(t *testing.T) {
	kind, err := ParseEvent("enemy_damaged")
	require.NoError(t, err)
	assert.Equal(t, EnemyHit, kind)
	assert.Equal(t, "ENEMY_DAMAGED", EnemyHit.String())

	recs := Evaluate(Effect{Type: Damage, Target: TargetSelf, Value: 3})
	require.Len(t, recs, 1)
	assert.IsType(t, EnemyDamaged{}, recs[0])
}
