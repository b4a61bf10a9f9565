package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

func TestBasicWinningRound(t *testing.T) {
	e := newEngine(t, nil, nil)
	require.Equal(t, IntroNarrative, e.State())
	require.NoError(t, do(e, Continue{}))
	require.Equal(t, Betting, e.State())
	require.Equal(t, 100, e.Enemy().HP)

	deal(t, e, 10, "8D", "8S", "5C", "9H", "7S")
	require.Equal(t, PlayerTurn, e.State())
	assert.Equal(t, 90, e.Human().Chips)
	assert.Equal(t, 13, e.Human().Hand.Score())
	assert.Equal(t, 9, e.Dealer().Hand.VisibleScore())

	require.NoError(t, do(e, Hit{}))
	assert.Equal(t, 20, e.Human().Hand.Score())
	assert.Equal(t, PlayerTurn, e.State())

	require.NoError(t, do(e, Stand{}))
	assert.Equal(t, DealerTurn, e.State())
	assert.True(t, e.Dealer().Hand.Cards[0].FaceUp, "hole card revealed")
	e.Intents()

	wait(e, 5)
	assert.Equal(t, RoundEnd, e.State())
	assert.Equal(t, 17, e.Dealer().Hand.Score())
	assert.Equal(t, 2, e.Dealer().Hand.Len(), "dealer stands on 17")
	assert.Equal(t, 110, e.Human().Chips)
	assert.Equal(t, 90, e.Enemy().HP)
	assert.Equal(t, 10, e.Stats().Damage[SourceHand])
	assert.Contains(t, e.Intents(), Intent(DamageNumber{Amount: 10, Source: SourceHand}))

	wait(e, 1)
	assert.Less(t, e.Enemy().DisplayHP, float64(100))
}

func TestBustAndChipDrain(t *testing.T) {
	e := newEngine(t, nil, func(c *config.Config) { c.StartingChips = 200 })
	require.NoError(t, do(e, Continue{}))

	deal(t, e, 50, "10H", "10S", "7D", "6C", "8C")
	require.Equal(t, PlayerTurn, e.State())
	require.Equal(t, 150, e.Human().Chips)

	require.NoError(t, do(e, Double{}))
	assert.True(t, e.Human().Hand.Busted())
	assert.Equal(t, 100, e.Human().Bet)
	assert.Equal(t, DealerTurn, e.State())
	// hitting on 15+ triggers the class trinket
	assert.Equal(t, 90, e.Enemy().HP)

	wait(e, 5)
	assert.Equal(t, RoundEnd, e.State())
	assert.Equal(t, 95, e.Human().Chips, "lost the doubled stake, then drained 5")
	drain, ok := e.Human().Status.Get(status.ChipDrain)
	require.True(t, ok)
	assert.Equal(t, 5, drain.Value)
	assert.Equal(t, 2, drain.Duration)
	assert.Equal(t, 1, e.Stats().Busts)
	assert.Equal(t, 5, e.Stats().ChipsDrained)
}

func TestHPSegmentFiresOncePerThreshold(t *testing.T) {
	content, err := data.Build(&data.Files{
		Enemies: []data.Enemy{{
			Key: "golem", Name: "Golem", HP: 100,
			Abilities: []data.Ability{{
				Name:    "Crack",
				Trigger: data.Trigger{Type: "hp_segment", Segment: 25},
				Effects: []data.Effect{{Type: "message", Message: "crack"}},
			}},
		}},
		Acts: []data.Act{{Key: "drill", Name: "Drill", Encounters: []data.Encounter{{Type: "normal", Enemy: "golem"}}}},
	})
	require.NoError(t, err)
	e := newEngine(t, content, func(c *config.Config) { c.Act = "drill" })
	require.Equal(t, Betting, e.State())
	e.Intents()

	e.damageEnemy(26, SourceHand, false)
	e.flush()
	assert.Equal(t, 74, e.Enemy().HP)
	assert.Equal(t, 1, countContaining(logLines(e.Intents()), "crack"))

	e.damageEnemy(25, SourceHand, false)
	e.flush()
	assert.Equal(t, 49, e.Enemy().HP)
	assert.Equal(t, 1, countContaining(logLines(e.Intents()), "crack"))

	e.Enemy().Heal(1)
	e.damageEnemy(1, SourceHand, false)
	e.flush()
	assert.Equal(t, 49, e.Enemy().HP)
	assert.Zero(t, countContaining(logLines(e.Intents()), "crack"), "the 50% threshold already fired")
}

func TestEventReroll(t *testing.T) {
	events := make([]data.Event, 0, 3)
	for _, id := range []string{"alley", "bridge", "crypt"} {
		events = append(events, data.Event{
			ID: id, Title: id, Weight: 1,
			Choices: []data.Choice{{Text: "Take the chips", Chips: 15}, {Text: "Leave"}},
		})
	}
	content, err := data.Build(&data.Files{
		Enemies: []data.Enemy{{Key: "dummy", Name: "Dummy", HP: 50}},
		Events:  events,
		Acts: []data.Act{{
			Key: "detour", Name: "Detour",
			Events:     []string{"alley", "bridge", "crypt"},
			Encounters: []data.Encounter{{Type: "event"}, {Type: "normal", Enemy: "dummy"}},
		}},
	})
	require.NoError(t, err)
	e := newEngine(t, content, func(c *config.Config) {
		c.Act = "detour"
		c.RerollBaseCost = 10
	})
	require.Equal(t, EventPreview, e.State())
	first := e.View().Event.ID
	assert.Equal(t, 10, e.RerollCost())

	require.NoError(t, do(e, Reroll{}))
	assert.Equal(t, 90, e.Human().Chips)
	assert.Equal(t, 20, e.RerollCost())
	second := e.View().Event.ID
	assert.NotEqual(t, first, second)

	require.NoError(t, do(e, Reroll{}))
	assert.Equal(t, 70, e.Human().Chips)
	assert.Equal(t, 40, e.RerollCost())
	assert.NotEqual(t, second, e.View().Event.ID)

	wait(e, 1)
	assert.Equal(t, EventPreview, e.State(), "reroll restarted the preview timer")
	wait(e, 2)
	require.Equal(t, EventScreen, e.State())

	assert.ErrorIs(t, do(e, Continue{}), ErrInvalidInput, "a choice is required")
	require.NoError(t, do(e, Choose{Index: 0}))
	assert.Equal(t, 85, e.Human().Chips)
	assert.ErrorIs(t, do(e, Choose{Index: 1}), ErrInvalidInput)

	require.NoError(t, do(e, Continue{}))
	assert.Equal(t, Betting, e.State())
	require.NotNil(t, e.Enemy())
	assert.Equal(t, "dummy", e.Enemy().Key)
	assert.Equal(t, 2, e.Stats().Rerolls)

	t.Run("unaffordable reroll", func(t *testing.T) {
		e := newEngine(t, content, func(c *config.Config) {
			c.Act = "detour"
			c.RerollBaseCost = 500
		})
		assert.ErrorIs(t, do(e, Reroll{}), ErrInvalidInput)
		assert.Equal(t, 100, e.Human().Chips)
	})
}

func TestTrinketTargeting(t *testing.T) {
	e := newEngine(t, nil, func(c *config.Config) { c.Class = "dealer" })
	require.NoError(t, do(e, Continue{}))
	deal(t, e, 10, "AS", "10C", "3D", "7H")
	require.Equal(t, PlayerTurn, e.State())
	require.Equal(t, 14, e.Human().Hand.Score())
	class := player.ClassSlot()

	t.Run("cancel keeps the cooldown", func(t *testing.T) {
		require.NoError(t, do(e, UseTrinket{Slot: class}))
		require.Equal(t, Targeting, e.State())
		require.NoError(t, e.Update(0, Input{RightClick: true}))
		assert.Equal(t, PlayerTurn, e.State())
		assert.Zero(t, e.Human().Trinket(class).Cooldown)
	})

	t.Run("invalid target shows a popup", func(t *testing.T) {
		require.NoError(t, do(e, UseTrinket{Slot: class}))
		err := e.Update(0, Input{Hover: &CardRef{Owner: player.HumanID, Index: 0}, Click: true})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, Targeting, e.State())
		text, ok := e.Popup()
		require.True(t, ok)
		assert.Equal(t, "targets rank 2–9 only", text)

		// the popup swallows the next click
		require.NoError(t, e.Update(0, Input{Hover: &CardRef{Owner: player.HumanID, Index: 1}, Click: true}))
		_, ok = e.Popup()
		assert.False(t, ok)
		assert.Equal(t, Targeting, e.State())
	})

	t.Run("click with nothing hovered", func(t *testing.T) {
		require.NoError(t, e.Update(0, Input{Hover: &CardRef{Owner: player.HumanID, Index: 1}}))
		require.NoError(t, e.Update(0, Input{Click: true}))
		assert.Equal(t, Targeting, e.State())
		assert.Zero(t, e.Human().Trinket(class).Cooldown)
		assert.Equal(t, card.Override{}, e.Human().Hand.Cards[1].Override)
	})

	t.Run("valid target", func(t *testing.T) {
		require.NoError(t, e.Update(0, Input{Hover: &CardRef{Owner: player.HumanID, Index: 1}, Click: true}))
		assert.Equal(t, PlayerTurn, e.State())
		in := e.Human().Trinket(class)
		assert.Equal(t, 3, in.Cooldown)
		assert.Equal(t, 10, e.Human().Hand.Cards[1].Override.Value)
		assert.Equal(t, 21, e.Human().Hand.Score())
	})

	t.Run("cooldown blocks reuse", func(t *testing.T) {
		assert.ErrorIs(t, do(e, UseTrinket{Slot: class}), ErrInvalidInput)
		assert.Equal(t, PlayerTurn, e.State())
	})

	t.Run("cooldown ticks at round end", func(t *testing.T) {
		require.NoError(t, do(e, Stand{}))
		wait(e, 5)
		require.Equal(t, RoundEnd, e.State())
		assert.Equal(t, 2, e.Human().Trinket(class).Cooldown)
	})
}

// maxBet is the largest enabled bet option.
func maxBet(t *testing.T, e *Engine) int {
	t.Helper()
	best := 0
	for _, o := range e.View().BetOptions {
		if o.Enabled && o.Amount > best {
			best = o.Amount
		}
	}
	require.Positive(t, best)
	return best
}

func blackjack(t *testing.T, e *Engine) {
	t.Helper()
	deal(t, e, maxBet(t, e), "AS", "9H", "KS", "7C")
	wait(e, 1)
}

func TestActCompletion(t *testing.T) {
	e := newEngine(t, nil, func(c *config.Config) { c.Act = "short" })
	require.Equal(t, Betting, e.State())

	blackjack(t, e)
	require.Equal(t, CombatVictory, e.State())
	assert.True(t, e.Enemy().Defeated)

	wait(e, e.cfg.VictorySeconds)
	require.Equal(t, TrinketDrop, e.State())
	drop := e.View().Drop
	require.NotNil(t, drop)
	chips := e.Human().Chips
	require.NoError(t, do(e, Sell{}))
	assert.Equal(t, chips+drop.SellValue, e.Human().Chips)

	require.Equal(t, RewardScreen, e.State())
	require.NoError(t, do(e, Continue{}))
	require.Equal(t, EventPreview, e.State())
	require.NoError(t, do(e, Continue{}))
	require.Equal(t, EventScreen, e.State())
	last := len(e.View().Event.Choices) - 1
	require.NoError(t, do(e, Choose{Index: last}))
	require.NoError(t, do(e, Continue{}))

	require.Equal(t, CombatPreview, e.State())
	require.NoError(t, e.Update(0, Input{Confirm: true}))
	require.Equal(t, Betting, e.State())
	assert.Equal(t, "daemon", e.Enemy().Key)

	blackjack(t, e)
	require.Equal(t, RoundEnd, e.State())
	wait(e, e.cfg.RoundEndSeconds)
	blackjack(t, e)
	require.Equal(t, CombatVictory, e.State())

	wait(e, e.cfg.VictorySeconds)
	require.NoError(t, do(e, Equip{Slot: player.Slot(0)}))
	assert.NotNil(t, e.Human().Trinket(player.Slot(0)))
	require.Equal(t, RewardScreen, e.State())
	reward := e.View().Reward
	require.NotNil(t, reward)
	offered := reward.Cards
	require.NotEmpty(t, offered)
	e.Intents()
	require.NoError(t, do(e, TagCard{Card: cards(offered[0])[0]}))

	assert.Equal(t, Menu, e.State())
	assert.Contains(t, e.Intents(), Intent(RunComplete{Victory: true}))
	assert.Equal(t, 2, e.Stats().EnemiesDefeated)
	assert.Equal(t, 3, e.Stats().EncountersCleared)
	tag, err := card.ParseTag(reward.Tag)
	require.NoError(t, err)
	assert.True(t, e.Tags().Has(cards(offered[0])[0], tag))
}

func TestWardedCharmBlocksStatus(t *testing.T) {
	e := newEngine(t, nil, nil)
	c := e.Content()
	in := trinket.NewInstance(c.Trinkets["warded_charm"], 1)
	_, err := e.Human().Equip(player.Slot(0), in)
	require.NoError(t, err)
	require.NoError(t, do(e, Continue{}))
	require.Equal(t, 2, in.DebuffBlocks, "charged at combat start")

	deal(t, e, 10, "10H", "10S", "7D", "9C")
	require.NoError(t, do(e, Stand{}))
	wait(e, 5)
	assert.False(t, e.Human().Status.Has(status.ChipDrain))
	assert.Equal(t, 1, in.DebuffBlocks)
	assert.Equal(t, 1, in.Tracked[trinket.TrackDebuffsBlocked])
}
