package engine

import (
	"errors"
	"slices"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/act"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/narrative"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// dropTier is the trinket tier rolled for each encounter kind.
var dropTier = map[act.Kind]int{act.Normal: 1, act.Elite: 2, act.Boss: 3}

// routeEncounter enters the screen for the act's current encounter.
func (e *Engine) routeEncounter() {
	enc, ok := e.act.Current()
	if !ok {
		e.complete()
		return
	}
	switch enc.Kind {
	case act.Normal:
		e.spawn(enc.Enemy)
	case act.Elite, act.Boss:
		e.enter(&combatPreviewPhase{remaining: e.cfg.PreviewSeconds, enemy: enc.Enemy})
	case act.Event:
		e.previewEvent(enc)
	}
}

// spawn starts a combat against key, scaled by a pending HP multiplier.
func (e *Engine) spawn(key string) {
	en, err := e.content.NewEnemy(key, e.hpMultiplier)
	e.hpMultiplier = 0
	if err != nil {
		e.breach("spawn %s: %v", key, err)
		e.advance()
		return
	}
	e.clearHands()
	e.deck.Reshuffle()
	e.enemy = en

	h := e.Human()
	for _, in := range h.Trinkets() {
		in.ResetCombat()
		e.applyTrinket(in, in.OnEvent(ability.CombatStart, e.trinketContext(0)), nil)
	}
	h.Invalidate()

	e.emit(EnemySpawned{Key: en.Key, Name: en.Name, MaxHP: en.MaxHP})
	e.say("%s appears (%d HP)", en.Name, en.MaxHP)
	e.raise(ability.Event{Kind: ability.CombatStart})
	e.flush()
	e.enter(&bettingPhase{})
}

func (e *Engine) previewEvent(enc act.Encounter) {
	var ev *narrative.Event
	if enc.EventID != "" {
		if tmpl, ok := e.content.Events[enc.EventID]; ok {
			ev = tmpl.Clone()
		}
	}
	if ev == nil {
		picked, err := e.act.Pool.Pick(e.rng)
		if err != nil {
			e.logger.Printf("warn: %v: %v, skipping event", ErrPoolExhausted, err)
			e.advance()
			return
		}
		ev = picked
	}
	e.enter(&eventPreviewPhase{remaining: e.cfg.PreviewSeconds, event: ev})
}

// reroll pays the doubling cost and swaps the previewed event. With no
// other event to offer the current one is kept.
func (e *Engine) reroll(p *eventPreviewPhase) error {
	cost := narrative.RerollCost(e.cfg.RerollBaseCost, p.rerolls)
	h := e.Human()
	if h.Chips < cost {
		return e.refuse("reroll costs %d chips", cost)
	}
	h.LoseChips(cost)
	e.emitChips(-cost)
	p.rerolls++
	e.stats.Rerolls++

	next, err := e.act.Pool.PickDifferent(e.rng, p.event.ID)
	switch {
	case errors.Is(err, narrative.ErrPoolEmpty):
		e.logger.Printf("warn: %v, keeping %s", ErrPoolExhausted, p.event.ID)
	case err != nil:
		e.breach("reroll: %v", err)
	default:
		p.event = next
	}
	p.remaining = e.cfg.PreviewSeconds
	e.say("Rerolled for %d chips: %s", cost, p.event.Title)
	return nil
}

// RerollCost is the price of the next reroll on the event preview.
func (e *Engine) RerollCost() int {
	k := 0
	if p, ok := e.phase.(*eventPreviewPhase); ok {
		k = p.rerolls
	}
	return narrative.RerollCost(e.cfg.RerollBaseCost, k)
}

func (e *Engine) choose(p *eventPhase, i int) error {
	if p.choice != nil {
		return e.refuse("%v", narrative.ErrResolved)
	}
	vars := e.context(0).Vars()
	ch, err := p.event.Select(i, func(c narrative.Choice) bool {
		return c.Requires != "" && !e.guard.Allow(c.Requires, vars)
	})
	if err != nil {
		return e.refuse("%v", err)
	}
	e.applyChoice(ch)
	p.choice = &ch
	if ch.Result != "" {
		e.say("%s", ch.Result)
	}
	return nil
}

// ChoiceLocked reports whether the guard of an event choice fails now.
func (e *Engine) ChoiceLocked(c narrative.Choice) bool {
	return c.Requires != "" && !e.guard.Allow(c.Requires, e.context(0).Vars())
}

// applyChoice applies every consequence of a choice together.
func (e *Engine) applyChoice(ch narrative.Choice) {
	h := e.Human()
	switch {
	case ch.Chips > 0:
		h.Win(ch.Chips)
		e.emitChips(ch.Chips)
	case ch.Chips < 0:
		e.emitChips(-h.LoseChips(-ch.Chips))
	}
	if ch.Sanity != 0 {
		h.ModifySanity(ch.Sanity)
	}
	for _, tag := range ch.Tags {
		for _, id := range e.tagRandom(tag, 1) {
			e.say("%s is now %s", id, tag)
		}
	}
	if ch.Status != status.None {
		h.ApplyStatus(ch.Status, ch.StatusValue, ch.StatusDuration)
	}
	if ch.Trinket != "" {
		if tmpl, ok := e.content.Trinkets[ch.Trinket]; ok {
			e.grant(trinket.NewInstance(tmpl, 1))
		}
	}
	if ch.EnemyHPMultiplier > 0 {
		e.hpMultiplier = ch.EnemyHPMultiplier
	}
}

// grant equips a trinket into the first free slot, selling it when the
// slots are full.
func (e *Engine) grant(in *trinket.Instance) {
	h := e.Human()
	slot, ok := h.FreeSlot()
	if !ok {
		h.Win(in.SellValue)
		e.emitChips(in.SellValue)
		e.say("No room for %s, sold for %d", in.Name(), in.SellValue)
		return
	}
	if _, err := h.Equip(slot, in); err != nil {
		e.breach("grant %s: %v", in.Name(), err)
		return
	}
	e.applyTrinket(in, in.OnEquip(), nil)
	e.say("%s equipped in slot %s", in.Name(), slot)
}

func (e *Engine) victory() {
	e.stats.EnemiesDefeated++
	e.clearHands()
	e.Human().Status.Clear()
	e.Human().Invalidate()
	e.enter(&victoryPhase{remaining: e.cfg.VictorySeconds})
}

// offerDrop rolls the trinket reward of the finished combat.
func (e *Engine) offerDrop() {
	enc, _ := e.act.Current()
	tier := dropTier[enc.Kind]
	if tier == 0 {
		tier = 1
	}
	in, err := e.dropper.Roll(strings.ToLower(enc.Kind.String()), tier, e.rng)
	if err != nil {
		e.logger.Printf("warn: no trinket drop: %v", err)
		e.offerReward()
		return
	}
	e.say("%s drops %s (%s)", e.enemyName(), in.Name(), in.Rarity)
	e.enter(&dropPhase{offer: in})
}

func (e *Engine) enemyName() string {
	if e.enemy == nil {
		return "The enemy"
	}
	return e.enemy.Name
}

func (e *Engine) equipDrop(p *dropPhase, c Equip) error {
	if c.Slot.Class {
		return e.refuse("the class slot is reserved")
	}
	h := e.Human()
	prev, err := h.Equip(c.Slot, p.offer)
	if err != nil {
		return e.refuse("%v", err)
	}
	if prev != nil {
		e.say("%s replaces %s", p.offer.Name(), prev.Name())
	}
	e.applyTrinket(p.offer, p.offer.OnEquip(), nil)
	e.offerReward()
	return nil
}

func (e *Engine) sellDrop(p *dropPhase) error {
	e.Human().Win(p.offer.SellValue)
	e.emitChips(p.offer.SellValue)
	e.say("Sold %s for %d chips", p.offer.Name(), p.offer.SellValue)
	e.offerReward()
	return nil
}

// offerReward picks a tag and a few untagged cards to put it on.
func (e *Engine) offerReward() {
	var tags []card.Tag
	for _, t := range card.AllTags() {
		if _, ok := e.content.Tags[t]; ok {
			tags = append(tags, t)
		}
	}
	untagged := e.tags.Untagged()
	if len(tags) == 0 || len(untagged) == 0 {
		e.advance()
		return
	}
	tag := tags[e.rng.IntN(len(tags))]
	e.enter(&rewardPhase{tag: tag, offers: e.sample(untagged, e.cfg.RewardOfferCount)})
}

func (e *Engine) tagReward(p *rewardPhase, id card.ID) error {
	if !slices.Contains(p.offers, id) {
		return e.refuse("%s is not on offer", id)
	}
	e.tags.Add(id, p.tag)
	e.say("%s is now %s", id, p.tag)
	e.advance()
	return nil
}

// advance leaves the current encounter and routes to the next one.
func (e *Engine) advance() {
	e.stats.EncountersCleared++
	e.enemy = nil
	e.queue = nil
	e.act.Advance()
	e.routeEncounter()
}

// complete ends a finished act and returns to the menu.
func (e *Engine) complete() {
	e.clearHands()
	e.say("%s complete", e.act.Name)
	e.enter(&menuPhase{})
	e.emit(RunComplete{Victory: true})
}
