package engine

import (
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/rules"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// context gathers the guard variables for the current moment.
func (e *Engine) context(handBefore int) rules.Context {
	h := e.Human()
	c := rules.Context{
		Chips:         h.Chips,
		Bet:           h.Bet,
		Sanity:        h.Sanity,
		SanityPercent: h.SanityPercent(),
		Hand:          h.Hand.Score(),
		HandBefore:    handBefore,
		Round:         e.round,
		Class:         h.Class.String(),
		Tier:          h.Tier().String(),
	}
	if e.enemy != nil {
		c.HP, c.MaxHP, c.TotalDamage = e.enemy.HP, e.enemy.MaxHP, e.enemy.TotalDamage
	}
	if d := e.Dealer(); d != nil {
		for _, in := range d.Hand.Cards {
			if in.FaceUp {
				c.DealerUpcard = in.ID.Rank().Value()
				break
			}
		}
	}
	for _, s := range h.Status.Active() {
		c.Statuses = append(c.Statuses, s.Kind.String())
	}
	for _, in := range h.Hand.Cards {
		for _, t := range e.tags.Tags(in.ID) {
			c.Tags = append(c.Tags, t.String())
		}
	}
	return c
}

func (e *Engine) trinketContext(handBefore int) trinket.Context {
	return trinket.Context{Bet: e.Human().Bet, Guard: e.guard, Vars: e.context(handBefore).Vars()}
}

// trinketsOnDraw runs the CARD_DRAWN passives for a card the player drew
// by hitting or doubling.
func (e *Engine) trinketsOnDraw(handBefore int) {
	for _, in := range e.Human().Trinkets() {
		e.applyTrinket(in, in.OnEvent(ability.CardDrawn, e.trinketContext(handBefore)), nil)
	}
}

// applyTrinket applies passive records. During a resolution chip changes
// fold into the round result and damage waits for the hand damage.
func (e *Engine) applyTrinket(in *trinket.Instance, recs []trinket.Record, r *resolution) {
	h := e.Human()
	for _, rec := range recs {
		switch rec := rec.(type) {
		case trinket.ChipsDelta:
			if r != nil {
				r.delta += rec.Amount
				continue
			}
			if rec.Amount > 0 {
				h.Win(rec.Amount)
				e.emitChips(rec.Amount)
			} else {
				e.emitChips(-h.LoseChips(-rec.Amount))
			}
		case trinket.StatusGrant:
			h.ApplyStatus(rec.Kind, rec.Value, rec.Duration)
			e.say("%s grants %s", in.Name(), rec.Kind)
		case trinket.StatusClear:
			if h.RemoveStatus(rec.Kind) {
				e.say("%s clears %s", in.Name(), rec.Kind)
			}
		case trinket.Damage:
			if e.enemy == nil {
				continue
			}
			if r != nil {
				r.damage = append(r.damage, rec.Base)
				continue
			}
			amount, crit := e.playerDamage(rec.Base)
			in.Track(trinket.TrackDamageDealt, e.damageEnemy(amount, SourceTrinket, crit))
		case trinket.TagCards:
			for _, id := range e.tagRandom(rec.Tag, rec.Count) {
				e.say("%s marks %s as %s", in.Name(), id, rec.Tag)
			}
		case trinket.Restat:
			h.Invalidate()
		}
	}
}

// tagBonuses sums the passive tag bonuses of every face-up card in play.
func (e *Engine) tagBonuses() (flat, pct, crit int) {
	for _, p := range e.seats.All() {
		for _, c := range p.Hand.Cards {
			if !c.FaceUp {
				continue
			}
			for _, t := range e.tags.Tags(c.ID) {
				rule := e.content.Tags[t]
				flat += rule.FlatDamage
				pct += rule.DamagePercent
				crit += rule.CritPercent
			}
		}
	}
	return flat, pct, crit
}

// playerDamage applies the player's damage modifiers to base:
// (base + flat) * (100 + percent) / 100, then a crit roll.
func (e *Engine) playerDamage(base int) (int, bool) {
	st := e.Human().Stats()
	flat, pct, crit := e.tagBonuses()
	flat += st.DamageFlat
	pct += st.DamagePercent
	crit += st.CritChance

	dmg := (base + flat) * (100 + pct) / 100
	if dmg < 0 {
		dmg = 0
	}
	if crit > 0 && e.rng.IntN(100) < crit {
		return dmg * (150 + st.CritBonus) / 100, true
	}
	return dmg, false
}

// damageEnemy deals amount to the enemy, credits source and raises
// ENEMY_DAMAGED. It returns the damage applied.
func (e *Engine) damageEnemy(amount int, source string, crit bool) int {
	if e.enemy == nil || amount <= 0 {
		return 0
	}
	dealt := e.enemy.TakeDamage(amount)
	if dealt == 0 {
		return 0
	}
	e.stats.credit(source, dealt)
	e.emit(DamageNumber{Amount: dealt, Crit: crit, Source: source})
	if crit {
		e.stats.Crits++
		e.emit(ScreenShake{Intensity: 1})
	}
	e.logger.Printf("%s takes %d %s damage (%d/%d)", e.enemy.Name, dealt, source, e.enemy.HP, e.enemy.MaxHP)
	e.raise(ability.Event{Kind: ability.EnemyHit})
	if e.enemy.Defeated {
		e.say("%s is defeated", e.enemy.Name)
	}
	return dealt
}

// tagDraw runs the on-draw effects of a card that just became visible.
// They only apply in combat.
func (e *Engine) tagDraw(id card.ID) {
	if e.enemy == nil {
		return
	}
	h := e.Human()
	for _, tag := range e.tags.Tags(id) {
		rule := e.content.Tags[tag]
		if dmg := rule.DrawDamage; dmg > 0 {
			for _, in := range h.Trinkets() {
				dmg += in.TagBuff(tag)
			}
			e.damageEnemy(dmg, SourceTag, false)
		}
		if rule.DrawChips > 0 {
			h.Win(rule.DrawChips)
			e.emitChips(rule.DrawChips)
		}
		switch tag {
		case card.Cursed:
			e.raise(ability.Event{Kind: ability.CardTagCursed})
		case card.Vampiric:
			e.raise(ability.Event{Kind: ability.CardTagVampiric})
		}
	}
}

// tagRandom tags up to n random untagged cards and returns them.
func (e *Engine) tagRandom(tag card.Tag, n int) []card.ID {
	picked := e.sample(e.tags.Untagged(), n)
	for _, id := range picked {
		e.tags.Add(id, tag)
	}
	return picked
}

// sample draws up to n distinct ids with a partial Fisher-Yates shuffle.
func (e *Engine) sample(ids []card.ID, n int) []card.ID {
	pool := append([]card.ID(nil), ids...)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + e.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
