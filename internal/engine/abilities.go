package engine

import (
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// raise queues an event for the enemy's ability bus.
func (e *Engine) raise(ev ability.Event) {
	e.queue = append(e.queue, ev)
}

// flush dispatches queued events in FIFO order. Records applied during a
// dispatch may queue further events; they are handled in the same flush
// up to maxChainDepth events, after which the rest is dropped.
func (e *Engine) flush() {
	processed := 0
	for len(e.queue) > 0 {
		ev := e.queue[0]
		e.queue = e.queue[1:]
		if processed == maxChainDepth {
			e.logger.Printf("error: ability chain exceeded %d events, dropping %d", maxChainDepth, len(e.queue)+1)
			e.queue = nil
			return
		}
		processed++
		e.dispatch(ev)
	}
}

func (e *Engine) dispatch(ev ability.Event) {
	if e.enemy == nil || e.enemy.Defeated {
		return
	}
	snap := e.enemy.Snapshot()
	snap.Rand = e.rng
	snap.Guard = e.guard
	snap.Vars = e.context(e.Human().Hand.Score()).Vars()
	snap.Vars["event"] = ev.Kind.String()

	for _, f := range e.enemy.Bus.Dispatch(ev, snap) {
		e.logger.Printf("%s: %s fires on %s", e.enemy.Name, f.Ability.Name, f.Event)
		for _, rec := range f.Records {
			e.applyRecord(f.Ability, rec)
		}
	}
}

// applyRecord carries out one effect record of a fired ability.
func (e *Engine) applyRecord(a *ability.Ability, rec ability.Record) {
	h := e.Human()
	switch rec := rec.(type) {
	case ability.StatusApplied:
		for _, in := range h.Trinkets() {
			if in.DebuffBlocks > 0 {
				in.DebuffBlocks--
				in.Track(trinket.TrackDebuffsBlocked, 1)
				e.say("%s wards off %s", in.Name(), rec.Kind)
				return
			}
		}
		h.ApplyStatus(rec.Kind, rec.Value, rec.Duration)
		e.say("%s: %s inflicts %s", e.enemy.Name, a.Name, rec.Kind)
	case ability.StatusRemoved:
		if h.RemoveStatus(rec.Kind) {
			e.say("%s: %s removes %s", e.enemy.Name, a.Name, rec.Kind)
		}
	case ability.EnemyHealed:
		healed := e.enemy.Heal(rec.Amount)
		if healed == 0 {
			return
		}
		e.emit(DamageNumber{Amount: healed, Heal: true, Source: SourceAbility})
		e.say("%s: %s heals %d", e.enemy.Name, a.Name, healed)
		e.raise(ability.Event{Kind: ability.EnemyHeal})
		for _, in := range h.Trinkets() {
			if in.HealPunishes > 0 {
				in.HealPunishes--
				in.Track(trinket.TrackHealDamage, e.damageEnemy(healed, SourceTrinket, false))
				break
			}
		}
	case ability.EnemyDamaged:
		e.damageEnemy(rec.Amount, SourceAbility, false)
	case ability.ChipsGained:
		h.Win(rec.Amount)
		e.emitChips(rec.Amount)
		e.say("%s: %s gives you %d chips", e.enemy.Name, a.Name, rec.Amount)
	case ability.ChipsLost:
		lost := h.LoseChips(rec.Amount)
		e.emitChips(-lost)
		e.say("%s: %s takes %d chips", e.enemy.Name, a.Name, lost)
	case ability.DeckShuffled:
		e.deck.Reshuffle()
		e.say("%s: %s shuffles the deck", e.enemy.Name, a.Name)
	case ability.HandDiscarded:
		for _, c := range h.Hand.Cards {
			e.deck.Discard(c.ID)
		}
		h.Hand.Cards = h.Hand.Cards[:0]
		e.say("%s: %s discards your hand", e.enemy.Name, a.Name)
	case ability.Announcement:
		e.say("%s: %s", e.enemy.Name, rec.Text)
	case ability.Reserved:
		e.logger.Printf("warn: %s: %s uses %s, which has no effect", e.enemy.Name, a.Name, rec.Type)
	default:
		e.breach("unknown ability record %T", rec)
	}
}
