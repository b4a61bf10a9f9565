package engine

import (
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
)

// Outcome is the result of a resolved round from the player's side.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomePush
	OutcomeWin
	OutcomeBlackjack
)

var outcomeNames = [...]string{"LOSS", "PUSH", "WIN", "BLACKJACK"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "UNKNOWN"
	}
	return outcomeNames[o]
}

func (o Outcome) status() status.Outcome {
	switch o {
	case OutcomeWin, OutcomeBlackjack:
		return status.Win
	case OutcomePush:
		return status.Push
	}
	return status.Loss
}

// resolution accumulates the hooks' contributions to a round result.
type resolution struct {
	outcome Outcome
	bet     int
	delta   int   // net chips relative to the stake
	damage  []int // trinket damage, applied after the hand damage
}

// placeBet checks the amount against the sanity-adjusted bet options and
// commits it.
func (e *Engine) placeBet(amount int) error {
	h := e.Human()
	opts := h.BetOptions(e.cfg.Bets())
	var labels []string
	for _, o := range opts {
		if o.Base != amount && o.Amount != amount {
			if o.Enabled {
				labels = append(labels, o.Label())
			}
			continue
		}
		if !o.Enabled {
			return e.refuse("%s is locked at %s sanity", o.Label(), h.Tier())
		}
		committed, err := h.PlaceBet(o.Amount)
		if err != nil {
			return e.refuse("%v", err)
		}
		e.commitRound(committed)
		return nil
	}
	if len(labels) == 0 {
		return e.refuse("no bet is available")
	}
	return e.refuse("choose %s", strings.Join(labels, ", "))
}

func (e *Engine) commitRound(bet int) {
	e.round++
	e.stats.Rounds++
	e.emitChips(-bet)
	e.logger.Printf("round %d: bet %d", e.round, bet)

	if t := e.cfg.ReshuffleThreshold; t > 0 && e.deck.DrawCount() < t {
		e.deck.Reshuffle()
		e.say("The shoe is reshuffled.")
	}

	e.enter(&dealPhase{remaining: e.cfg.DealSeconds})
	h, d := e.Human(), e.Dealer()
	e.drawTo(h, true)
	e.drawTo(d, false)
	e.drawTo(h, true)
	e.drawTo(d, true)
}

// drawTo deals the top card into p's hand and raises the draw hooks.
func (e *Engine) drawTo(p *player.Player, faceUp bool) (card.ID, bool) {
	id, ok := e.deck.Draw()
	if !ok {
		e.breach("draw with every card out")
		return 0, false
	}
	p.Hand.Add(id, faceUp)
	e.emit(CardDealt{Owner: p.ID, Card: id, FaceUp: faceUp})
	if faceUp {
		e.tagDraw(id)
	}
	e.raise(ability.Event{Kind: ability.CardDrawn})
	return id, true
}

func (e *Engine) afterDeal() {
	if e.Human().Hand.Natural() || e.Dealer().Hand.Natural() {
		e.toDealer()
		return
	}
	e.enter(&playerTurnPhase{})
}

func (e *Engine) hit() error {
	h := e.Human()
	before := h.Hand.Score()
	if _, ok := e.drawTo(h, true); !ok {
		return nil
	}
	e.trinketsOnDraw(before)
	e.raise(ability.Event{Kind: ability.PlayerActionEnd, Action: ability.Hit})
	e.flush()
	if h.Hand.Busted() {
		e.toDealer()
	}
	return nil
}

func (e *Engine) stand() error {
	e.Human().Hand.Stood = true
	e.raise(ability.Event{Kind: ability.PlayerActionEnd, Action: ability.Stand})
	e.flush()
	e.toDealer()
	return nil
}

// double is legal on the opening two cards when the stake can be matched.
func (e *Engine) double() error {
	h := e.Human()
	switch {
	case h.Hand.Doubled:
		return e.refuse("already doubled")
	case h.Hand.Len() != 2:
		return e.refuse("double only on your first two cards")
	}
	bet := h.Bet
	if err := h.RaiseBet(bet); err != nil {
		return e.refuse("need %d more chips to double", bet)
	}
	e.emitChips(-bet)
	h.Hand.Doubled = true
	before := h.Hand.Score()
	e.drawTo(h, true)
	e.trinketsOnDraw(before)
	h.Hand.Stood = true
	e.raise(ability.Event{Kind: ability.PlayerActionEnd, Action: ability.Double})
	e.flush()
	e.toDealer()
	return nil
}

// toDealer flips the hole card and hands the round to the dealer.
func (e *Engine) toDealer() {
	e.enter(&dealerTurnPhase{remaining: e.cfg.DealerStepSeconds})
	d := e.Dealer()
	for _, id := range d.Hand.RevealAll() {
		e.emit(CardRevealed{Owner: d.ID, Card: id})
		e.tagDraw(id)
	}
	e.flush()
}

// dealerStep draws one dealer card or resolves the round. The dealer does
// not draw against a bust or a natural.
func (e *Engine) dealerStep() {
	h, d := e.Human(), e.Dealer()
	if h.Hand.Busted() || h.Hand.Natural() || d.Hand.Natural() || d.Hand.Score() >= e.cfg.DealerStandsOn {
		e.resolve()
		return
	}
	e.drawTo(d, true)
	e.flush()
}

func (e *Engine) outcome() (o Outcome, bust, dealerBust bool) {
	h, d := e.Human(), e.Dealer()
	ps, ds := h.Hand.Score(), d.Hand.Score()
	bust = h.Hand.Busted()
	dealerBust = !bust && d.Hand.Busted()
	switch {
	case bust:
		o = OutcomeLoss
	case h.Hand.Natural() && d.Hand.Natural():
		o = OutcomePush
	case h.Hand.Natural():
		o = OutcomeBlackjack
	case d.Hand.Natural():
		o = OutcomeLoss
	case dealerBust, ps > ds:
		o = OutcomeWin
	case ps < ds:
		o = OutcomeLoss
	default:
		o = OutcomePush
	}
	return o, bust, dealerBust
}

// outcomeEvents lists the bus events of a result: the special case first,
// then the plain result.
func outcomeEvents(o Outcome, bust, dealerBust bool) []ability.EventKind {
	var kinds []ability.EventKind
	switch {
	case o == OutcomeBlackjack:
		kinds = append(kinds, ability.PlayerBlackjack)
	case bust:
		kinds = append(kinds, ability.PlayerBust)
	case dealerBust:
		kinds = append(kinds, ability.DealerBust)
	}
	switch o {
	case OutcomeWin, OutcomeBlackjack:
		kinds = append(kinds, ability.PlayerWin)
	case OutcomeLoss:
		kinds = append(kinds, ability.PlayerLoss)
	default:
		kinds = append(kinds, ability.PlayerPush)
	}
	return kinds
}

// resolve settles the round: the chip result goes through the status,
// trinket and tag hooks before it is paid, then damage is dealt and the
// outcome events, HAND_END and the round-end ticks follow in that order.
func (e *Engine) resolve() {
	h := e.Human()
	o, bust, dealerBust := e.outcome()
	ps, ds := h.Hand.Score(), e.Dealer().Hand.Score()
	bet := h.Bet
	r := &resolution{outcome: o, bet: bet}
	switch o {
	case OutcomeWin:
		r.delta = bet
	case OutcomeBlackjack:
		r.delta = bet * 3 / 2
	case OutcomeLoss:
		r.delta = -bet
	}

	r.delta = h.Status.ModifyOutcome(o.status(), bet, r.delta)

	st := h.Stats()
	switch o {
	case OutcomeWin, OutcomeBlackjack:
		if r.delta > 0 {
			r.delta += r.delta * st.WinBonusPercent / 100
		}
		r.delta += st.FlatChipsOnWin
	case OutcomeLoss:
		r.delta += bet * st.LossRefundPercent / 100
	}
	kinds := outcomeEvents(o, bust, dealerBust)
	for _, k := range kinds {
		for _, in := range h.Trinkets() {
			e.applyTrinket(in, in.OnEvent(k, e.trinketContext(ps)), r)
		}
	}
	if o == OutcomeWin || o == OutcomeBlackjack {
		for _, c := range h.Hand.Cards {
			if !c.FaceUp {
				continue
			}
			for _, tag := range e.tags.Tags(c.ID) {
				r.delta += e.content.Tags[tag].WinChips
			}
		}
	}

	h.ClearBet()
	net := bet + r.delta
	if net > 0 {
		h.Win(net)
	} else if net < 0 {
		net = -h.LoseChips(-net)
	}
	e.emitChips(net)
	if o == OutcomeLoss && e.enemy != nil && e.enemy.Threat > 0 {
		if lost := h.LoseChips(e.enemy.Threat); lost > 0 {
			e.emitChips(-lost)
			e.say("%s takes %d more chips", e.enemy.Name, lost)
		}
	}

	if e.enemy != nil {
		st = h.Stats()
		base := 0
		switch o {
		case OutcomeWin:
			base = bet
		case OutcomeBlackjack:
			base = bet * 3 / 2
		case OutcomePush:
			base = bet * st.PushDamagePercent / 100
		}
		if base > 0 {
			amount, crit := e.playerDamage(base)
			e.damageEnemy(amount, SourceHand, crit)
		}
		for _, b := range r.damage {
			amount, crit := e.playerDamage(b)
			e.damageEnemy(amount, SourceTrinket, crit)
		}
	}

	switch o {
	case OutcomeWin:
		e.stats.HandsWon++
	case OutcomeBlackjack:
		e.stats.HandsWon++
		e.stats.Blackjacks++
	case OutcomeLoss:
		e.stats.HandsLost++
	default:
		e.stats.HandsPushed++
	}
	if bust {
		e.stats.Busts++
	}
	e.say("Round %d: %s (%d vs %d), chips %+d", e.round, o, ps, ds, bet+r.delta)

	for _, k := range kinds {
		e.raise(ability.Event{Kind: k})
	}
	e.flush()

	if e.enemy != nil {
		e.enemy.Bus.TickCooldowns()
	}
	e.raise(ability.Event{Kind: ability.HandEnd})
	e.flush()

	e.endRound()
}

// endRound runs the round-end ticks and routes to the next state.
func (e *Engine) endRound() {
	h := e.Human()
	if drain := h.Status.RoundEndDrain(h.Chips); drain > 0 {
		lost := h.LoseChips(drain)
		e.stats.ChipsDrained += lost
		e.emitChips(-lost)
		e.say("Chip drain takes %d chips", lost)
	}
	for _, k := range h.Status.Tick() {
		e.say("%s wears off", k)
	}
	for _, in := range h.Trinkets() {
		in.TickCooldown()
	}

	if e.enemy != nil && e.enemy.Defeated {
		e.victory()
		return
	}
	e.enter(&roundEndPhase{remaining: e.cfg.RoundEndSeconds})
}

func (e *Engine) nextRound() {
	e.clearHands()
	e.enter(&bettingPhase{})
}

// clearHands moves every card in play to the discard pile.
func (e *Engine) clearHands() {
	for _, p := range e.seats.All() {
		p.Hand.Clear(e.deck)
	}
}
