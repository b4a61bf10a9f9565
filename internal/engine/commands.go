package engine

import (
	"fmt"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
)

// handle routes one frame of input to the current state. A typed command
// takes the frame; pointer and key input is read only without one.
func (e *Engine) handle(in Input) error {
	if in.Command != nil {
		return e.command(in.Command)
	}

	switch p := e.phase.(type) {
	case *targetingPhase:
		switch {
		case in.RightClick || in.Escape:
			e.cancelTargeting()
		case in.Click && e.hover != nil:
			return e.target(p, *e.hover)
		}
	case *introPhase, *combatPreviewPhase, *eventPreviewPhase, *roundEndPhase, *victoryPhase:
		if in.Confirm {
			return e.proceed()
		}
	case *eventPhase:
		if in.Confirm && p.choice != nil {
			return e.proceed()
		}
	}
	return nil
}

func (e *Engine) wrongState(c Command) error {
	e.logger.Printf("warn: %q ignored during %s", c, e.State())
	e.emit(LogLine{Text: fmt.Sprintf("can't %s now", c)})
	return fmt.Errorf("%w: %q during %s", ErrInvalidInput, c, e.State())
}

func (e *Engine) command(c Command) error {
	switch c := c.(type) {
	case StackDeck:
		e.deck.Stack(c.Cards...)
		e.logger.Printf("debug: stacked %d cards", len(c.Cards))
		return nil
	case NewRun:
		if s := e.State(); s != Menu && s != GameOver {
			return e.wrongState(c)
		}
		return e.startRun()
	case Continue:
		return e.proceed()
	}

	switch p := e.phase.(type) {
	case *bettingPhase:
		if c, ok := c.(Bet); ok {
			return e.placeBet(c.Amount)
		}
	case *playerTurnPhase:
		switch c := c.(type) {
		case Hit:
			return e.hit()
		case Stand:
			return e.stand()
		case Double:
			return e.double()
		case UseTrinket:
			return e.useTrinket(c)
		}
	case *targetingPhase:
		switch c := c.(type) {
		case TargetCard:
			ref, ok := e.locate(c.Card)
			if !ok {
				return e.refuse("%s is not on the table", c.Card)
			}
			return e.target(p, ref)
		case Cancel:
			e.cancelTargeting()
			return nil
		}
	case *eventPreviewPhase:
		if _, ok := c.(Reroll); ok {
			return e.reroll(p)
		}
	case *eventPhase:
		if c, ok := c.(Choose); ok {
			return e.choose(p, c.Index)
		}
	case *dropPhase:
		switch c := c.(type) {
		case Equip:
			return e.equipDrop(p, c)
		case Sell:
			return e.sellDrop(p)
		}
	case *rewardPhase:
		if c, ok := c.(TagCard); ok {
			return e.tagReward(p, c.Card)
		}
	}
	return e.wrongState(c)
}

// proceed is Continue: it skips a timer or leaves an informational screen.
func (e *Engine) proceed() error {
	switch p := e.phase.(type) {
	case *introPhase:
		e.routeEncounter()
	case *combatPreviewPhase:
		e.spawn(p.enemy)
	case *eventPreviewPhase:
		e.enter(&eventPhase{event: p.event})
	case *roundEndPhase:
		e.nextRound()
	case *victoryPhase:
		e.offerDrop()
	case *rewardPhase:
		e.logger.Printf("reward skipped")
		e.advance()
	case *eventPhase:
		if p.choice == nil {
			return e.refuse("make a choice first")
		}
		e.advance()
	default:
		return e.wrongState(Continue{})
	}
	return nil
}

// locate finds a card in the seated hands, human first.
func (e *Engine) locate(id card.ID) (CardRef, bool) {
	for _, p := range []*player.Player{e.Human(), e.Dealer()} {
		for i, c := range p.Hand.Cards {
			if c.ID == id {
				return CardRef{Owner: p.ID, Index: i}, true
			}
		}
	}
	return CardRef{}, false
}
