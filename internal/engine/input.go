package engine

import (
	"fmt"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
)

// CardRef points at a card in a seated player's hand.
type CardRef struct {
	Owner player.ID `json:"owner"`
	Index int       `json:"index"`
}

// Input is everything sampled for one frame. Pointer fields and Command are
// optional; a zero Input only advances time.
type Input struct {
	Command    Command
	// Hover is the card under the pointer this frame; nil means none.
	Hover      *CardRef
	Click      bool
	RightClick bool
	Escape     bool
	Confirm    bool
}

// Command is a discrete player intention. Its String form is the console
// line that produces it.
type Command interface {
	fmt.Stringer
	command()
}

type Bet struct{ Amount int }

type Hit struct{}

type Stand struct{}

type Double struct{}

// UseTrinket activates the trinket in Slot.
type UseTrinket struct{ Slot player.SlotRef }

// TargetCard picks a card while targeting. It is the console form of
// hovering a card and clicking it.
type TargetCard struct{ Card card.ID }

type Cancel struct{}

// Continue skips a timer or leaves an informational screen.
type Continue struct{}

type Reroll struct{}

// Choose selects an event choice by zero-based index.
type Choose struct{ Index int }

// Equip puts the offered trinket into Slot.
type Equip struct{ Slot player.SlotRef }

// Sell converts the offered trinket into chips.
type Sell struct{}

// TagCard applies the reward tag to an offered card.
type TagCard struct{ Card card.ID }

// NewRun starts over from the menu or the game-over screen.
type NewRun struct{}

// StackDeck puts cards on top of the draw pile, first card drawn first.
type StackDeck struct{ Cards []card.ID }

func (Bet) command()        {}
func (Hit) command()        {}
func (Stand) command()      {}
func (Double) command()     {}
func (UseTrinket) command() {}
func (TargetCard) command() {}
func (Cancel) command()     {}
func (Continue) command()   {}
func (Reroll) command()     {}
func (Choose) command()     {}
func (Equip) command()      {}
func (Sell) command()       {}
func (TagCard) command()    {}
func (NewRun) command()     {}
func (StackDeck) command()  {}

func (c Bet) String() string        { return fmt.Sprintf("bet %d", c.Amount) }
func (Hit) String() string          { return "hit" }
func (Stand) String() string        { return "stand" }
func (Double) String() string       { return "double" }
func (c UseTrinket) String() string { return "use " + c.Slot.String() }
func (c TargetCard) String() string { return "target " + c.Card.Code() }
func (Cancel) String() string       { return "cancel" }
func (Continue) String() string     { return "continue" }
func (Reroll) String() string       { return "reroll" }
func (c Choose) String() string     { return fmt.Sprintf("choose %d", c.Index+1) }
func (c Equip) String() string      { return "equip " + c.Slot.String() }
func (Sell) String() string         { return "sell" }
func (c TagCard) String() string    { return "tag " + c.Card.Code() }
func (NewRun) String() string       { return "new" }

func (c StackDeck) String() string {
	codes := make([]string, len(c.Cards))
	for i, id := range c.Cards {
		codes[i] = id.Code()
	}
	return "stack " + strings.Join(codes, " ")
}
