package parser

import (
	"fmt"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
)

// Line is one console command.
type Line struct {
	Bet    *BetCmd    `parser:"( @@"`
	Use    *UseCmd    `parser:"| @@"`
	Target *TargetCmd `parser:"| @@"`
	Choose *ChooseCmd `parser:"| @@"`
	Equip  *EquipCmd  `parser:"| @@"`
	Tag    *TagCmd    `parser:"| @@"`
	Stack  *StackCmd  `parser:"| @@"`
	Word   *WordCmd   `parser:"| @@ )"`
}

// BetCmd places one of the offered bets: "bet 50".
type BetCmd struct {
	Keyword string `parser:"@\"bet\""`
	Amount  int    `parser:"@Int"`
}

// UseCmd activates a trinket: "use class" or "use 2".
type UseCmd struct {
	Keyword string `parser:"@\"use\""`
	Slot    string `parser:"@(\"class\" | Int)"`
}

// TargetCmd picks the card for a pending active: "target 3D".
type TargetCmd struct {
	Keyword string `parser:"@\"target\""`
	Card    string `parser:"@Card"`
}

// ChooseCmd picks an event choice, 1-based: "choose 2".
type ChooseCmd struct {
	Keyword string `parser:"@\"choose\""`
	Index   int    `parser:"@Int"`
}

// EquipCmd puts the dropped trinket in a slot: "equip 3".
type EquipCmd struct {
	Keyword string `parser:"@\"equip\""`
	Slot    string `parser:"@Int"`
}

// TagCmd picks the reward card: "tag 7H".
type TagCmd struct {
	Keyword string `parser:"@\"tag\""`
	Card    string `parser:"@Card"`
}

// StackCmd forces the next cards off the deck: "stack 8D 8S 5C".
type StackCmd struct {
	Keyword string   `parser:"@\"stack\""`
	Cards   []string `parser:"@Card+"`
}

// WordCmd covers the commands without arguments.
type WordCmd struct {
	Keyword string `parser:"@(\"hit\" | \"stand\" | \"double\" | \"cancel\" | \"continue\" | \"reroll\" | \"sell\" | \"new\" | \"help\")"`
}

// IsHelp reports whether the line asks for the command list.
func (l *Line) IsHelp() bool {
	return l.Word != nil && strings.EqualFold(l.Word.Keyword, "help")
}

// Command converts the parsed line into an engine command.
func (l *Line) Command() (engine.Command, error) {
	switch {
	case l.Bet != nil:
		return engine.Bet{Amount: l.Bet.Amount}, nil
	case l.Use != nil:
		slot, err := player.ParseSlot(l.Use.Slot)
		if err != nil {
			return nil, err
		}
		return engine.UseTrinket{Slot: slot}, nil
	case l.Target != nil:
		id, err := card.Parse(l.Target.Card)
		if err != nil {
			return nil, err
		}
		return engine.TargetCard{Card: id}, nil
	case l.Choose != nil:
		if l.Choose.Index < 1 {
			return nil, fmt.Errorf("choices are numbered from 1")
		}
		return engine.Choose{Index: l.Choose.Index - 1}, nil
	case l.Equip != nil:
		slot, err := player.ParseSlot(l.Equip.Slot)
		if err != nil {
			return nil, err
		}
		return engine.Equip{Slot: slot}, nil
	case l.Tag != nil:
		id, err := card.Parse(l.Tag.Card)
		if err != nil {
			return nil, err
		}
		return engine.TagCard{Card: id}, nil
	case l.Stack != nil:
		ids := make([]card.ID, 0, len(l.Stack.Cards))
		for _, c := range l.Stack.Cards {
			id, err := card.Parse(c)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return engine.StackDeck{Cards: ids}, nil
	case l.Word != nil:
		switch strings.ToLower(l.Word.Keyword) {
		case "hit":
			return engine.Hit{}, nil
		case "stand":
			return engine.Stand{}, nil
		case "double":
			return engine.Double{}, nil
		case "cancel":
			return engine.Cancel{}, nil
		case "continue":
			return engine.Continue{}, nil
		case "reroll":
			return engine.Reroll{}, nil
		case "sell":
			return engine.Sell{}, nil
		case "new":
			return engine.NewRun{}, nil
		}
	}
	return nil, fmt.Errorf("not a game command")
}

// Parse reads a console line, mapping grammar errors to usage guidance.
func Parse(input string) (*Line, error) {
	line, err := console().ParseString("", input)
	if err != nil {
		return nil, MapError(input, err)
	}
	return line, nil
}
