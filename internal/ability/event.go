package ability

import (
	"fmt"
	"strings"
)

// EventKind is a game event published on the ability bus.
type EventKind int

const (
	CombatStart EventKind = iota
	HandEnd
	PlayerWin
	PlayerLoss
	PlayerPush
	PlayerBust
	PlayerBlackjack
	DealerBust
	CardDrawn
	PlayerActionEnd
	CardTagCursed
	CardTagVampiric
	EnemyHit
	EnemyHeal
)

var eventNames = [...]string{
	"COMBAT_START",
	"HAND_END",
	"PLAYER_WIN",
	"PLAYER_LOSS",
	"PLAYER_PUSH",
	"PLAYER_BUST",
	"PLAYER_BLACKJACK",
	"DEALER_BUST",
	"CARD_DRAWN",
	"PLAYER_ACTION_END",
	"CARD_TAG_CURSED",
	"CARD_TAG_VAMPIRIC",
	"ENEMY_DAMAGED",
	"ENEMY_HEAL",
}

func (e EventKind) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "UNKNOWN"
	}
	return eventNames[e]
}

// ParseEvent reads an event name, case-insensitive.
func ParseEvent(s string) (EventKind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range eventNames {
		if n == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown game event %q", s)
}

// Action is a player action in PLAYER_TURN.
type Action int

const (
	NoAction Action = iota
	Hit
	Stand
	Double
)

var actionNames = [...]string{"NONE", "HIT", "STAND", "DOUBLE"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "NONE"
	}
	return actionNames[a]
}

// ParseAction reads "hit", "stand" or "double".
func ParseAction(s string) (Action, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range actionNames[1:] {
		if n == s {
			return Action(i + 1), nil
		}
	}
	return NoAction, fmt.Errorf("unknown player action %q", s)
}

// Event is one publication on the bus. Action is set for PLAYER_ACTION_END.
type Event struct {
	Kind   EventKind
	Action Action
}

func (e Event) String() string {
	if e.Action != NoAction {
		return fmt.Sprintf("%s(%s)", e.Kind, e.Action)
	}
	return e.Kind.String()
}
