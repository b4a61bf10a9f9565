package engine

import (
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/narrative"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// State is a node of the game flow.
type State int

const (
	Menu State = iota
	IntroNarrative
	CombatPreview
	EventPreview
	Betting
	Deal
	PlayerTurn
	Targeting
	DealerTurn
	RoundEnd
	CombatVictory
	TrinketDrop
	RewardScreen
	EventScreen
	GameOver
)

var stateNames = [...]string{
	"MENU",
	"INTRO_NARRATIVE",
	"COMBAT_PREVIEW",
	"EVENT_PREVIEW",
	"BETTING",
	"DEAL",
	"PLAYER_TURN",
	"TARGETING",
	"DEALER_TURN",
	"ROUND_END",
	"COMBAT_VICTORY",
	"TRINKET_DROP",
	"REWARD_SCREEN",
	"EVENT",
	"GAME_OVER",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// phase is the data carried by the current state. Exactly one variant is
// live at a time; timed variants count their timer down in Update.
type phase interface {
	state() State
}

type timed interface {
	timer() *float64
}

type menuPhase struct{}

type introPhase struct{}

type combatPreviewPhase struct {
	remaining float64
	enemy     string
}

type eventPreviewPhase struct {
	remaining float64
	event     *narrative.Event
	rerolls   int
}

type bettingPhase struct{}

type dealPhase struct{ remaining float64 }

type playerTurnPhase struct{}

type targetingPhase struct {
	Slot player.SlotRef
}

type dealerTurnPhase struct{ remaining float64 }

type roundEndPhase struct{ remaining float64 }

type victoryPhase struct{ remaining float64 }

type dropPhase struct {
	offer *trinket.Instance
}

type rewardPhase struct {
	tag    card.Tag
	offers []card.ID
}

type eventPhase struct {
	event  *narrative.Event
	choice *narrative.Choice
}

type gameOverPhase struct{}

func (menuPhase) state() State          { return Menu }
func (introPhase) state() State         { return IntroNarrative }
func (combatPreviewPhase) state() State { return CombatPreview }
func (eventPreviewPhase) state() State  { return EventPreview }
func (bettingPhase) state() State       { return Betting }
func (dealPhase) state() State          { return Deal }
func (playerTurnPhase) state() State    { return PlayerTurn }
func (targetingPhase) state() State     { return Targeting }
func (dealerTurnPhase) state() State    { return DealerTurn }
func (roundEndPhase) state() State      { return RoundEnd }
func (victoryPhase) state() State       { return CombatVictory }
func (dropPhase) state() State          { return TrinketDrop }
func (rewardPhase) state() State        { return RewardScreen }
func (eventPhase) state() State         { return EventScreen }
func (gameOverPhase) state() State      { return GameOver }

func (p *combatPreviewPhase) timer() *float64 { return &p.remaining }
func (p *eventPreviewPhase) timer() *float64  { return &p.remaining }
func (p *dealPhase) timer() *float64          { return &p.remaining }
func (p *dealerTurnPhase) timer() *float64    { return &p.remaining }
func (p *roundEndPhase) timer() *float64      { return &p.remaining }
func (p *victoryPhase) timer() *float64       { return &p.remaining }
