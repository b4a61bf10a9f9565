package session

import (
	"errors"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
)

// ErrRunOver is returned by Step once the run has ended.
var ErrRunOver = errors.New("run is over")

// stepSeconds is the time an autopilot step lets pass on timed screens.
const stepSeconds = 0.5

// Autopilot plays a session with a fixed house strategy: the smallest bet,
// hit below StandOn, no actives, equip while slots are free and sell after.
type Autopilot struct {
	StandOn int
}

func NewAutopilot() *Autopilot { return &Autopilot{StandOn: 17} }

// Step applies one decision to s.
func (a *Autopilot) Step(s *Session) error {
	if _, ended := s.Ended(); ended {
		return ErrRunOver
	}
	v := s.Engine().View()
	switch s.Engine().State() {
	case engine.Menu, engine.GameOver:
		return ErrRunOver
	case engine.IntroNarrative, engine.CombatPreview, engine.EventPreview,
		engine.RoundEnd, engine.CombatVictory:
		return s.apply(engine.Continue{})
	case engine.Betting:
		bet := 0
		for _, o := range v.BetOptions {
			if o.Enabled && (bet == 0 || o.Amount < bet) {
				bet = o.Amount
			}
		}
		if bet == 0 {
			return s.Tick(stepSeconds)
		}
		return s.apply(engine.Bet{Amount: bet})
	case engine.PlayerTurn:
		if v.Player.Score < a.StandOn {
			return s.apply(engine.Hit{})
		}
		return s.apply(engine.Stand{})
	case engine.Targeting:
		return s.apply(engine.Cancel{})
	case engine.TrinketDrop:
		if slot, ok := s.Engine().Human().FreeSlot(); ok {
			return s.apply(engine.Equip{Slot: slot})
		}
		return s.apply(engine.Sell{})
	case engine.RewardScreen:
		if v.Reward == nil || len(v.Reward.Cards) == 0 {
			return s.apply(engine.Continue{})
		}
		id, err := card.Parse(v.Reward.Cards[0])
		if err != nil {
			return err
		}
		return s.apply(engine.TagCard{Card: id})
	case engine.EventScreen:
		if v.Event != nil && v.Event.Selected < 0 {
			for i, c := range v.Event.Choices {
				if !c.Locked {
					return s.apply(engine.Choose{Index: i})
				}
			}
		}
		return s.apply(engine.Continue{})
	}
	return s.Tick(stepSeconds)
}

// Play steps until the run ends or maxSteps decisions were made.
func (a *Autopilot) Play(s *Session, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		err := a.Step(s)
		switch {
		case errors.Is(err, ErrRunOver):
			return nil
		case errors.Is(err, engine.ErrInvalidInput):
			// refused moves still advance the frame; try again after time passes
			if terr := s.Tick(stepSeconds); terr != nil && !errors.Is(terr, engine.ErrInvalidInput) {
				return terr
			}
		case err != nil:
			return err
		}
	}
	return nil
}

func (s *Session) apply(c engine.Command) error {
	return s.Apply(0, engine.Input{Command: c})
}
