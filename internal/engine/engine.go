// Package engine runs one roguelike blackjack run: the game-flow state
// machine, the round rules, the modifier hooks and the ability event queue.
//
// The engine is headless. A driver calls Update once per frame with the
// elapsed time and the sampled input, then drains Intents to render.
package engine

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/ability"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/act"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/enemy"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/player"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/rules"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

// maxChainDepth bounds the events processed by one flush of the ability
// queue.
const maxChainDepth = 64

// pcgStream is the second PCG word derived from the seed.
const pcgStream = 0x9e3779b97f4a7c15

type popupState struct {
	text      string
	remaining float64
}

// Engine owns every piece of run state. It is not safe for concurrent use.
type Engine struct {
	cfg     config.Config
	content *data.Content
	logger  *log.Logger
	rng     *rand.Rand
	guard   ability.Guard

	deck    *card.Deck
	tags    card.TagTable
	seats   *player.Registry
	act     *act.Act
	enemy   *enemy.Enemy
	dropper *trinket.Dropper

	phase        phase
	round        int
	hpMultiplier float64
	gameOverDue  bool
	popup        *popupState
	hover        *CardRef
	queue        []ability.Event
	intents      []Intent
	stats        RunStats
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand replaces the seeded random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithGuard replaces the CEL guard evaluator.
func WithGuard(g ability.Guard) Option {
	return func(e *Engine) { e.guard = g }
}

// New validates the configuration and starts a run.
func New(cfg config.Config, content *data.Content, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if content == nil {
		return nil, errors.New("engine needs game content")
	}
	if _, err := player.ParseClass(cfg.Class); err != nil {
		return nil, err
	}
	if _, err := content.NewAct(cfg.Act); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, content: content, logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^pcgStream))
	}
	if e.guard == nil {
		reg, err := rules.NewRegistry(e.rng, e.logger)
		if err != nil {
			return nil, err
		}
		e.guard = reg
	}
	if err := e.startRun(); err != nil {
		return nil, err
	}
	return e, nil
}

// startRun resets every piece of run state and enters the first screen.
func (e *Engine) startRun() error {
	class, err := player.ParseClass(e.cfg.Class)
	if err != nil {
		return err
	}
	a, err := e.content.NewAct(e.cfg.Act)
	if err != nil {
		return err
	}

	e.deck = card.NewDeck(e.rng)
	e.deck.Shuffle()
	e.tags.Reset()
	e.act = a
	e.enemy = nil
	e.dropper = trinket.NewDropper(e.content.TrinketTemplates(), e.content.Affixes, e.cfg.PityThreshold)
	e.round = 0
	e.hpMultiplier = 0
	e.gameOverDue = false
	e.popup = nil
	e.hover = nil
	e.queue = nil
	e.stats = newRunStats(e.cfg.StartingChips)

	e.seats = player.NewRegistry()
	e.seats.Add(player.New(player.DealerID, "Dealer", class, 0, 0))
	human := player.New(player.HumanID, "Player", class, e.cfg.StartingChips, e.cfg.StartingSanity)
	e.seats.Add(human)
	if tmpl, ok := e.content.ClassTrinket(e.cfg.Class); ok {
		in := trinket.NewInstance(tmpl, 1)
		if _, err := human.Equip(player.ClassSlot(), in); err != nil {
			return err
		}
		e.applyTrinket(in, in.OnEquip(), nil)
	}

	e.logger.Printf("run started: act=%s class=%s chips=%d", a.Key, class, human.Chips)
	if a.Tutorial {
		e.enter(&introPhase{})
		return nil
	}
	e.routeEncounter()
	return nil
}

// Update advances the run by dt seconds and applies one frame of input.
// Overlays see the input first: a visible popup swallows pointer and key
// input, while a typed command dismisses it and still runs. The returned
// error reports a refused command; the run itself stays consistent.
func (e *Engine) Update(dt float64, in Input) error {
	if dt < 0 {
		dt = 0
	}
	e.hover = nil
	if in.Hover != nil {
		h := *in.Hover
		e.hover = &h
	}

	if e.popup != nil {
		e.popup.remaining -= dt
		switch {
		case e.popup.remaining <= 0:
			e.popup = nil
		case in.Click || in.RightClick || in.Escape || in.Confirm:
			e.popup = nil
			in.Click, in.RightClick, in.Escape, in.Confirm = false, false, false, false
		case in.Command != nil:
			e.popup = nil
		}
	}

	if e.enemy != nil {
		e.enemy.Tween(dt, e.cfg.HPTweenRate)
	}
	if t, ok := e.phase.(timed); ok {
		*t.timer() -= dt
	}

	err := e.handle(in)
	e.flush()
	e.expire()
	e.flush()
	e.checkGameOver()
	return err
}

// Intents returns and clears the presentation requests buffered since the
// last call.
func (e *Engine) Intents() []Intent {
	out := e.intents
	e.intents = nil
	return out
}

// State is the current game-flow state.
func (e *Engine) State() State {
	if e.phase == nil {
		return Menu
	}
	return e.phase.state()
}

func (e *Engine) Human() *player.Player  { return e.seats.Human() }
func (e *Engine) Dealer() *player.Player { return e.seats.Dealer() }

// Enemy is the current opponent, or nil outside combat.
func (e *Engine) Enemy() *enemy.Enemy { return e.enemy }

func (e *Engine) Deck() *card.Deck       { return e.deck }
func (e *Engine) Tags() *card.TagTable   { return &e.tags }
func (e *Engine) Act() *act.Act          { return e.act }
func (e *Engine) Stats() RunStats        { return e.stats }
func (e *Engine) Round() int             { return e.round }
func (e *Engine) Config() config.Config  { return e.cfg }
func (e *Engine) Content() *data.Content { return e.content }

// Popup is the text of the visible popup, if any.
func (e *Engine) Popup() (string, bool) {
	if e.popup == nil {
		return "", false
	}
	return e.popup.text, true
}

// Combat reports whether an enemy is engaged.
func (e *Engine) Combat() bool { return e.enemy != nil }

func (e *Engine) enter(p phase) {
	from := e.State()
	e.phase = p
	to := p.state()
	if from != to {
		e.emit(StateChanged{From: from, To: to})
		e.logger.Printf("state %s -> %s", from, to)
	}
}

func (e *Engine) emit(i Intent) {
	e.intents = append(e.intents, i)
}

func (e *Engine) say(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	e.logger.Print(text)
	e.emit(LogLine{Text: text})
}

// refuse shows a popup and returns the matching input error.
func (e *Engine) refuse(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	e.popup = &popupState{text: text, remaining: e.cfg.PopupSeconds}
	e.emit(Popup{Text: text})
	e.logger.Printf("warn: refused: %s", text)
	return fmt.Errorf("%w: %s", ErrInvalidInput, text)
}

// breach logs an internal inconsistency.
func (e *Engine) breach(format string, args ...any) {
	e.logger.Printf("error: %v: %s", ErrInvariantBreach, fmt.Sprintf(format, args...))
}

func (e *Engine) emitChips(delta int) {
	h := e.Human()
	e.stats.seenChips(h.Chips)
	if delta != 0 {
		e.emit(ChipsChanged{Delta: delta, Chips: h.Chips})
	}
}

// expire fires the transitions of elapsed timers. Dealer steps repeat
// while time is left over; every other state change discards the
// remainder.
func (e *Engine) expire() {
	for i := 0; i < maxChainDepth; i++ {
		t, ok := e.phase.(timed)
		if !ok || *t.timer() > 0 {
			return
		}
		e.onTimer()
	}
	e.breach("timer chain did not settle in %s", e.State())
}

func (e *Engine) onTimer() {
	switch p := e.phase.(type) {
	case *combatPreviewPhase:
		e.spawn(p.enemy)
	case *eventPreviewPhase:
		e.enter(&eventPhase{event: p.event})
	case *dealPhase:
		e.afterDeal()
	case *dealerTurnPhase:
		e.dealerStep()
		if p == e.phase {
			p.remaining += e.cfg.DealerStepSeconds
			if e.cfg.DealerStepSeconds <= 0 {
				p.remaining = 0
			}
		}
	case *roundEndPhase:
		e.nextRound()
	case *victoryPhase:
		e.offerDrop()
	}
}

// checkGameOver schedules GAME_OVER once the player is broke and lets the
// HP tween finish before showing it.
func (e *Engine) checkGameOver() {
	switch e.State() {
	case Menu, GameOver, IntroNarrative, CombatVictory, TrinketDrop, RewardScreen:
		return
	}
	if !e.Human().Broke() {
		e.gameOverDue = false
		return
	}
	if !e.gameOverDue {
		e.gameOverDue = true
		e.logger.Printf("player is out of chips")
	}
	if e.enemy != nil && e.enemy.DisplayHP != float64(e.enemy.HP) {
		return
	}
	e.gameOverDue = false
	e.clearHands()
	e.enter(&gameOverPhase{})
	e.emit(RunComplete{Victory: false})
}
