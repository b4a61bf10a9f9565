package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/parser"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/rules"
)

// Store defines the dependency required by Session to persist its trace
type Store interface {
	Append(rec persistence.Record) error
	Load() ([]persistence.Record, error)
	Close() error
}

// Session manages the cohesive loop of taking input, advancing the engine and
// persisting every frame that changed something.
type Session struct {
	runID   string
	cfg     config.Config
	content *data.Content
	engine  *engine.Engine
	store   Store
	logger  *log.Logger
	intents []engine.Intent
	ended   *persistence.RunEnded
}

// LoadContent reads the data directories, falling back to the embedded
// defaults, and compiles every guard expression once.
func LoadContent(dataDirs []string, logger *log.Logger) (*data.Content, error) {
	content, err := data.NewLoader(dataDirs).Load()
	if err != nil {
		return nil, err
	}
	reg, err := rules.NewRegistry(nil, logger)
	if err != nil {
		return nil, err
	}
	if err := content.CheckGuards(reg); err != nil {
		return nil, err
	}
	return content, nil
}

// New starts a run. A zero seed is replaced by a clock-derived one so the
// trace always records the seed actually used. store may be nil.
func New(cfg config.Config, content *data.Content, store Store, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return Start(uuid.NewString(), cfg, content, store, logger)
}

// Start begins a run under a caller-chosen id, for callers that name the
// trace file after the run.
func Start(runID string, cfg config.Config, content *data.Content, store Store, logger *log.Logger) (*Session, error) {
	eng, err := engine.New(cfg, content, engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s := &Session{runID: runID, cfg: cfg, content: content, engine: eng, store: store, logger: logger}
	if err := s.append(persistence.NewRunStarted(runID, cfg)); err != nil {
		return nil, err
	}
	return s, nil
}

// RunID identifies the run in traces and results.
func (s *Session) RunID() string { return s.runID }

// Seed is the seed the engine was built with.
func (s *Session) Seed() uint64 { return s.cfg.Seed }

// Engine exposes the running engine for read access.
func (s *Session) Engine() *engine.Engine { return s.engine }

// Ended returns the result once the run reached a victory or a game over.
func (s *Session) Ended() (persistence.RunEnded, bool) {
	if s.ended == nil {
		return persistence.RunEnded{}, false
	}
	return *s.ended, true
}

// Apply advances the engine one frame and appends the frame to the trace.
// Frames with no input and no elapsed time are not recorded.
func (s *Session) Apply(dt float64, in engine.Input) error {
	rec := persistence.InputApplied{
		DT:         dt,
		Hover:      in.Hover,
		Click:      in.Click,
		RightClick: in.RightClick,
		Escape:     in.Escape,
		Confirm:    in.Confirm,
	}
	if in.Command != nil {
		rec.Line = in.Command.String()
	}
	if dt > 0 || rec.Line != "" || rec.Pointer() {
		if err := s.append(rec); err != nil {
			return err
		}
	}

	uerr := s.engine.Update(dt, in)
	for _, it := range s.engine.Intents() {
		s.intents = append(s.intents, it)
		if done, ok := it.(engine.RunComplete); ok {
			s.finish(done.Victory)
		}
	}
	return uerr
}

// Tick advances time without input.
func (s *Session) Tick(dt float64) error {
	return s.Apply(dt, engine.Input{})
}

// Execute parses a console line and applies it as this frame's command.
// "help" returns the command list without touching the engine.
func (s *Session) Execute(line string) ([]string, error) {
	parsed, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	if parsed.IsHelp() {
		return parser.Usage, nil
	}
	cmd, err := parsed.Command()
	if err != nil {
		return nil, err
	}
	return nil, s.Apply(0, engine.Input{Command: cmd})
}

// Intents returns and clears the intents gathered since the last call.
func (s *Session) Intents() []engine.Intent {
	out := s.intents
	s.intents = nil
	return out
}

// Result summarizes the run for the results database.
func (s *Session) Result() persistence.Result {
	stats := s.engine.Stats()
	outcome := "abandoned"
	if s.ended != nil {
		outcome = "defeat"
		if s.ended.Victory {
			outcome = "victory"
		}
	}
	return persistence.Result{
		ID:         s.runID,
		Seed:       s.cfg.Seed,
		Act:        s.cfg.Act,
		Class:      s.cfg.Class,
		Outcome:    outcome,
		Encounters: stats.EncountersCleared,
		Hands:      stats.Rounds,
		Chips:      s.engine.Human().Chips,
		Damage:     stats.TotalDamage(),
	}
}

// Close closes the trace store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func (s *Session) finish(victory bool) {
	s.ended = &persistence.RunEnded{Victory: victory, Stats: s.engine.Stats()}
	if err := s.append(*s.ended); err != nil {
		s.logger.Printf("warn: %v", err)
	}
}

func (s *Session) append(rec persistence.Record) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Append(rec); err != nil {
		return fmt.Errorf("failed to append %s: %w", rec.Type(), err)
	}
	return nil
}

// ErrBadTrace is returned when a trace cannot be folded back into a run.
var ErrBadTrace = errors.New("malformed trace")

// Replay rebuilds a run from its trace. The recorded seed, act, class,
// starting chips and tuning override base. Traces without tuning replay
// against base's tuning, with a warning.
// Refused commands are part of the trace and replay the same refusals.
func Replay(store Store, content *data.Content, base config.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	records, err := store.Load()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadTrace)
	}
	started, ok := records[0].(persistence.RunStarted)
	if !ok {
		return nil, fmt.Errorf("%w: first record is %s", ErrBadTrace, records[0].Type())
	}
	cfg, tuned := started.Config(base)
	if !tuned {
		logger.Printf("warn: trace %s has no tuning record, replaying with the current config", started.RunID)
	}

	s, err := Start(started.RunID, cfg, content, nil, logger)
	if err != nil {
		return nil, err
	}
	for i, rec := range records[1:] {
		in, ok := rec.(persistence.InputApplied)
		if !ok {
			continue
		}
		frame := engine.Input{
			Hover:      in.Hover,
			Click:      in.Click,
			RightClick: in.RightClick,
			Escape:     in.Escape,
			Confirm:    in.Confirm,
		}
		if in.Line != "" {
			parsed, err := parser.Parse(in.Line)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrBadTrace, i+2, err)
			}
			cmd, err := parsed.Command()
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrBadTrace, i+2, err)
			}
			frame.Command = cmd
		}
		_ = s.Apply(in.DT, frame)
	}
	return s, nil
}
