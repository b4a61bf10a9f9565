package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
)

// RecordType names a trace record on disk.
type RecordType string

const (
	RecordRunStarted   RecordType = "RunStarted"
	RecordInputApplied RecordType = "InputApplied"
	RecordRunEnded     RecordType = "RunEnded"
)

// Record is one line of a run trace.
type Record interface {
	Type() RecordType
}

// RunStarted opens a trace. Everything needed to rebuild the engine is here;
// the content itself is reloaded from the same data directories.
type RunStarted struct {
	RunID  string  `json:"run_id"`
	Seed   uint64  `json:"seed"`
	Act    string  `json:"act"`
	Class  string  `json:"class"`
	Chips  int     `json:"chips"`
	Tuning *Tuning `json:"tuning,omitempty"`
}

// Tuning is the part of the config that changes how a run plays out.
type Tuning struct {
	StartingSanity     int     `json:"starting_sanity"`
	BetAmounts         []int   `json:"bet_amounts"`
	RerollBaseCost     int     `json:"reroll_base_cost"`
	PreviewSeconds     float64 `json:"preview_seconds"`
	VictorySeconds     float64 `json:"victory_seconds"`
	RoundEndSeconds    float64 `json:"round_end_seconds"`
	DealSeconds        float64 `json:"deal_seconds"`
	DealerStepSeconds  float64 `json:"dealer_step_seconds"`
	PopupSeconds       float64 `json:"popup_seconds"`
	HPTweenRate        float64 `json:"hp_tween_rate"`
	ReshuffleThreshold int     `json:"reshuffle_threshold"`
	DealerStandsOn     int     `json:"dealer_stands_on"`
	PityThreshold      int     `json:"pity_threshold"`
	RewardOfferCount   int     `json:"reward_offer_count"`
}

// NewRunStarted captures the run header of cfg.
func NewRunStarted(runID string, cfg config.Config) RunStarted {
	return RunStarted{
		RunID: runID,
		Seed:  cfg.Seed,
		Act:   cfg.Act,
		Class: cfg.Class,
		Chips: cfg.StartingChips,
		Tuning: &Tuning{
			StartingSanity:     cfg.StartingSanity,
			BetAmounts:         append([]int(nil), cfg.BetAmounts...),
			RerollBaseCost:     cfg.RerollBaseCost,
			PreviewSeconds:     cfg.PreviewSeconds,
			VictorySeconds:     cfg.VictorySeconds,
			RoundEndSeconds:    cfg.RoundEndSeconds,
			DealSeconds:        cfg.DealSeconds,
			DealerStepSeconds:  cfg.DealerStepSeconds,
			PopupSeconds:       cfg.PopupSeconds,
			HPTweenRate:        cfg.HPTweenRate,
			ReshuffleThreshold: cfg.ReshuffleThreshold,
			DealerStandsOn:     cfg.DealerStandsOn,
			PityThreshold:      cfg.PityThreshold,
			RewardOfferCount:   cfg.RewardOfferCount,
		},
	}
}

// Config overlays the recorded run onto base. Paths and the listen address
// stay as in base. It reports false when the trace predates tuning records
// and only the seed, act, class and chips could be restored.
func (r RunStarted) Config(base config.Config) (config.Config, bool) {
	cfg := base
	cfg.Seed = r.Seed
	cfg.Act = r.Act
	cfg.Class = r.Class
	cfg.StartingChips = r.Chips
	t := r.Tuning
	if t == nil {
		return cfg, false
	}
	cfg.StartingSanity = t.StartingSanity
	cfg.BetAmounts = append([]int(nil), t.BetAmounts...)
	cfg.RerollBaseCost = t.RerollBaseCost
	cfg.PreviewSeconds = t.PreviewSeconds
	cfg.VictorySeconds = t.VictorySeconds
	cfg.RoundEndSeconds = t.RoundEndSeconds
	cfg.DealSeconds = t.DealSeconds
	cfg.DealerStepSeconds = t.DealerStepSeconds
	cfg.PopupSeconds = t.PopupSeconds
	cfg.HPTweenRate = t.HPTweenRate
	cfg.ReshuffleThreshold = t.ReshuffleThreshold
	cfg.DealerStandsOn = t.DealerStandsOn
	cfg.PityThreshold = t.PityThreshold
	cfg.RewardOfferCount = t.RewardOfferCount
	return cfg, true
}

// InputApplied is one Update call: the elapsed time and the frame's input,
// with the command in its console form.
type InputApplied struct {
	DT         float64         `json:"dt"`
	Line       string          `json:"line,omitempty"`
	Hover      *engine.CardRef `json:"hover,omitempty"`
	Click      bool            `json:"click,omitempty"`
	RightClick bool            `json:"right_click,omitempty"`
	Escape     bool            `json:"escape,omitempty"`
	Confirm    bool            `json:"confirm,omitempty"`
}

// RunEnded closes a trace with the final result.
type RunEnded struct {
	Victory bool            `json:"victory"`
	Stats   engine.RunStats `json:"stats"`
}

func (RunStarted) Type() RecordType   { return RecordRunStarted }
func (InputApplied) Type() RecordType { return RecordInputApplied }
func (RunEnded) Type() RecordType     { return RecordRunEnded }

// Pointer reports whether the record carries any pointer or key input.
func (r InputApplied) Pointer() bool {
	return r.Hover != nil || r.Click || r.RightClick || r.Escape || r.Confirm
}

// RecordWrapper facilitates serialization of polymorphic records
type RecordWrapper struct {
	Type   RecordType      `json:"type"`
	Record json.RawMessage `json:"data"`
}

// Store handles append-only storing of a run trace.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Path is the file backing the store.
func (s *Store) Path() string { return s.file.Name() }

// Append marshals a record to the jsonl log.
func (s *Store) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	wrapperData, err := json.Marshal(RecordWrapper{Type: rec.Type(), Record: data})
	if err != nil {
		return err
	}

	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load reads every jsonl line back into typed records.
func (s *Store) Load() ([]Record, error) {
	var records []Record

	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(s.file)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var wrapper RecordWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper: %w", err)
		}

		var (
			rec Record
			err error
		)
		switch wrapper.Type {
		case RecordRunStarted:
			rec, err = decodeAs[RunStarted](wrapper.Record)
		case RecordInputApplied:
			rec, err = decodeAs[InputApplied](wrapper.Record)
		case RecordRunEnded:
			rec, err = decodeAs[RunEnded](wrapper.Record)
		default:
			return nil, fmt.Errorf("unknown record type in trace: %s", wrapper.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", wrapper.Type, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func decodeAs[T Record](raw json.RawMessage) (Record, error) {
	var r T
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
