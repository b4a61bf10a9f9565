package ability

import (
	"fmt"
	"strings"
)

// Snapshot is the read-only view of the combat a trigger is evaluated against.
type Snapshot struct {
	HP          int
	MaxHP       int
	TotalDamage int
	Rand        Rand
	Guard       Guard
	Vars        map[string]any
}

// HPPercent is the enemy's remaining HP as a floored percentage.
func (s Snapshot) HPPercent() int {
	if s.MaxHP <= 0 {
		return 0
	}
	return s.HP * 100 / s.MaxHP
}

// Rand is the slice of math/rand/v2 the engine shares with triggers.
type Rand interface {
	IntN(n int) int
}

// Guard evaluates optional conditions attached to abilities.
type Guard interface {
	Allow(expr string, vars map[string]any) bool
}

// Trigger decides whether an ability fires for an event. The set of
// variants is closed: Passive, OnEvent, Counter, HPThreshold, HPSegment,
// Random, OnAction and DamageAccumulator.
type Trigger interface {
	fires(ev Event, s Snapshot) bool
	reset()
	String() string
}

// Passive never fires from the bus; modifier hooks read it directly.
type Passive struct{}

func (*Passive) fires(Event, Snapshot) bool { return false }
func (*Passive) reset()                     {}
func (*Passive) String() string             { return "passive" }

// OnEvent fires every time Event is raised.
type OnEvent struct {
	Event EventKind
}

func (t *OnEvent) fires(ev Event, _ Snapshot) bool { return ev.Kind == t.Event }
func (t *OnEvent) reset()                          {}
func (t *OnEvent) String() string                  { return fmt.Sprintf("on %s", t.Event) }

// Counter fires on the Max-th occurrence of Event, then starts over.
type Counter struct {
	Event EventKind
	Max   int
	Count int
}

func (t *Counter) fires(ev Event, _ Snapshot) bool {
	if ev.Kind != t.Event {
		return false
	}
	t.Count++
	if t.Count >= t.Max {
		t.Count = 0
		return true
	}
	return false
}
func (t *Counter) reset() { t.Count = 0 }
func (t *Counter) String() string {
	return fmt.Sprintf("every %d× %s (%d/%d)", t.Max, t.Event, t.Count, t.Max)
}

// HPThreshold fires when HP drops to Percent or below. With Once it fires
// only on the first crossing of the combat.
type HPThreshold struct {
	Percent int
	Once    bool
	Fired   bool
}

func (t *HPThreshold) fires(ev Event, s Snapshot) bool {
	if ev.Kind != EnemyHit {
		return false
	}
	if t.Once && t.Fired {
		return false
	}
	if s.HPPercent() <= t.Percent {
		t.Fired = true
		return true
	}
	return false
}
func (t *HPThreshold) reset() { t.Fired = false }
func (t *HPThreshold) String() string {
	if t.Once {
		return fmt.Sprintf("once at %d%% HP", t.Percent)
	}
	return fmt.Sprintf("at %d%% HP", t.Percent)
}

// HPSegment fires once for every Segment% of HP lost. Mask records which
// thresholds (100-Segment, 100-2*Segment, ...) already fired; at most one
// threshold fires per check.
type HPSegment struct {
	Segment int
	Mask    uint64
}

// Thresholds is the number of thresholds a segment produces.
func (t *HPSegment) Thresholds() int {
	if t.Segment <= 0 {
		return 0
	}
	return 100/t.Segment - 1
}

func (t *HPSegment) fires(ev Event, s Snapshot) bool {
	if ev.Kind != EnemyHit {
		return false
	}
	pct := s.HPPercent()
	for i := 0; i < t.Thresholds(); i++ {
		bit := uint64(1) << i
		if t.Mask&bit != 0 {
			continue
		}
		if pct <= 100-(i+1)*t.Segment {
			t.Mask |= bit
			return true
		}
	}
	return false
}
func (t *HPSegment) reset()         { t.Mask = 0 }
func (t *HPSegment) String() string { return fmt.Sprintf("every %d%% HP lost", t.Segment) }

// Random fires on Event with Chance percent probability.
type Random struct {
	Event  EventKind
	Chance int
}

func (t *Random) fires(ev Event, s Snapshot) bool {
	if ev.Kind != t.Event || t.Chance <= 0 {
		return false
	}
	if t.Chance >= 100 || s.Rand == nil {
		return t.Chance >= 100
	}
	return s.Rand.IntN(100) < t.Chance
}
func (t *Random) reset() {}
func (t *Random) String() string {
	return fmt.Sprintf("%d%% on %s", t.Chance, t.Event)
}

// OnAction fires after the player performs Action.
type OnAction struct {
	Action Action
}

func (t *OnAction) fires(ev Event, _ Snapshot) bool {
	return ev.Kind == PlayerActionEnd && ev.Action == t.Action
}
func (t *OnAction) reset()         {}
func (t *OnAction) String() string { return fmt.Sprintf("after %s", t.Action) }

// DamageAccumulator fires each time the enemy's total damage taken passes
// another multiple of Threshold.
type DamageAccumulator struct {
	Threshold int
	Fired     int
}

func (t *DamageAccumulator) fires(ev Event, s Snapshot) bool {
	if ev.Kind != EnemyHit || t.Threshold <= 0 {
		return false
	}
	if s.TotalDamage/t.Threshold > t.Fired {
		t.Fired++
		return true
	}
	return false
}
func (t *DamageAccumulator) reset() { t.Fired = 0 }
func (t *DamageAccumulator) String() string {
	return fmt.Sprintf("every %d damage taken", t.Threshold)
}

// TriggerParams carries the data-file fields of a trigger.
type TriggerParams struct {
	Event     string
	Percent   int
	Once      bool
	Max       int
	Segment   int
	Chance    int
	Action    string
	Threshold int
}

// NewTrigger builds a trigger from its data name and parameters.
func NewTrigger(kind string, p TriggerParams) (Trigger, error) {
	event := func() (EventKind, error) {
		if p.Event == "" {
			return 0, fmt.Errorf("trigger %s requires an event", kind)
		}
		return ParseEvent(p.Event)
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "passive":
		return &Passive{}, nil
	case "on_event":
		ev, err := event()
		if err != nil {
			return nil, err
		}
		return &OnEvent{Event: ev}, nil
	case "counter":
		ev, err := event()
		if err != nil {
			return nil, err
		}
		if p.Max <= 0 {
			return nil, fmt.Errorf("counter trigger requires max > 0")
		}
		return &Counter{Event: ev, Max: p.Max}, nil
	case "hp_threshold":
		if p.Percent <= 0 || p.Percent > 100 {
			return nil, fmt.Errorf("hp_threshold percent must be in 1..100, got %d", p.Percent)
		}
		return &HPThreshold{Percent: p.Percent, Once: p.Once}, nil
	case "hp_segment":
		if p.Segment <= 0 || p.Segment >= 100 || 100%p.Segment != 0 {
			return nil, fmt.Errorf("hp_segment segment must divide 100, got %d", p.Segment)
		}
		return &HPSegment{Segment: p.Segment}, nil
	case "random":
		ev, err := event()
		if err != nil {
			return nil, err
		}
		if p.Chance < 0 || p.Chance > 100 {
			return nil, fmt.Errorf("random chance must be in 0..100, got %d", p.Chance)
		}
		return &Random{Event: ev, Chance: p.Chance}, nil
	case "on_action":
		a, err := ParseAction(p.Action)
		if err != nil {
			return nil, err
		}
		return &OnAction{Action: a}, nil
	case "damage_accumulator":
		if p.Threshold <= 0 {
			return nil, fmt.Errorf("damage_accumulator requires threshold > 0")
		}
		return &DamageAccumulator{Threshold: p.Threshold}, nil
	}
	return nil, fmt.Errorf("unknown trigger type %q", kind)
}
