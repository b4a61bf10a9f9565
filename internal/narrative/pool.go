package narrative

import "errors"

// ErrPoolEmpty is returned when picking from a pool with no events.
var ErrPoolEmpty = errors.New("event pool is empty")

// differentAttempts bounds the retries of PickDifferent.
const differentAttempts = 10

// Rand is the random source used for weighted picks.
type Rand interface {
	IntN(n int) int
}

type entry struct {
	event  *Event
	weight int
}

// Pool is a weighted set of event templates.
type Pool struct {
	entries []entry
	total   int
}

func NewPool() *Pool { return &Pool{} }

// Add registers a template. Non-positive weights count as 1.
func (p *Pool) Add(e *Event, weight int) {
	if weight <= 0 {
		weight = 1
	}
	p.entries = append(p.entries, entry{event: e, weight: weight})
	p.total += weight
}

func (p *Pool) Len() int         { return len(p.entries) }
func (p *Pool) TotalWeight() int { return p.total }

// Pick returns a fresh copy of a weighted random template.
func (p *Pool) Pick(rng Rand) (*Event, error) {
	if len(p.entries) == 0 || p.total <= 0 {
		return nil, ErrPoolEmpty
	}
	n := rng.IntN(p.total)
	for _, en := range p.entries {
		if n < en.weight {
			return en.event.Clone(), nil
		}
		n -= en.weight
	}
	return p.entries[0].event.Clone(), nil
}

// PickDifferent tries to pick an event other than prevID. After a bounded
// number of attempts, or with a single-entry pool, it accepts a repeat.
func (p *Pool) PickDifferent(rng Rand, prevID string) (*Event, error) {
	if len(p.entries) <= 1 || prevID == "" {
		return p.Pick(rng)
	}
	var e *Event
	var err error
	for i := 0; i < differentAttempts; i++ {
		e, err = p.Pick(rng)
		if err != nil {
			return nil, err
		}
		if e.ID != prevID {
			return e, nil
		}
	}
	return e, nil
}

// RerollCost is the price of the next reroll after k rerolls.
func RerollCost(base, k int) int {
	if k < 0 {
		k = 0
	}
	return base << k
}
