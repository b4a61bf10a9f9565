// Package ability is the enemy rule engine: abilities subscribe to game
// events through a trigger and answer with an ordered chain of effects.
package ability

// Ability is a trigger plus an effect chain owned by one enemy.
type Ability struct {
	Name        string
	Description string
	Trigger     Trigger
	Effects     []Effect
	CooldownMax int
	Cooldown    int
	// When is an optional guard expression; the ability is skipped while it
	// evaluates to false.
	When string
}

// Ready reports whether the ability is off cooldown.
func (a *Ability) Ready() bool { return a.Cooldown <= 0 }

// Firing is the result of one ability firing for one event.
type Firing struct {
	Ability *Ability
	Event   Event
	Records []Record
}

// Bus publishes events to abilities in declaration order.
type Bus struct {
	subscribers []*Ability
}

// NewBus subscribes the abilities in the given order.
func NewBus(abilities ...*Ability) *Bus {
	return &Bus{subscribers: abilities}
}

// Abilities returns the subscribers in declaration order.
func (b *Bus) Abilities() []*Ability { return b.subscribers }

// Dispatch evaluates every subscriber for ev. Each ability that fires has
// its effect chain evaluated in order and its cooldown set.
func (b *Bus) Dispatch(ev Event, snap Snapshot) []Firing {
	var out []Firing
	for _, a := range b.subscribers {
		if !a.Ready() {
			continue
		}
		if a.When != "" && snap.Guard != nil && !snap.Guard.Allow(a.When, snap.Vars) {
			continue
		}
		if !a.Trigger.fires(ev, snap) {
			continue
		}
		f := Firing{Ability: a, Event: ev}
		for _, eff := range a.Effects {
			f.Records = append(f.Records, Evaluate(eff)...)
		}
		if a.CooldownMax > 0 {
			a.Cooldown = a.CooldownMax
		}
		out = append(out, f)
	}
	return out
}

// TickCooldowns lowers every running cooldown by one.
func (b *Bus) TickCooldowns() {
	for _, a := range b.subscribers {
		if a.Cooldown > 0 {
			a.Cooldown--
		}
	}
}

// Reset clears counters, fired flags, segment masks and cooldowns.
func (b *Bus) Reset() {
	for _, a := range b.subscribers {
		a.Trigger.reset()
		a.Cooldown = 0
	}
}
