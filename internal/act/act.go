// Package act sequences the encounters of a run.
package act

import (
	"fmt"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/narrative"
)

// Kind is the type of an encounter.
type Kind int

const (
	Normal Kind = iota
	Elite
	Boss
	Event
)

var kindNames = [...]string{"NORMAL", "ELITE", "BOSS", "EVENT"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown encounter type %q", s)
}

// Combat reports whether the encounter spawns an enemy.
func (k Kind) Combat() bool { return k != Event }

// Encounter is one step of an act.
type Encounter struct {
	Kind     Kind
	Enemy    string // enemy key, combat only
	EventID  string // optional fixed event, otherwise drawn from the pool
	Portrait string
}

// Act is an ordered list of encounters with a cursor.
type Act struct {
	Key        string
	Name       string
	Intro      string
	Tutorial   bool
	Pool       *narrative.Pool
	encounters []Encounter
	index      int
}

func New(key, name string) *Act {
	return &Act{Key: key, Name: name, Pool: narrative.NewPool()}
}

// Add appends an encounter after checking its payload matches its kind.
func (a *Act) Add(e Encounter) error {
	switch {
	case e.Kind.Combat() && e.Enemy == "":
		return fmt.Errorf("%s encounter %d needs an enemy", e.Kind, len(a.encounters)+1)
	case !e.Kind.Combat() && e.Enemy != "":
		return fmt.Errorf("event encounter %d cannot name enemy %q", len(a.encounters)+1, e.Enemy)
	}
	a.encounters = append(a.encounters, e)
	return nil
}

// Current returns the encounter under the cursor; ok is false once the act
// is complete.
func (a *Act) Current() (Encounter, bool) {
	if a.Complete() {
		return Encounter{}, false
	}
	return a.encounters[a.index], true
}

// Advance moves the cursor, stopping at the end.
func (a *Act) Advance() {
	if a.index < len(a.encounters) {
		a.index++
	}
}

func (a *Act) Complete() bool { return a.index >= len(a.encounters) }
func (a *Act) Len() int       { return len(a.encounters) }
func (a *Act) Index() int     { return a.index }

// Encounters returns a copy of the encounter list.
func (a *Act) Encounters() []Encounter {
	return append([]Encounter(nil), a.encounters...)
}
