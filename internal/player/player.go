// Package player holds the human player and the dealer seat: chips, sanity,
// hand, status effects, trinket slots and the cached combat stats.
package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/card"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/status"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/trinket"
)

var (
	ErrInvalidBet = errors.New("bet must be positive")
	ErrNoChips    = errors.New("no chips left")
	ErrBadSlot    = errors.New("no such trinket slot")
)

// SlotCount is the number of generic trinket slots.
const SlotCount = 6

type Class int

const (
	Degenerate Class = iota
	Dealer
	Detective
	Dreamer
)

var classNames = [...]string{"degenerate", "dealer", "detective", "dreamer"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range classNames {
		if n == s {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("unknown class %q", s)
}

// SlotRef addresses the class slot or one of the generic slots.
type SlotRef struct {
	Class bool
	Index int
}

// ClassSlot is the reference to the class trinket slot.
func ClassSlot() SlotRef { return SlotRef{Class: true} }

// Slot references generic slot i (0-based).
func Slot(i int) SlotRef { return SlotRef{Index: i} }

// String prints "class" or the 1-based slot number used by the console.
func (s SlotRef) String() string {
	if s.Class {
		return "class"
	}
	return strconv.Itoa(s.Index + 1)
}

// ParseSlot reads "class" or a 1-based slot number.
func ParseSlot(s string) (SlotRef, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "class" || s == "c" {
		return ClassSlot(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > SlotCount {
		return SlotRef{}, fmt.Errorf("slot %q: %w", s, ErrBadSlot)
	}
	return Slot(n - 1), nil
}

// Player is a seat at the table.
type Player struct {
	ID        ID
	Name      string
	Class     Class
	Chips     int
	Bet       int
	Sanity    int
	MaxSanity int
	Hand      card.Hand
	Status    status.Set

	class *trinket.Instance
	slots [SlotCount]*trinket.Instance

	stats trinket.Stats
	dirty bool
}

// New seats a player with starting chips and sanity.
func New(id ID, name string, class Class, chips, sanity int) *Player {
	if chips < 0 {
		chips = 0
	}
	return &Player{
		ID:        id,
		Name:      name,
		Class:     class,
		Chips:     chips,
		Sanity:    sanity,
		MaxSanity: sanity,
		dirty:     true,
	}
}

// PlaceBet moves chips onto the table. A bet larger than the stack becomes
// an all-in for the remaining chips. It returns the amount committed.
func (p *Player) PlaceBet(amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidBet
	}
	if p.Chips == 0 {
		return 0, ErrNoChips
	}
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet = amount
	return amount, nil
}

// RaiseBet adds to the current bet, as when doubling. Unlike PlaceBet it
// refuses an unaffordable raise.
func (p *Player) RaiseBet(amount int) error {
	if amount <= 0 {
		return ErrInvalidBet
	}
	if amount > p.Chips {
		return fmt.Errorf("raise %d with %d chips: %w", amount, p.Chips, ErrNoChips)
	}
	p.Chips -= amount
	p.Bet += amount
	return nil
}

// ClearBet takes the bet off the table without paying it back.
func (p *Player) ClearBet() int {
	b := p.Bet
	p.Bet = 0
	return b
}

// Win adds chips.
func (p *Player) Win(amount int) {
	if amount > 0 {
		p.Chips += amount
	}
}

// LoseChips removes chips, never going below zero. It returns the amount
// actually removed.
func (p *Player) LoseChips(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	return amount
}

// Broke reports no chips and nothing on the table.
func (p *Player) Broke() bool { return p.Chips == 0 && p.Bet == 0 }

// ModifySanity shifts sanity, clamped to [0, MaxSanity].
func (p *Player) ModifySanity(delta int) {
	p.Sanity = max(0, min(p.MaxSanity, p.Sanity+delta))
}

// SanityPercent is sanity as a percentage of the maximum.
func (p *Player) SanityPercent() int {
	if p.MaxSanity <= 0 {
		return 0
	}
	return p.Sanity * 100 / p.MaxSanity
}

// ApplyStatus inserts or refreshes a status effect.
func (p *Player) ApplyStatus(k status.Kind, value, duration int) {
	p.Status.Apply(k, value, duration)
	p.dirty = true
}

// RemoveStatus drops a status effect.
func (p *Player) RemoveStatus(k status.Kind) bool {
	p.dirty = true
	return p.Status.Remove(k)
}

// Trinket returns the instance in a slot, or nil.
func (p *Player) Trinket(ref SlotRef) *trinket.Instance {
	if ref.Class {
		return p.class
	}
	if ref.Index < 0 || ref.Index >= SlotCount {
		return nil
	}
	return p.slots[ref.Index]
}

// Equip puts in into a slot and returns what it replaced.
func (p *Player) Equip(ref SlotRef, in *trinket.Instance) (*trinket.Instance, error) {
	if !ref.Class && (ref.Index < 0 || ref.Index >= SlotCount) {
		return nil, fmt.Errorf("equip slot %s: %w", ref, ErrBadSlot)
	}
	var prev *trinket.Instance
	if ref.Class {
		prev, p.class = p.class, in
	} else {
		prev, p.slots[ref.Index] = p.slots[ref.Index], in
	}
	p.dirty = true
	return prev, nil
}

// Unequip empties a slot and returns its instance.
func (p *Player) Unequip(ref SlotRef) *trinket.Instance {
	prev, err := p.Equip(ref, nil)
	if err != nil {
		return nil
	}
	return prev
}

// FreeSlot finds the first empty generic slot.
func (p *Player) FreeSlot() (SlotRef, bool) {
	for i, in := range p.slots {
		if in == nil {
			return Slot(i), true
		}
	}
	return SlotRef{}, false
}

// Trinkets lists equipped instances: class trinket first, then slots in
// order. This is the order trinket hooks run in.
func (p *Player) Trinkets() []*trinket.Instance {
	var res []*trinket.Instance
	if p.class != nil {
		res = append(res, p.class)
	}
	for _, in := range p.slots {
		if in != nil {
			res = append(res, in)
		}
	}
	return res
}

// Invalidate marks the combat-stat cache stale.
func (p *Player) Invalidate() { p.dirty = true }

// Stats returns the combat stats, recomputing them when stale.
func (p *Player) Stats() trinket.Stats {
	if p.dirty {
		var s trinket.Stats
		for _, in := range p.Trinkets() {
			in.Contribute(&s)
		}
		p.stats = s
		p.dirty = false
	}
	return p.stats
}
