package card

import (
	"math/rand/v2"
	"slices"
)

// Deck holds the draw and discard piles over the fixed card bank.
// Cards handed out by Draw are "out" until they come back through Discard.
type Deck struct {
	draw    []ID // top of the pile is the last element
	discard []ID
	out     int
	rng     *rand.Rand
}

// NewDeck creates an ordered 52 card deck. Call Shuffle before dealing.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		draw:    make([]ID, 0, DeckSize),
		discard: make([]ID, 0, DeckSize),
		rng:     rng,
	}
	for i := DeckSize - 1; i >= 0; i-- {
		d.draw = append(d.draw, ID(i))
	}
	return d
}

// Shuffle permutes the draw pile.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Reshuffle returns the discard pile to the draw pile and shuffles.
func (d *Deck) Reshuffle() {
	d.draw = append(d.draw, d.discard...)
	d.discard = d.discard[:0]
	d.Shuffle()
}

// Draw pops the top card. An empty draw pile is refilled from the discard
// pile first. ok is false only when every card is out.
func (d *Deck) Draw() (id ID, ok bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return 0, false
		}
		d.Reshuffle()
	}
	id = d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	d.out++
	return id, true
}

// Discard returns an out card to the discard pile.
func (d *Deck) Discard(id ID) {
	d.discard = append(d.discard, id)
	if d.out > 0 {
		d.out--
	}
}

// Peek returns up to n upcoming cards, next card first, without drawing.
func (d *Deck) Peek(n int) []ID {
	if n > len(d.draw) {
		n = len(d.draw)
	}
	res := make([]ID, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, d.draw[len(d.draw)-1-i])
	}
	return res
}

// Stack moves the given cards to the top of the draw pile so that they are
// drawn in argument order. Cards currently in the discard pile are pulled
// back; cards that are out are ignored.
func (d *Deck) Stack(ids ...ID) {
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		if idx := slices.Index(d.draw, id); idx >= 0 {
			d.draw = slices.Delete(d.draw, idx, idx+1)
		} else if idx := slices.Index(d.discard, id); idx >= 0 {
			d.discard = slices.Delete(d.discard, idx, idx+1)
		} else {
			continue
		}
		d.draw = append(d.draw, id)
	}
}

// Counts reports pile sizes and the number of cards held in hands.
func (d *Deck) Counts() (draw, discard, out int) {
	return len(d.draw), len(d.discard), d.out
}

// DrawCount is the size of the draw pile.
func (d *Deck) DrawCount() int { return len(d.draw) }

// Cards lists every card in the draw and discard piles, for deck viewers.
func (d *Deck) Cards() (draw, discard []ID) {
	return slices.Clone(d.draw), slices.Clone(d.discard)
}
