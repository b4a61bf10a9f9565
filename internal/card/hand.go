package card

// Blackjack is the target score.
const Blackjack = 21

// Override changes how a card in hand is valued for the current hand only.
type Override struct {
	Value   int  // when > 0 the card counts as exactly this hard value
	Doubled bool // the card counts twice its hard value
}

// InHand is a card dealt into a hand.
type InHand struct {
	ID       ID
	FaceUp   bool
	Override Override
}

// value returns the contribution of the card and whether it is a soft ace.
func (c InHand) value() (int, bool) {
	switch {
	case c.Override.Value > 0:
		return c.Override.Value, false
	case c.Override.Doubled:
		return 2 * c.ID.Rank().Value(), false
	case c.ID.Rank() == Ace:
		return 11, true
	}
	return c.ID.Rank().Value(), false
}

// Hand is the ordered set of cards a player holds during one round.
type Hand struct {
	Cards   []InHand
	Stood   bool
	Doubled bool
}

// Add appends a card.
func (h *Hand) Add(id ID, faceUp bool) {
	h.Cards = append(h.Cards, InHand{ID: id, FaceUp: faceUp})
}

// Len is the number of cards held.
func (h *Hand) Len() int { return len(h.Cards) }

// Score is the Ace-optimal blackjack total.
func (h *Hand) Score() int {
	return score(h.Cards, false)
}

// VisibleScore scores only the face-up cards.
func (h *Hand) VisibleScore() int {
	return score(h.Cards, true)
}

func score(cards []InHand, visibleOnly bool) int {
	total, aces := 0, 0
	for _, c := range cards {
		if visibleOnly && !c.FaceUp {
			continue
		}
		v, soft := c.value()
		total += v
		if soft {
			aces++
		}
	}
	for total > Blackjack && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// Busted reports a score over 21.
func (h *Hand) Busted() bool { return h.Score() > Blackjack }

// Natural reports a two card 21.
func (h *Hand) Natural() bool {
	return len(h.Cards) == 2 && h.Score() == Blackjack
}

// RevealAll turns every card face up and returns the ids that were flipped.
func (h *Hand) RevealAll() []ID {
	var flipped []ID
	for i := range h.Cards {
		if !h.Cards[i].FaceUp {
			h.Cards[i].FaceUp = true
			flipped = append(flipped, h.Cards[i].ID)
		}
	}
	return flipped
}

// Clear moves every card into the deck's discard pile and resets flags.
func (h *Hand) Clear(d *Deck) {
	for _, c := range h.Cards {
		d.Discard(c.ID)
	}
	h.Cards = h.Cards[:0]
	h.Stood = false
	h.Doubled = false
}
