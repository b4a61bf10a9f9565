package card

import (
	"fmt"
	"strconv"
	"strings"
)

// DeckSize is the number of cards in the fixed card bank.
const DeckSize = 52

// Suit identifies one of the four French suits.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitSymbols = [...]string{"♥", "♦", "♣", "♠"}
var suitLetters = [...]string{"H", "D", "C", "S"}

func (s Suit) String() string {
	if s < Hearts || s > Spades {
		return "?"
	}
	return suitSymbols[s]
}

// Rank runs from Ace (1) to King (13).
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return strconv.Itoa(int(r))
}

// Value is the hard blackjack value of the rank (Ace counts 1).
func (r Rank) Value() int {
	if r >= 10 {
		return 10
	}
	return int(r)
}

// ID addresses a card in the bank: suit*13 + rank-1.
type ID int

// New builds the id for a suit and rank.
func New(s Suit, r Rank) ID {
	return ID(int(s)*13 + int(r) - 1)
}

func (id ID) Suit() Suit { return Suit(int(id) / 13) }
func (id ID) Rank() Rank { return Rank(int(id)%13 + 1) }

// Valid reports whether the id addresses a card in the bank.
func (id ID) Valid() bool { return id >= 0 && id < DeckSize }

func (id ID) String() string {
	if !id.Valid() {
		return "??"
	}
	return id.Rank().String() + id.Suit().String()
}

// Code is the ASCII form used by the console and data files, e.g. "10H".
func (id ID) Code() string {
	return id.Rank().String() + suitLetters[id.Suit()]
}

// Parse reads a card code such as "8D", "10h", "AS" or "Q♠".
func Parse(code string) (ID, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if len(code) < 2 {
		return 0, fmt.Errorf("invalid card code %q", code)
	}

	var suit Suit
	var rankPart string
	switch {
	case strings.HasSuffix(code, "H") || strings.HasSuffix(code, "♥"):
		suit = Hearts
	case strings.HasSuffix(code, "D") || strings.HasSuffix(code, "♦"):
		suit = Diamonds
	case strings.HasSuffix(code, "C") || strings.HasSuffix(code, "♣"):
		suit = Clubs
	case strings.HasSuffix(code, "S") || strings.HasSuffix(code, "♠"):
		suit = Spades
	default:
		return 0, fmt.Errorf("invalid suit in card code %q", code)
	}
	if strings.HasSuffix(code, "H") || strings.HasSuffix(code, "D") || strings.HasSuffix(code, "C") || strings.HasSuffix(code, "S") {
		rankPart = code[:len(code)-1]
	} else {
		// multi-byte suit symbol
		runes := []rune(code)
		rankPart = string(runes[:len(runes)-1])
	}

	var rank Rank
	switch rankPart {
	case "A", "1":
		rank = Ace
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(rankPart)
		if err != nil || n < 2 || n > 10 {
			return 0, fmt.Errorf("invalid rank in card code %q", code)
		}
		rank = Rank(n)
	}
	return New(suit, rank), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(code string) ID {
	id, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return id
}
