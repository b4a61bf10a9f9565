package player

import "fmt"

// SanityTier buckets sanity percentage. Higher tiers are worse.
type SanityTier int

const (
	SanityHigh SanityTier = iota
	SanityMedium
	SanityLow
	SanityVeryLow
	SanityZero
)

var tierNames = [...]string{"HIGH", "MEDIUM", "LOW", "VERY_LOW", "ZERO"}

func (t SanityTier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "UNKNOWN"
	}
	return tierNames[t]
}

// Tier maps the player's sanity to its tier.
func (p *Player) Tier() SanityTier {
	pct := p.SanityPercent()
	switch {
	case p.Sanity <= 0:
		return SanityZero
	case pct <= 25:
		return SanityVeryLow
	case pct <= 50:
		return SanityLow
	case pct <= 75:
		return SanityMedium
	}
	return SanityHigh
}

// BetOption is one bet button.
type BetOption struct {
	// Base is the amount before the all-in clamp.
	Base    int
	Amount  int
	Enabled bool
	AllIn   bool
}

// Label is the button text. Bets above the stack read as all-in.
func (o BetOption) Label() string {
	if o.AllIn {
		return fmt.Sprintf("ALL IN (%d)", o.Amount)
	}
	return fmt.Sprintf("BET %d", o.Amount)
}

// BetOptions applies the class sanity rules to the base min/med/max bets.
// Effects are cumulative with tier.
//
// Degenerate: MEDIUM drops min, LOW doubles max, VERY_LOW drops med, ZERO
// doubles max again. Dealer: MEDIUM drops max. Detective: MEDIUM allows med
// only.
func (p *Player) BetOptions(base [3]int) [3]BetOption {
	var opts [3]BetOption
	for i, b := range base {
		opts[i] = BetOption{Base: b, Amount: b, Enabled: true}
	}
	tier := p.Tier()

	switch p.Class {
	case Degenerate:
		if tier >= SanityMedium {
			opts[0].Enabled = false
		}
		if tier >= SanityLow {
			opts[2].Amount = base[2] * 2
			opts[2].Base = opts[2].Amount
		}
		if tier >= SanityVeryLow {
			opts[1].Enabled = false
		}
		if tier == SanityZero {
			opts[2].Amount = base[2] * 4
			opts[2].Base = opts[2].Amount
		}
	case Dealer:
		if tier >= SanityMedium {
			opts[2].Enabled = false
		}
	case Detective:
		if tier >= SanityMedium {
			opts[0].Enabled = false
			opts[2].Enabled = false
		}
	}

	for i := range opts {
		if opts[i].Amount > p.Chips {
			opts[i].AllIn = true
			opts[i].Amount = p.Chips
		}
		if p.Chips == 0 {
			opts[i].Enabled = false
		}
	}
	return opts
}

// SeesHoleCard reports whether the dealer-class LOW sanity rule exposes the
// dealer's face-down card.
func (p *Player) SeesHoleCard() bool {
	return p.Class == Dealer && p.Tier() >= SanityLow
}
