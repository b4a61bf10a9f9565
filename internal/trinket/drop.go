package trinket

import (
	"errors"
	"fmt"
)

// ErrNoTemplates is returned when nothing can drop.
var ErrNoTemplates = errors.New("no droppable trinket templates")

// Rand is the random source the dropper draws from.
type Rand interface {
	IntN(n int) int
}

// AffixTemplate is a rollable stat bonus.
type AffixTemplate struct {
	Stat Stat
	Name string
	Min  int
	Max  int
}

// DefaultWeights are the rarity weights for common, uncommon, rare and
// legendary drops.
var DefaultWeights = [4]int{60, 28, 10, 2}

var affixCount = map[Rarity]int{Common: 1, Uncommon: 2, Rare: 2, Legendary: 3}

// Dropper rolls trinket rewards. Each source (normal, elite, boss) keeps a
// pity counter of drops below Rare; at the threshold the next drop is
// upgraded to Rare.
type Dropper struct {
	pool          map[Rarity][]*Template
	affixes       []AffixTemplate
	weights       [4]int
	pityThreshold int
	pity          map[string]int
}

// NewDropper indexes the droppable templates. Event and class trinkets never
// drop.
func NewDropper(templates []*Template, affixes []AffixTemplate, pityThreshold int) *Dropper {
	d := &Dropper{
		pool:          make(map[Rarity][]*Template),
		affixes:       affixes,
		weights:       DefaultWeights,
		pityThreshold: pityThreshold,
		pity:          make(map[string]int),
	}
	for _, t := range templates {
		if t.Rarity <= Legendary {
			d.pool[t.Rarity] = append(d.pool[t.Rarity], t)
		}
	}
	return d
}

// Pity returns the current miss counter of a source.
func (d *Dropper) Pity(source string) int { return d.pity[source] }

// Roll picks a template and rolls its instance for the given tier.
func (d *Dropper) Roll(source string, tier int, rng Rand) (*Instance, error) {
	rarity := d.rollRarity(rng)
	if d.pityThreshold > 0 && d.pity[source] >= d.pityThreshold && rarity < Rare {
		rarity = Rare
	}
	if rarity >= Rare {
		d.pity[source] = 0
	} else {
		d.pity[source]++
	}

	t := d.pick(rarity, rng)
	if t == nil {
		return nil, fmt.Errorf("roll %s trinket: %w", rarity, ErrNoTemplates)
	}
	// the instance takes the rarity of the template actually picked
	in := NewInstance(t, tier)
	in.Affixes = d.rollAffixes(affixCount[in.Rarity], in.Tier, rng)
	in.SellValue = t.BaseValue*in.Tier + 5*len(in.Affixes)
	return in, nil
}

func (d *Dropper) rollRarity(rng Rand) Rarity {
	total := 0
	for _, w := range d.weights {
		total += w
	}
	n := rng.IntN(total)
	for i, w := range d.weights {
		if n < w {
			return Rarity(i)
		}
		n -= w
	}
	return Common
}

// pick takes a template of the rarity, falling back to lower then higher
// rarities when the pool for it is empty.
func (d *Dropper) pick(r Rarity, rng Rand) *Template {
	order := []Rarity{r}
	for x := r - 1; x >= Common; x-- {
		order = append(order, x)
	}
	for x := r + 1; x <= Legendary; x++ {
		order = append(order, x)
	}
	for _, x := range order {
		if ts := d.pool[x]; len(ts) > 0 {
			return ts[rng.IntN(len(ts))]
		}
	}
	return nil
}

// rollAffixes picks n distinct affixes with values scaled by tier.
func (d *Dropper) rollAffixes(n, tier int, rng Rand) []Affix {
	idx := make([]int, len(d.affixes))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	if n > len(idx) {
		n = len(idx)
	}
	res := make([]Affix, 0, n)
	for _, i := range idx[:n] {
		a := d.affixes[i]
		v := a.Min
		if a.Max > a.Min {
			v += rng.IntN(a.Max - a.Min + 1)
		}
		res = append(res, Affix{Stat: a.Stat, Name: a.Name, Value: v * (tier + 1) / 2})
	}
	return res
}
