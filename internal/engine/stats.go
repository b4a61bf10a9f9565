package engine

// Damage sources credited in the run statistics.
const (
	SourceHand    = "hand"
	SourceTag     = "tag"
	SourceTrinket = "trinket"
	SourceAbility = "ability"
)

// RunStats are the counters kept for one run.
type RunStats struct {
	Rounds            int            `json:"rounds"`
	HandsWon          int            `json:"hands_won"`
	HandsLost         int            `json:"hands_lost"`
	HandsPushed       int            `json:"hands_pushed"`
	Blackjacks        int            `json:"blackjacks"`
	Busts             int            `json:"busts"`
	Damage            map[string]int `json:"damage"`
	Crits             int            `json:"crits"`
	ChipsDrained      int            `json:"chips_drained"`
	Rerolls           int            `json:"rerolls"`
	EncountersCleared int            `json:"encounters_cleared"`
	EnemiesDefeated   int            `json:"enemies_defeated"`
	PeakChips         int            `json:"peak_chips"`
}

func newRunStats(chips int) RunStats {
	return RunStats{Damage: make(map[string]int), PeakChips: chips}
}

// TotalDamage sums damage over every source.
func (s RunStats) TotalDamage() int {
	total := 0
	for _, v := range s.Damage {
		total += v
	}
	return total
}

func (s *RunStats) credit(source string, amount int) {
	if amount > 0 {
		s.Damage[source] += amount
	}
}

func (s *RunStats) seenChips(chips int) {
	if chips > s.PeakChips {
		s.PeakChips = chips
	}
}
