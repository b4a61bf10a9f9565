// Package config holds the tunables of a run. cmd binds them to viper keys.
package config

import "fmt"

type Config struct {
	DataDir            string  `mapstructure:"data_dir" yaml:"data_dir"`
	Seed               uint64  `mapstructure:"seed" yaml:"seed"`
	Act                string  `mapstructure:"act" yaml:"act"`
	Class              string  `mapstructure:"class" yaml:"class"`
	StartingChips      int     `mapstructure:"starting_chips" yaml:"starting_chips"`
	StartingSanity     int     `mapstructure:"starting_sanity" yaml:"starting_sanity"`
	BetAmounts         []int   `mapstructure:"bet_amounts" yaml:"bet_amounts"`
	RerollBaseCost     int     `mapstructure:"reroll_base_cost" yaml:"reroll_base_cost"`
	PreviewSeconds     float64 `mapstructure:"preview_seconds" yaml:"preview_seconds"`
	VictorySeconds     float64 `mapstructure:"victory_seconds" yaml:"victory_seconds"`
	RoundEndSeconds    float64 `mapstructure:"round_end_seconds" yaml:"round_end_seconds"`
	DealSeconds        float64 `mapstructure:"deal_seconds" yaml:"deal_seconds"`
	DealerStepSeconds  float64 `mapstructure:"dealer_step_seconds" yaml:"dealer_step_seconds"`
	PopupSeconds       float64 `mapstructure:"popup_seconds" yaml:"popup_seconds"`
	HPTweenRate        float64 `mapstructure:"hp_tween_rate" yaml:"hp_tween_rate"`
	ReshuffleThreshold int     `mapstructure:"reshuffle_threshold" yaml:"reshuffle_threshold"`
	DealerStandsOn     int     `mapstructure:"dealer_stands_on" yaml:"dealer_stands_on"`
	PityThreshold      int     `mapstructure:"pity_threshold" yaml:"pity_threshold"`
	RewardOfferCount   int     `mapstructure:"reward_offer_count" yaml:"reward_offer_count"`
	LogFile            string  `mapstructure:"log_file" yaml:"log_file"`
	TraceFile          string  `mapstructure:"trace_file" yaml:"trace_file"`
	ResultsDB          string  `mapstructure:"results_db" yaml:"results_db"`
	Listen             string  `mapstructure:"listen" yaml:"listen"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Act:               "tutorial",
		Class:             "degenerate",
		StartingChips:     100,
		StartingSanity:    100,
		BetAmounts:        []int{10, 50, 100},
		RerollBaseCost:    50,
		PreviewSeconds:    3,
		VictorySeconds:    2,
		RoundEndSeconds:   3,
		DealSeconds:       1,
		DealerStepSeconds: 0.5,
		PopupSeconds:      1.5,
		HPTweenRate:       60,
		DealerStandsOn:    17,
		PityThreshold:     5,
		RewardOfferCount:  3,
		Listen:            ":8052",
	}
}

// Bets returns the min/med/max bet amounts.
func (c Config) Bets() [3]int {
	var b [3]int
	copy(b[:], c.BetAmounts)
	return b
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.StartingChips <= 0 {
		return fmt.Errorf("starting_chips must be positive, got %d", c.StartingChips)
	}
	if c.StartingSanity <= 0 {
		return fmt.Errorf("starting_sanity must be positive, got %d", c.StartingSanity)
	}
	if len(c.BetAmounts) != 3 {
		return fmt.Errorf("bet_amounts needs exactly 3 values, got %d", len(c.BetAmounts))
	}
	for _, b := range c.BetAmounts {
		if b <= 0 {
			return fmt.Errorf("bet amounts must be positive, got %v", c.BetAmounts)
		}
	}
	if c.RerollBaseCost < 0 {
		return fmt.Errorf("reroll_base_cost cannot be negative")
	}
	if c.DealerStandsOn < 2 || c.DealerStandsOn > 21 {
		return fmt.Errorf("dealer_stands_on must be in 2..21, got %d", c.DealerStandsOn)
	}
	return nil
}
