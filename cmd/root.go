package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/config"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fiftytwo",
	Short: "A blackjack roguelike for the terminal",
	Long: `Card Fifty-Two turns every hand of blackjack into a fight.
Win hands to damage the enemy across the table, lose them and your chips
bleed away. Trinkets, card tags and narrative events shape each run.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fiftytwo.yaml)")
	rootCmd.PersistentFlags().String("data_dir", "", "directory with YAML overrides for the embedded game data")
	rootCmd.PersistentFlags().Uint64("seed", 0, "RNG seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().String("act", "", "act to play (tutorial, short, casino)")
	rootCmd.PersistentFlags().String("class", "", "player class (degenerate, dealer, detective, dreamer)")
	rootCmd.PersistentFlags().String("log_file", "", "write engine logs to this file")

	for _, key := range []string{"data_dir", "seed", "act", "class", "log_file"} {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fiftytwo")
	}

	setDefaults()
	viper.SetEnvPrefix("FIFTYTWO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so unset flags fall back to the
// stock value and FIFTYTWO_* variables reach every key.
func setDefaults() {
	d := config.Default()
	for key, v := range map[string]any{
		"act":                 d.Act,
		"class":               d.Class,
		"starting_chips":      d.StartingChips,
		"starting_sanity":     d.StartingSanity,
		"bet_amounts":         d.BetAmounts,
		"reroll_base_cost":    d.RerollBaseCost,
		"preview_seconds":     d.PreviewSeconds,
		"victory_seconds":     d.VictorySeconds,
		"round_end_seconds":   d.RoundEndSeconds,
		"deal_seconds":        d.DealSeconds,
		"dealer_step_seconds": d.DealerStepSeconds,
		"popup_seconds":       d.PopupSeconds,
		"hp_tween_rate":       d.HPTweenRate,
		"reshuffle_threshold": d.ReshuffleThreshold,
		"dealer_stands_on":    d.DealerStandsOn,
		"pity_threshold":      d.PityThreshold,
		"reward_offer_count":  d.RewardOfferCount,
		"trace_file":          d.TraceFile,
		"results_db":          d.ResultsDB,
		"listen":              d.Listen,
	} {
		viper.SetDefault(key, v)
	}
}

// loadConfig decodes the viper keys into a Config.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// newLogger opens the configured log file. With no log file the logger
// writes to fallback.
func newLogger(cfg config.Config, fallback io.Writer) (*log.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return log.New(fallback, "", log.LstdFlags), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f.Close, nil
}

// loadContent reads the game data with the configured override directory.
func loadContent(cfg config.Config, logger *log.Logger) (*data.Content, error) {
	var dirs []string
	if cfg.DataDir != "" {
		dirs = append(dirs, cfg.DataDir)
	}
	return session.LoadContent(dirs, logger)
}
