package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play many runs with the autopilot and record the results",
	Long: `Plays --runs complete runs with a fixed house strategy, one seed per run
starting at --seed, and stores one row per run in the SQLite results
database. Useful for balancing enemies, trinkets and events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		runs, _ := cmd.Flags().GetInt("runs")
		maxSteps, _ := cmd.Flags().GetInt("max_steps")
		traceDir, _ := cmd.Flags().GetString("traces")
		if runs <= 0 {
			return fmt.Errorf("--runs must be positive")
		}
		if cfg.ResultsDB == "" {
			cfg.ResultsDB = "results.db"
		}

		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()
		content, err := loadContent(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to load game data: %w", err)
		}
		db, err := persistence.OpenResults(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer db.Close()

		var traces *persistence.TraceDir
		if traceDir != "" {
			traces = persistence.NewTraceDir(traceDir)
		}

		ctx := context.Background()
		base := cfg.Seed
		if base == 0 {
			base = 1
		}
		pilot := session.NewAutopilot()
		bar := progressbar.Default(int64(runs), "Simulating")
		for i := 0; i < runs; i++ {
			run := cfg
			run.Seed = base + uint64(i)
			runID := uuid.NewString()
			var store session.Store
			if traces != nil {
				if store, err = traces.Create(runID); err != nil {
					return err
				}
			}
			sess, err := session.Start(runID, run, content, store, logger)
			if err != nil {
				if store != nil {
					store.Close()
				}
				return err
			}
			if err := pilot.Play(sess, maxSteps); err != nil {
				logger.Printf("warn: run %s: %v", sess.RunID(), err)
			}
			if err := db.Record(ctx, sess.Result()); err != nil {
				sess.Close()
				return err
			}
			if err := sess.Close(); err != nil {
				return err
			}
			bar.Add(1)
		}

		summary, err := db.Summary(ctx, cfg.Act)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s, act %s: %d runs recorded\n", cfg.ResultsDB, cfg.Act, summary.Runs)
		fmt.Printf("  win rate     %.1f%%\n", summary.WinRate()*100)
		fmt.Printf("  encounters   %.2f\n", summary.AvgEncounters)
		fmt.Printf("  hands        %.1f\n", summary.AvgHands)
		fmt.Printf("  final chips  %.1f\n", summary.AvgChips)
		fmt.Printf("  damage       %.1f\n", summary.AvgDamage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("runs", 100, "number of runs to simulate")
	simulateCmd.Flags().Int("max_steps", 20000, "autopilot decisions per run before it is abandoned")
	simulateCmd.Flags().String("db", "", "SQLite results database (default results.db)")
	simulateCmd.Flags().String("traces", "", "directory to keep one JSONL trace per run")
	cobra.CheckErr(viper.BindPFlag("results_db", simulateCmd.Flags().Lookup("db")))
}
