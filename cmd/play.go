package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run in the terminal",
	Long: `Starts the interactive table. Type console commands such as
	> bet 10
	> hit
	> use class
	> target 7H
and press enter on an empty line to continue past timed screens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// the TUI owns the terminal, so logs go to the file or nowhere
		logger, closeLog, err := newLogger(cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()

		content, err := loadContent(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to load game data: %w", err)
		}

		var store session.Store
		if cfg.TraceFile != "" {
			s, err := persistence.NewStore(cfg.TraceFile)
			if err != nil {
				return err
			}
			store = s
		}
		sess, err := session.New(cfg, content, store, logger)
		if err != nil {
			if store != nil {
				store.Close()
			}
			return fmt.Errorf("failed to start run: %w", err)
		}
		defer sess.Close()

		if err := RunTUI(sess); err != nil {
			return fmt.Errorf("fatal TUI error: %w", err)
		}
		fmt.Printf("Run %s (seed %d)\n", sess.RunID(), sess.Seed())
		if cfg.TraceFile != "" {
			fmt.Printf("Trace saved to %s\n", cfg.TraceFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("trace_file", "", "append the run's input trace to this JSONL file")
	cobra.CheckErr(viper.BindPFlag("trace_file", playCmd.Flags().Lookup("trace_file")))
}
