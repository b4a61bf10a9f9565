package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the game data and print what was loaded",
	Long: `Loads the embedded data with any --data_dir overrides, compiles every
guard expression and starts each act once with each class. Exits non-zero
on the first problem.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		content, err := loadContent(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Printf("enemies:  %d\n", len(content.Enemies))
		fmt.Printf("trinkets: %d\n", len(content.Trinkets))
		fmt.Printf("affixes:  %d\n", len(content.Affixes))
		fmt.Printf("tags:     %d\n", len(content.Tags))
		fmt.Printf("events:   %d\n", len(content.Events))
		fmt.Printf("acts:     %d\n", len(content.Acts))
		fmt.Printf("classes:  %d\n", len(content.Classes))

		for actKey := range content.Acts {
			for classKey := range content.Classes {
				run := cfg
				run.Act, run.Class = actKey, classKey
				if _, err := engine.New(run, content, engine.WithLogger(logger)); err != nil {
					return fmt.Errorf("act %s with class %s: %w", actKey, classKey, err)
				}
			}
		}
		fmt.Println("data OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
