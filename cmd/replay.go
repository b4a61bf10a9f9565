package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.jsonl>",
	Short: "Rebuild a run from its trace and print the final state",
	Long: `Reads a JSONL trace written by play or simulate, starts a fresh engine
with the recorded seed, act and class, feeds it every recorded frame and
prints the resulting state. Use --json for the full snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		if _, err := os.Stat(args[0]); err != nil {
			return err
		}
		store, err := persistence.NewStore(args[0])
		if err != nil {
			return err
		}
		defer store.Close()
		content, err := loadContent(cfg, logger)
		if err != nil {
			return err
		}

		sess, err := session.Replay(store, content, cfg, logger)
		if err != nil {
			return err
		}
		view := sess.Engine().View()
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}

		fmt.Printf("run %s seed %d\n", sess.RunID(), sess.Seed())
		fmt.Printf("state %s, act %s encounter %d/%d, round %d\n", view.State, view.Act, view.Encounter, view.Encounters, view.Round)
		fmt.Printf("chips %d, sanity %d/%d\n", view.Chips, view.Sanity, view.MaxSanity)
		if view.Enemy != nil {
			fmt.Printf("enemy %s %d/%d HP\n", view.Enemy.Name, view.Enemy.HP, view.Enemy.MaxHP)
		}
		r := sess.Result()
		fmt.Printf("outcome %s, hands %d, damage %d\n", r.Outcome, r.Hands, r.Damage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("json", false, "print the final state as JSON")
}
