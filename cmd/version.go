package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/data"
)

// Build metadata, set with -ldflags "-X .../cmd.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build and the bundled game data",
	Long: `Prints the fiftytwo build metadata and a count of the game data embedded
in the binary (acts, enemies, trinkets, events and classes). Files in
--data_dir override these defaults at run time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := data.NewLoader(nil).Load()
		if err != nil {
			return err
		}
		printVersion(cmd.OutOrStdout(), content)
		return nil
	},
}

func printVersion(w io.Writer, c *data.Content) {
	fmt.Fprintf(w, "fiftytwo %s (%s, built %s, %s %s/%s)\n",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "bundled data: %d acts, %d enemies, %d trinkets, %d events, %d classes\n",
		len(c.Acts), len(c.Enemies), len(c.Trinkets), len(c.Events), len(c.Classes))
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
