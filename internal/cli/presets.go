package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/driftchain/internal/presets"
)

// presetsCmd lists the named chains
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List preset language chains",
	Long: `List the named chains usable with --preset.

Example:
  driftchain presets
  driftchain run "Break a leg" --preset metaphor-killer`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDIFFICULTY\tCHAIN")
		for _, p := range presets.All() {
			fmt.Fprintf(w, "%s\t%s\t%d/5\t%s\n", p.ID, p.Name, p.Difficulty, strings.Join(p.Languages, " → "))
			if verbose && p.Description != "" {
				fmt.Fprintf(w, "\t%s\t\t\n", p.Description)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
