package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/pipeline"
	"github.com/ppiankov/driftchain/internal/store"
)

var (
	historyLimit int
	showJSON     bool
)

// historyCmd lists stored runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Long: `List stored runs, newest first.

Example:
  driftchain history
  driftchain history --limit 100`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// showCmd prints one stored run
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored run",
	Long: `Show the steps and drift of a stored run.

Example:
  driftchain show 2b1f0c9e-...
  driftchain show 2b1f0c9e-... --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// statsCmd aggregates stored runs
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals across stored runs",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored record as JSON")
}

func openStore() (*store.SQLiteStore, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return s, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	runs, err := s.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tDRIFT\tCHAIN\tTEXT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\t%s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.OverallDrift*100,
			strings.Join(r.Chain, "→"),
			preview(r.OriginalText),
		)
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	record, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if showJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	pipeline.NewRenderer(verbose).RenderSummary(cmd.OutOrStdout(), resultFromRecord(record))
	return nil
}

// resultFromRecord rebuilds the renderable part of a result from a stored record
func resultFromRecord(r *model.RunRecord) *model.RunResult {
	complete := len(r.Steps) == len(r.Chain)
	for _, step := range r.Steps {
		if !step.HasText() {
			complete = false
		}
	}
	return &model.RunResult{
		ID:           r.ID,
		OriginalText: r.OriginalText,
		Chain:        r.Chain,
		Steps:        r.Steps,
		DriftRecords: r.DriftRecords,
		OverallDrift: r.OverallDrift,
		FinalText:    r.FinalText,
		Complete:     complete,
		StartedAt:    r.Timestamp,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Runs:             %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "Max drift:        %.0f%%\n", stats.MaxDrift*100)
	fmt.Fprintf(out, "Average drift:    %.0f%%\n", stats.AverageDrift*100)
	fmt.Fprintf(out, "Languages used:   %d", stats.UniqueLanguages)
	if stats.UniqueLanguages > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(stats.LanguagesUsed, ", "))
	}
	fmt.Fprintln(out)
	return nil
}
