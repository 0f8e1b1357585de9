package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/driftchain/internal/pipeline"
	"github.com/ppiankov/driftchain/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchChain   string
	batchPreset  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run many texts through the same chain in parallel",
	Long: `Batch runs every text of a file through one language chain:
- Read texts from the input file (one per line, # comments, duplicates dropped)
- Run texts in parallel with a configurable worker count
- Each run is still translated strictly hop by hop
- Write one JSON result per text

Example:
  driftchain batch phrases.txt --chain en,ru,ja,en
  driftchain batch phrases.txt --preset silk-road --concurrency 4 --output-dir ./runs`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchChain, "chain", "", "comma-separated language chain (e.g. en,ru,ja,en)")
	batchCmd.Flags().StringVar(&batchPreset, "preset", "", "use a named preset chain")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent runs (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./driftchain-runs", "output directory for JSON results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	addPipelineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	chain, label, err := resolveChain(batchChain, batchPreset)
	if err != nil {
		return err
	}

	bindPipelineFlags(cmd)
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  driftchain Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Chain:        %s%s\n", strings.Join(chain, " → "), label)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := pipeline.Validate("batch", chain, cfg.Analysis.MaxTextLength); err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, closeFn, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	processor := worker.NewBatchProcessor(p, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Running texts with %d workers...\n\n", workers)
	outcomes, err := processor.ProcessFile(ctx, file, chain)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	renderer := pipeline.NewRenderer(cfg.Output.Verbose)

	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", preview(outcome.Text), outcome.Error)
			continue
		}

		result := outcome.Result
		jsonPath := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.json", outcome.Index+1, sanitizeFilename(outcome.Text)))
		if err := renderer.RenderJSON(result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", preview(outcome.Text), err)
			continue
		}

		successCount++
		status := "complete"
		switch {
		case result.Cancelled:
			status = "cancelled"
		case !result.Complete:
			status = "aborted"
		}
		fmt.Fprintf(os.Stderr, "✓ %s (drift: %.0f%%, %s)\n", preview(outcome.Text), result.OverallDrift*100, status)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d texts\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename turns the start of a text into a safe file name slug
func sanitizeFilename(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r == '.':
			continue
		case r == ' ' || r == '\t' || r == '_' || r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		default:
			b.WriteRune(r)
			lastDash = false
		}
		if b.Len() >= 40 {
			break
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "run"
	}
	return slug
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:40]) + "…"
	}
	return s
}
