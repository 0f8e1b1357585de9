package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/pipeline"
	"github.com/ppiankov/driftchain/internal/presets"
	"github.com/ppiankov/driftchain/internal/store"
)

var (
	chainFlag  string
	presetFlag string
	outJSON    string
	runTimeout time.Duration
	noCache    bool
	noStore    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <text>",
	Short: "Send a text through a language chain and measure drift",
	Long: `Run translates a text hop by hop through a chain of languages:
- Rotate across translation providers, retrying failed hops
- Fingerprint every hop and compare it to the original
- Classify each hop (minimal, stable, moderate, significant, critical)
  with reasons and confidence
- Track keyword survival and flag notable mutations
- Store the run for 'driftchain history' and 'driftchain show'

The first language of the chain is the language of the text.

Example:
  driftchain run "The early bird catches the worm" --chain en,ru,ja,en
  driftchain run "Break a leg" --preset metaphor-killer --json run.json
  driftchain run "Hello" --chain en,eu,ka,en --providers mymemory,google`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&chainFlag, "chain", "", "comma-separated language chain (e.g. en,ru,ja,en)")
	runCmd.Flags().StringVar(&presetFlag, "preset", "", "use a named preset chain (see 'driftchain presets')")
	runCmd.Flags().StringVar(&outJSON, "json", "", "write the full result as JSON to this path")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")
	addPipelineFlags(runCmd)
}

// addPipelineFlags registers the flags shared by run and batch
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the translation and fingerprint cache")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist runs")
	cmd.Flags().StringSlice("providers", nil, "translation provider rotation (google, mymemory, libretranslate, openai, ollama, anthropic)")
	cmd.Flags().String("embedding", "", "embedding provider (huggingface, openai, ollama, genai, none)")
	cmd.Flags().Duration("hop-delay", 0, "minimum delay between translation hops")
}

// bindPipelineFlags binds the executing command's flags. Binding happens at
// run time because run and batch share viper keys.
func bindPipelineFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("translation.providers", cmd.Flags().Lookup("providers"))
	_ = viper.BindPFlag("embedding.provider", cmd.Flags().Lookup("embedding"))
	_ = viper.BindPFlag("translation.hop_delay", cmd.Flags().Lookup("hop-delay"))
}

func runRun(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	chain, label, err := resolveChain(chainFlag, presetFlag)
	if err != nil {
		return err
	}

	bindPipelineFlags(cmd)
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	p, closeFn, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if verbose {
		fmt.Fprintf(os.Stderr, "Chain:      %s%s\n", strings.Join(chain, " → "), label)
		fmt.Fprintf(os.Stderr, "Providers:  %s\n", strings.Join(cfg.Translation.Providers, ", "))
		fmt.Fprintf(os.Stderr, "Embedding:  %s\n", cfg.Embedding.Provider)
		fmt.Fprintf(os.Stderr, "Cache:      %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Translating through %d languages...\n", len(chain))
	result, err := p.RunChain(ctx, text, chain)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON result: %s\n", outJSON)
	}
	renderer.RenderSummary(cmd.OutOrStdout(), result)
	return nil
}

// resolveChain picks the chain from --chain or --preset (exactly one)
func resolveChain(chain, preset string) ([]string, string, error) {
	switch {
	case chain != "" && preset != "":
		return nil, "", fmt.Errorf("use either --chain or --preset, not both")
	case preset != "":
		p, err := presets.Get(preset)
		if err != nil {
			return nil, "", err
		}
		return p.Languages, fmt.Sprintf(" (%s)", p.Name), nil
	case chain != "":
		return parseChain(chain), "", nil
	default:
		return nil, "", fmt.Errorf("a chain is required: pass --chain or --preset")
	}
}

// buildPipeline wires the pipeline to the SQLite store unless persistence is off
func buildPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, func(), error) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noStore {
		cfg.Store.Enabled = false
	}

	opts := pipeline.Options{Logger: logger}
	closeFn := func() {}

	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open run store: %w", err)
		}
		opts.Sink = s
		closeFn = func() {
			if err := s.Close(); err != nil {
				logger.Warn("close run store", zap.Error(err))
			}
		}
	}

	p, err := pipeline.NewPipeline(ctx, cfg, opts)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("build pipeline: %w", err)
	}
	return p, closeFn, nil
}
