package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/driftchain/internal/model"
)

// Renderer writes run results as JSON files and terminal summaries
type Renderer struct {
	verbose bool
}

// NewRenderer creates a new renderer
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes the full result to path, creating parent directories
func (r *Renderer) RenderJSON(result *model.RunResult, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the chain, per-hop drift and mutations
func (r *Renderer) RenderSummary(w io.Writer, result *model.RunResult) {
	fmt.Fprintf(w, "\nRun %s\n", result.ID)
	fmt.Fprintf(w, "Chain: %s\n\n", strings.Join(result.Chain, " → "))

	records := make(map[int]model.DriftRecord, len(result.DriftRecords))
	for _, rec := range result.DriftRecords {
		records[rec.StepIndex] = rec
	}
	analyses := make(map[int]model.StepAnalysis, len(result.StepAnalyses))
	for _, a := range result.StepAnalyses {
		analyses[a.StepIndex] = a
	}

	for _, step := range result.Steps {
		if !step.HasText() {
			fmt.Fprintf(w, "  [%d] %-3s ✗ %s\n", step.Index, step.Language, step.Error)
			continue
		}

		line := fmt.Sprintf("  [%d] %-3s %s", step.Index, step.Language, step.TextOrEmpty())
		if rec, ok := records[step.Index]; ok {
			line += fmt.Sprintf("  (similarity %.2f via %s", rec.SimilarityToOriginal, rec.Method)
			if a, ok := analyses[step.Index]; ok {
				line += fmt.Sprintf(", %s", a.ChangeLabel)
			}
			line += ")"
		}
		if r.verbose && step.Provider != model.ProviderOriginal {
			line += fmt.Sprintf(" [%s", step.Provider)
			if step.Cached {
				line += ", cached"
			}
			line += "]"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "\nOverall drift: %.1f%%\n", result.OverallDrift*100)
	fmt.Fprintf(w, "Final text: %s\n", result.FinalText)

	if result.Cancelled {
		fmt.Fprintf(w, "Cancelled: %s\n", result.CancelReason)
	} else if !result.Complete {
		fmt.Fprintln(w, "Incomplete: the chain stopped at a failed hop")
	}

	if len(result.Mutations) > 0 {
		fmt.Fprintln(w, "\nMutations:")
		for _, m := range result.Mutations {
			fmt.Fprintf(w, "  • [%s] %s\n", m.Type, m.Description)
		}
	}

	if r.verbose && len(result.KeywordLineages) > 0 {
		fmt.Fprintln(w, "\nKeywords:")
		for _, l := range result.KeywordLineages {
			status := string(l.FinalStatus)
			if l.LostAtStep != nil {
				status += fmt.Sprintf(" (lost from step %d)", *l.LostAtStep)
			}
			fmt.Fprintf(w, "  %-16s %3.0f%% %s\n", l.Keyword, l.PreservationRate*100, status)
		}
	}

	if result.PersistError != "" {
		fmt.Fprintf(w, "\nWarning: run not saved: %s\n", result.PersistError)
	}
}
