// Package drift diagnoses what each hop of a translation chain did to the
// text: how much it changed, which tokens moved, why, and how far to trust it.
package drift

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/textsim"
)

// Similarity compares two texts and reports the method used.
// *embedding.Service implements it.
type Similarity interface {
	Similarity(ctx context.Context, text1, text2 string) (float64, string)
}

// LexicalSimilarity is the Jaccard-only Similarity
type LexicalSimilarity struct{}

// Similarity returns the Jaccard similarity of the two texts
func (LexicalSimilarity) Similarity(_ context.Context, text1, text2 string) (float64, string) {
	return textsim.Jaccard(text1, text2), model.MethodJaccard
}

// Analyzer produces step analyses
type Analyzer struct {
	sim               Similarity
	rareLanguages     map[string]bool
	priors            map[string]float64
	defaultConfidence float64
}

// NewAnalyzer creates an analyzer. A nil sim means lexical similarity only;
// empty config sections fall back to the defaults.
func NewAnalyzer(sim Similarity, cfg model.AnalysisConfig) *Analyzer {
	defaults := model.DefaultConfig().Analysis

	if sim == nil {
		sim = LexicalSimilarity{}
	}
	if len(cfg.RareLanguages) == 0 {
		cfg.RareLanguages = defaults.RareLanguages
	}
	if len(cfg.ProviderConfidence) == 0 {
		cfg.ProviderConfidence = defaults.ProviderConfidence
	}
	if cfg.DefaultConfidence <= 0 {
		cfg.DefaultConfidence = defaults.DefaultConfidence
	}

	rare := make(map[string]bool, len(cfg.RareLanguages))
	for _, lang := range cfg.RareLanguages {
		rare[strings.ToLower(lang)] = true
	}

	return &Analyzer{
		sim:               sim,
		rareLanguages:     rare,
		priors:            cfg.ProviderConfidence,
		defaultConfidence: cfg.DefaultConfidence,
	}
}

// AnalyzeStep diagnoses the hop that turned previousText into currentText
func (a *Analyzer) AnalyzeStep(ctx context.Context, currentText, previousText, fromLang, toLang, provider string) model.StepAnalysis {
	// 1. Token delta
	tokens := TokenDiff(previousText, currentText)

	// 2. Length change in characters
	prevLen := utf8.RuneCountInString(previousText)
	lengthChange := utf8.RuneCountInString(currentText) - prevLen
	lengthChangePercent := 0
	if prevLen > 0 {
		lengthChangePercent = roundHalfUp(float64(lengthChange) / float64(prevLen) * 100)
	}

	// 3. Local similarity
	similarity, method := a.sim.Similarity(ctx, previousText, currentText)
	similarity = textsim.Clamp01(similarity)

	// 4. Classification
	class := Classify(similarity)

	return model.StepAnalysis{
		FromLang:            fromLang,
		ToLang:              toLang,
		Provider:            provider,
		PreviousText:        previousText,
		CurrentText:         currentText,
		LocalSimilarity:     similarity,
		LocalDrift:          1 - similarity,
		Method:              method,
		EditSimilarity:      textsim.EditSimilarity(previousText, currentText),
		ChangeClass:         class,
		ChangeLabel:         class.Label(),
		Tokens:              tokens,
		LengthChange:        lengthChange,
		LengthChangePercent: lengthChangePercent,
		Reasons:             a.reasons(fromLang, toLang, tokens, similarity),
		Confidence:          a.Confidence(provider, similarity),
	}
}

// AnalyzeRun analyzes every pair of consecutive steps that both have text
func (a *Analyzer) AnalyzeRun(ctx context.Context, steps []model.Step) []model.StepAnalysis {
	var analyses []model.StepAnalysis

	for i := 1; i < len(steps); i++ {
		prev, cur := steps[i-1], steps[i]
		if !prev.HasText() || !cur.HasText() {
			continue
		}

		analysis := a.AnalyzeStep(ctx, cur.TextOrEmpty(), prev.TextOrEmpty(), prev.Language, cur.Language, cur.Provider)
		analysis.StepIndex = cur.Index
		analyses = append(analyses, analysis)
	}

	return analyses
}

// reasons collects every applicable drift reason
func (a *Analyzer) reasons(fromLang, toLang string, tokens model.TokenDelta, similarity float64) []model.Reason {
	reasons := []model.Reason{}

	if a.rareLanguages[strings.ToLower(fromLang)] || a.rareLanguages[strings.ToLower(toLang)] {
		reasons = append(reasons, model.Reason{
			Type:        model.ReasonRarePair,
			Description: fmt.Sprintf("Rare language pair %s→%s", fromLang, toLang),
			Impact:      model.ImpactHigh,
		})
	}

	if tokens.LostCount > 3 {
		reasons = append(reasons, model.Reason{
			Type:        model.ReasonWordLoss,
			Description: fmt.Sprintf("Lost %d words: %s...", tokens.LostCount, strings.Join(firstN(tokens.Lost, 3), ", ")),
			Impact:      model.ImpactMedium,
		})
	}

	if similarity < 0.7 {
		reasons = append(reasons, model.Reason{
			Type:        model.ReasonSemanticShift,
			Description: "Semantic shift: the overall meaning changed",
			Impact:      model.ImpactHigh,
		})
	}

	if tokens.GainedCount > tokens.LostCount {
		reasons = append(reasons, model.Reason{
			Type:        model.ReasonConceptExpansion,
			Description: "New concepts appeared in the translation",
			Impact:      model.ImpactMedium,
		})
	}

	return reasons
}

// Confidence scales the provider prior by the local similarity:
// prior * (0.5 + 0.5*s), rounded to three decimals
func (a *Analyzer) Confidence(provider string, similarity float64) float64 {
	base, ok := a.priors[provider]
	if !ok {
		base = a.defaultConfidence
	}
	// Three decimals: two would turn 0.85*0.5 = 0.425 into 0.43
	return math.Round(base*(0.5+0.5*similarity)*1000) / 1000
}

// TokenDiff compares the lower-cased word tokens of two texts.
// Each list keeps the order of first appearance.
func TokenDiff(previousText, currentText string) model.TokenDelta {
	prev := textsim.Unique(textsim.Tokenize(previousText))
	cur := textsim.Unique(textsim.Tokenize(currentText))
	prevSet := textsim.Set(prev)
	curSet := textsim.Set(cur)

	delta := model.TokenDelta{
		Lost:      []string{},
		Gained:    []string{},
		Preserved: []string{},
	}
	for _, t := range prev {
		if curSet[t] {
			delta.Preserved = append(delta.Preserved, t)
		} else {
			delta.Lost = append(delta.Lost, t)
		}
	}
	for _, t := range cur {
		if !prevSet[t] {
			delta.Gained = append(delta.Gained, t)
		}
	}

	delta.LostCount = len(delta.Lost)
	delta.GainedCount = len(delta.Gained)
	delta.PreservedCount = len(delta.Preserved)
	return delta
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
