package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/driftchain/internal/cache"
	"github.com/ppiankov/driftchain/internal/drift"
	"github.com/ppiankov/driftchain/internal/embedding"
	"github.com/ppiankov/driftchain/internal/keywords"
	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/presets"
	"github.com/ppiankov/driftchain/internal/translate"
	"github.com/ppiankov/driftchain/internal/worker"
)

// MinChainLength is the shortest accepted chain: a source language and two hops
const MinChainLength = 3

// Input validation errors, the only hard errors RunChain returns
var (
	ErrInvalidChain = errors.New("invalid chain")
	ErrEmptyText    = errors.New("text is empty")
	ErrTextTooLong  = errors.New("text is too long")
)

// Options overrides the components NewPipeline would build from config
type Options struct {
	Orchestrator *translate.Orchestrator
	Embeddings   *embedding.Service
	Analyzer     *drift.Analyzer
	Sink         Sink
	Logger       *zap.Logger
}

// Pipeline runs a text through a chain and analyzes the result
type Pipeline struct {
	orchestrator  *translate.Orchestrator
	embeddings    *embedding.Service
	analyzer      *drift.Analyzer
	sink          Sink
	logger        *zap.Logger
	maxTextLength int
}

// NewPipeline creates a pipeline. Components missing from opts are built
// from cfg and share one cache.
func NewPipeline(ctx context.Context, cfg *model.Config, opts Options) (*Pipeline, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	var shared cache.Cache
	sharedCache := func() cache.Cache {
		if shared == nil {
			shared = cache.New(cfg.Cache)
		}
		return shared
	}

	if opts.Orchestrator == nil {
		providers, err := translate.NewProviders(cfg)
		if err != nil {
			return nil, fmt.Errorf("translation providers: %w", err)
		}
		limiter := worker.NewLimiter(cfg.Translation.ProviderRPS, 1)
		for name, rps := range cfg.Translation.ProviderRPSOverrides {
			limiter.SetRate(strings.ToLower(name), rps, 1)
		}
		opts.Orchestrator = translate.NewOrchestrator(providers, translate.Options{
			Cache:       sharedCache(),
			CacheTTL:    cfg.Translation.CacheTTL,
			Limiter:     limiter,
			HopDelay:    cfg.Translation.HopDelay,
			MaxAttempts: cfg.Translation.MaxAttempts,
			Logger:      logger.Named("translate"),
		})
	}

	if opts.Embeddings == nil {
		engine, err := embedding.NewEngine(ctx, cfg.Embedding, cfg.HTTP)
		if err != nil {
			logger.Warn("embedding engine unavailable, using lexical similarity only",
				zap.String("provider", cfg.Embedding.Provider),
				zap.Error(err))
			engine = embedding.NoneEngine{}
		}
		opts.Embeddings = embedding.NewService(engine, embedding.Options{
			Cache:     sharedCache(),
			CacheTTL:  cfg.Embedding.CacheTTL,
			CallDelay: cfg.Embedding.CallDelay,
			Logger:    logger.Named("embedding"),
		})
	}

	if opts.Analyzer == nil {
		opts.Analyzer = drift.NewAnalyzer(opts.Embeddings, cfg.Analysis)
	}

	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}

	return &Pipeline{
		orchestrator:  opts.Orchestrator,
		embeddings:    opts.Embeddings,
		analyzer:      opts.Analyzer,
		sink:          opts.Sink,
		logger:        logger,
		maxTextLength: cfg.Analysis.MaxTextLength,
	}, nil
}

// Validate checks run input before any work starts
func Validate(text string, chain []string, maxTextLength int) error {
	if len(chain) < MinChainLength {
		return fmt.Errorf("%w: need at least %d languages, got %d", ErrInvalidChain, MinChainLength, len(chain))
	}
	for i, lang := range chain {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("%w: empty language code at position %d", ErrInvalidChain, i)
		}
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); maxTextLength > 0 && n > maxTextLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, n, maxTextLength)
	}
	return nil
}

// RunChain translates text along chain and analyzes every hop.
// Only invalid input is an error: provider failures and cancellation are
// reported on the result, which holds whatever steps completed.
func (p *Pipeline) RunChain(ctx context.Context, text string, chain []string) (*model.RunResult, error) {
	if err := Validate(text, chain, p.maxTextLength); err != nil {
		return nil, err
	}

	result := &model.RunResult{
		ID:           uuid.NewString(),
		OriginalText: text,
		Chain:        normalizeChain(chain),
		StartedAt:    time.Now().UTC(),
	}
	logger := p.logger.With(zap.String("run", result.ID))
	logger.Info("run started", zap.Strings("chain", result.Chain))

	// 1. Translate hop by hop
	translated := p.orchestrator.TranslateChain(ctx, text, result.Chain)
	result.Steps = translated.Steps
	result.Cancelled = translated.Cancelled
	result.CancelReason = translated.CancelReason

	// 2. The analyses only read the steps, so they run side by side
	var g errgroup.Group
	g.Go(func() error {
		result.DriftRecords = p.embeddings.AnalyzeChain(ctx, result.Steps)
		return nil
	})
	g.Go(func() error {
		result.StepAnalyses = p.analyzer.AnalyzeRun(ctx, result.Steps)
		result.Mutations = drift.FindMutations(result.Steps, result.StepAnalyses)
		return nil
	})
	g.Go(func() error {
		result.KeywordLineages = keywords.Track(result.Steps)
		result.KeywordTrees = keywords.BuildTree(result.KeywordLineages)
		return nil
	})
	_ = g.Wait()

	// 3. Summary
	result.OverallDrift = OverallDrift(result.DriftRecords)
	result.FinalText = FinalText(result.Steps)
	result.Complete = isComplete(result)
	result.Duration = time.Since(result.StartedAt)

	// 4. Persist; a cancelled run is still saved with what it has
	if _, err := p.sink.SaveRun(context.WithoutCancel(ctx), result.Record()); err != nil {
		logger.Warn("failed to persist run", zap.Error(err))
		result.PersistError = err.Error()
	}

	logger.Info("run finished",
		zap.Int("steps", len(result.Steps)),
		zap.Bool("complete", result.Complete),
		zap.Bool("cancelled", result.Cancelled),
		zap.Float64("overall_drift", result.OverallDrift),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// RunChainPreset runs text through a named preset chain
func (p *Pipeline) RunChainPreset(ctx context.Context, text, presetID string) (*model.RunResult, error) {
	preset, err := presets.Get(presetID)
	if err != nil {
		return nil, err
	}
	return p.RunChain(ctx, text, preset.Languages)
}

// OverallDrift is one minus the similarity of the last drift record to the
// original, or 0 when no hop produced text
func OverallDrift(records []model.DriftRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return 1 - records[len(records)-1].SimilarityToOriginal
}

// FinalText is the text of the last step that has one
func FinalText(steps []model.Step) string {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].HasText() {
			return steps[i].TextOrEmpty()
		}
	}
	return ""
}

func isComplete(r *model.RunResult) bool {
	if r.Cancelled || len(r.Steps) != len(r.Chain) {
		return false
	}
	for _, s := range r.Steps {
		if !s.HasText() {
			return false
		}
	}
	return true
}

func normalizeChain(chain []string) []string {
	out := make([]string, len(chain))
	for i, lang := range chain {
		out[i] = strings.ToLower(strings.TrimSpace(lang))
	}
	return out
}
