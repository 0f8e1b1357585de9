package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/driftchain/internal/cache"
	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/worker"
)

// Options configures a Service. Zero values are replaced by defaults.
type Options struct {
	Cache     cache.Cache
	CacheTTL  time.Duration
	CallDelay time.Duration   // Minimum spacing between engine calls
	Limiter   *worker.Limiter // Overrides CallDelay when set
	Logger    *zap.Logger
}

// Service fingerprints texts through an Engine with caching and throttling.
// It never returns engine errors: failures become Unavailable fingerprints.
type Service struct {
	engine   Engine
	cache    cache.Cache
	cacheTTL time.Duration
	limiter  *worker.Limiter
	logger   *zap.Logger
}

// NewService creates a fingerprinting service. A nil engine disables fingerprinting.
func NewService(engine Engine, opts Options) *Service {
	if engine == nil {
		engine = NoneEngine{}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NopCache{}
	}
	if opts.Limiter == nil {
		opts.Limiter = worker.NewIntervalLimiter(opts.CallDelay)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		engine:   engine,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
	}
}

// EngineName returns the name of the underlying engine
func (s *Service) EngineName() string {
	return s.engine.Name()
}

// Fingerprint returns the fingerprint of text. Cache hits skip the engine
// and the call throttle.
func (s *Service) Fingerprint(ctx context.Context, text string) Fingerprint {
	if _, disabled := s.engine.(NoneEngine); disabled {
		return Unavailable{Reason: "fingerprinting disabled"}
	}
	if text == "" {
		return Unavailable{Reason: "empty text"}
	}

	key := cache.Key(cache.NamespaceEmbed, s.engine.Name(), text)

	var cached []float32
	if cache.GetJSON(s.cache, key, &cached) && len(cached) > 0 {
		return Available{Vector: cached}
	}

	if err := s.limiter.Wait(ctx, "embed:"+s.engine.Name()); err != nil {
		return Unavailable{Reason: err.Error()}
	}

	vector, err := s.engine.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("fingerprint failed, falling back to lexical similarity",
			zap.String("engine", s.engine.Name()),
			zap.Error(err))
		return Unavailable{Reason: err.Error()}
	}
	if len(vector) == 0 {
		return Unavailable{Reason: "engine returned an empty vector"}
	}

	if err := cache.SetJSON(s.cache, key, vector, s.cacheTTL); err != nil {
		s.logger.Debug("fingerprint cache write failed", zap.Error(err))
	}

	return Available{Vector: vector}
}

// Similarity fingerprints both texts and compares them
func (s *Service) Similarity(ctx context.Context, text1, text2 string) (float64, string) {
	return Compare(s.Fingerprint(ctx, text1), s.Fingerprint(ctx, text2), text1, text2)
}

// AnalyzeChain measures every step with text against the original (step 0)
// and against the step before it. Steps without text are skipped.
// Fingerprints are computed sequentially, one per text.
func (s *Service) AnalyzeChain(ctx context.Context, steps []model.Step) []model.DriftRecord {
	if len(steps) == 0 || !steps[0].HasText() {
		return nil
	}

	originalText := steps[0].TextOrEmpty()
	original := s.Fingerprint(ctx, originalText)

	prev, prevText := original, originalText
	records := make([]model.DriftRecord, 0, len(steps)-1)

	for _, step := range steps[1:] {
		if !step.HasText() {
			continue
		}
		text := step.TextOrEmpty()
		fp := s.Fingerprint(ctx, text)

		similarity, method := Compare(original, fp, originalText, text)
		local, _ := Compare(prev, fp, prevText, text)

		records = append(records, model.DriftRecord{
			StepIndex:            step.Index,
			Language:             step.Language,
			SimilarityToOriginal: similarity,
			LocalDrift:           1 - local,
			Method:               method,
			Text:                 text,
		})

		prev, prevText = fp, text
	}

	s.logger.Debug("chain analyzed",
		zap.String("engine", s.engine.Name()),
		zap.Int("records", len(records)))

	return records
}
