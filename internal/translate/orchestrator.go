package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/driftchain/internal/cache"
	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/worker"
)

// DefaultMaxAttempts is the minimum per-hop attempt budget
const DefaultMaxAttempts = 3

// Rotation is the run-scoped provider cursor. It advances on failure and
// stays put on success, so a working provider keeps serving later hops.
type Rotation struct {
	Cursor int
}

func (r Rotation) next(n int) Rotation {
	if n == 0 {
		return r
	}
	return Rotation{Cursor: (r.Cursor + 1) % n}
}

// Hop is one successful translation
type Hop struct {
	Text     string
	Provider string
	Cached   bool
}

// ChainResult is the outcome of TranslateChain
type ChainResult struct {
	Steps        []model.Step
	Cancelled    bool
	CancelReason string
	Rotation     Rotation
}

// Options configures an Orchestrator. Zero values are replaced by defaults.
type Options struct {
	Cache       cache.Cache
	CacheTTL    time.Duration
	Limiter     *worker.Limiter // Per-provider quotas, shared by all runs
	HopDelay    time.Duration   // Minimum spacing between hops of one run
	MaxAttempts int
	Logger      *zap.Logger
}

// Orchestrator executes translation chains over a provider rotation
type Orchestrator struct {
	providers   []Provider
	cache       cache.Cache
	cacheTTL    time.Duration
	limiter     *worker.Limiter
	hopDelay    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// NewOrchestrator creates an orchestrator. Providers are tried in the given order.
func NewOrchestrator(providers []Provider, opts Options) *Orchestrator {
	if opts.Cache == nil {
		opts.Cache = cache.NopCache{}
	}
	if opts.Limiter == nil {
		opts.Limiter = worker.NewLimiter(0, 1)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Orchestrator{
		providers:   providers,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		limiter:     opts.Limiter,
		hopDelay:    opts.HopDelay,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
	}
}

// Providers returns the provider names in rotation order
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.providers))
	for i, p := range o.providers {
		names[i] = p.Name()
	}
	return names
}

// attempts is the per-hop budget; every provider gets at least one try
func (o *Orchestrator) attempts() int {
	if len(o.providers) > o.maxAttempts {
		return len(o.providers)
	}
	return o.maxAttempts
}

// TranslateChain translates text along chain, starting with a fresh rotation.
// chain[0] is the language of text. The returned steps begin with the
// original; a hop that exhausts its budget is recorded with nil text and
// ends the chain. Cancellation ends the chain without a failed step.
func (o *Orchestrator) TranslateChain(ctx context.Context, text string, chain []string) ChainResult {
	return o.TranslateChainFrom(ctx, text, chain, Rotation{})
}

// TranslateChainFrom is TranslateChain with an explicit starting rotation
func (o *Orchestrator) TranslateChainFrom(ctx context.Context, text string, chain []string, rot Rotation) ChainResult {
	result := ChainResult{Rotation: rot}
	if len(chain) == 0 {
		return result
	}

	result.Steps = append(result.Steps, model.Step{
		Index:    0,
		Language: chain[0],
		Text:     model.StringPtr(text),
		Provider: model.ProviderOriginal,
	})

	// Hop spacing is per run; concurrent runs only contend on provider quotas
	hops := worker.NewIntervalLimiter(o.hopDelay)

	current := text
	for i := 1; i < len(chain); i++ {
		from, to := chain[i-1], chain[i]

		hop, next, err := o.waitAndTranslate(ctx, hops, current, from, to, result.Rotation)
		result.Rotation = next

		if err != nil {
			if isCancellation(err) {
				result.Cancelled = true
				result.CancelReason = err.Error()
				o.logger.Info("chain cancelled",
					zap.Int("step", i),
					zap.String("reason", result.CancelReason))
				break
			}

			result.Steps = append(result.Steps, model.Step{
				Index:          i,
				Language:       to,
				SourceLanguage: from,
				Error:          err.Error(),
			})
			o.logger.Warn("chain aborted",
				zap.Int("step", i),
				zap.String("from", from),
				zap.String("to", to),
				zap.Error(err))
			break
		}

		result.Steps = append(result.Steps, model.Step{
			Index:          i,
			Language:       to,
			Text:           model.StringPtr(hop.Text),
			Provider:       hop.Provider,
			SourceLanguage: from,
			Cached:         hop.Cached,
		})
		current = hop.Text
	}

	return result
}

func (o *Orchestrator) waitAndTranslate(ctx context.Context, hops *worker.Limiter, text, from, to string, rot Rotation) (Hop, Rotation, error) {
	if err := waitLimiter(ctx, hops, "hop"); err != nil {
		return Hop{}, rot, err
	}
	return o.TranslateHop(ctx, text, from, to, rot)
}

// TranslateHop translates one hop, rotating through providers on failure.
// It returns the rotation to use for the next hop.
func (o *Orchestrator) TranslateHop(ctx context.Context, text, from, to string, rot Rotation) (Hop, Rotation, error) {
	n := len(o.providers)
	if n == 0 {
		return Hop{}, rot, ErrNoProviders
	}
	rot.Cursor %= n

	var lastErr error
	budget := o.attempts()

	for attempt := 1; attempt <= budget; attempt++ {
		if err := ctx.Err(); err != nil {
			return Hop{}, rot, err
		}

		p := o.providers[rot.Cursor]
		key := cache.Key(cache.NamespaceTranslate, p.Name(), from, to, text)

		if data, ok := o.cache.Get(key); ok {
			o.logger.Debug("translation cache hit",
				zap.String("provider", p.Name()),
				zap.String("from", from),
				zap.String("to", to))
			return Hop{Text: string(data), Provider: p.Name(), Cached: true}, rot, nil
		}

		if err := waitLimiter(ctx, o.limiter, p.Name()); err != nil {
			return Hop{}, rot, err
		}

		out, err := p.Translate(ctx, text, from, to)
		if err == nil {
			if setErr := o.cache.Set(key, []byte(out), o.cacheTTL); setErr != nil {
				o.logger.Debug("translation cache write failed", zap.Error(setErr))
			}
			o.logger.Debug("translated hop",
				zap.String("provider", p.Name()),
				zap.String("from", from),
				zap.String("to", to),
				zap.Int("attempt", attempt))
			return Hop{Text: out, Provider: p.Name()}, rot, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Hop{}, rot, ctxErr
		}

		lastErr = &ProviderError{Provider: p.Name(), From: from, To: to, Err: err}
		o.logger.Warn("provider attempt failed",
			zap.String("provider", p.Name()),
			zap.Int("attempt", attempt),
			zap.Int("budget", budget),
			zap.Error(err))

		rot = rot.next(n)
	}

	// lastErr is flattened: a provider timeout must not read as run cancellation
	return Hop{}, rot, fmt.Errorf("%w for %s→%s after %d attempts: %v", ErrAllProvidersFailed, from, to, budget, lastErr)
}

// waitLimiter waits on key and reports any refusal as a context error
func waitLimiter(ctx context.Context, l *worker.Limiter, key string) error {
	err := l.Wait(ctx, key)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	// rate.Limiter refuses early when the wait would overrun the deadline
	return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
