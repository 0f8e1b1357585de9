package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/driftchain/internal/cache"
	"github.com/ppiankov/driftchain/internal/worker"
)

// mockProvider tags its output with the target language, or fails when fail says so
type mockProvider struct {
	name string
	fail func(from, to string) bool

	mu    sync.Mutex
	calls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.fail != nil && m.fail(from, to) {
		return "", fmt.Errorf("%s unavailable", m.name)
	}
	return fmt.Sprintf("%s[%s]", text, to), nil
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func alwaysFail(string, string) bool { return true }

func TestTranslateChain_Success(t *testing.T) {
	p := &mockProvider{name: "google"}
	o := NewOrchestrator([]Provider{p}, Options{})

	res := o.TranslateChain(context.Background(), "Hello", []string{"en", "ru", "ja", "en"})

	require.Len(t, res.Steps, 4)
	assert.False(t, res.Cancelled)

	assert.Equal(t, 0, res.Steps[0].Index)
	assert.Equal(t, "original", res.Steps[0].Provider)
	assert.Equal(t, "Hello", res.Steps[0].TextOrEmpty())

	assert.Equal(t, "ru", res.Steps[1].Language)
	assert.Equal(t, "en", res.Steps[1].SourceLanguage)
	assert.Equal(t, "Hello[ru]", res.Steps[1].TextOrEmpty())
	assert.Equal(t, "Hello[ru][ja][en]", res.Steps[3].TextOrEmpty())
	assert.Equal(t, "google", res.Steps[3].Provider)
	assert.Equal(t, 3, p.Calls())
}

func TestTranslateChain_FailedHopAbortsChain(t *testing.T) {
	failJapanese := func(from, to string) bool { return to == "ja" }
	a := &mockProvider{name: "google", fail: failJapanese}
	b := &mockProvider{name: "mymemory", fail: failJapanese}
	o := NewOrchestrator([]Provider{a, b}, Options{})

	res := o.TranslateChain(context.Background(), "Hello", []string{"en", "ru", "ja", "en"})

	require.Len(t, res.Steps, 3)
	assert.False(t, res.Cancelled)

	failed := res.Steps[2]
	assert.Equal(t, 2, failed.Index)
	assert.Equal(t, "ja", failed.Language)
	assert.Nil(t, failed.Text)
	assert.False(t, failed.HasText())
	assert.Contains(t, failed.Error, "all translation providers failed")

	// Budget is max(3, 2) = 3 attempts on hop 2, plus hop 1 on google
	assert.Equal(t, 3, a.Calls()+b.Calls()-1)
}

func TestTranslateHop_EveryProviderGetsAnAttempt(t *testing.T) {
	var providers []Provider
	var mocks []*mockProvider
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		m := &mockProvider{name: name, fail: alwaysFail}
		mocks = append(mocks, m)
		providers = append(providers, m)
	}
	o := NewOrchestrator(providers, Options{MaxAttempts: 3})

	_, _, err := o.TranslateHop(context.Background(), "hi", "en", "ru", Rotation{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllProvidersFailed))

	for _, m := range mocks {
		assert.Equal(t, 1, m.Calls(), "provider %s", m.name)
	}
}

func TestTranslateChain_RotationSticksOnSuccess(t *testing.T) {
	broken := &mockProvider{name: "google", fail: alwaysFail}
	working := &mockProvider{name: "mymemory"}
	o := NewOrchestrator([]Provider{broken, working}, Options{})

	res := o.TranslateChain(context.Background(), "Hello", []string{"en", "ru", "ja", "en"})

	require.Len(t, res.Steps, 4)
	for _, s := range res.Steps[1:] {
		assert.Equal(t, "mymemory", s.Provider)
	}
	assert.Equal(t, 1, broken.Calls(), "broken provider should only be tried on the first hop")
	assert.Equal(t, 3, working.Calls())
	assert.Equal(t, Rotation{Cursor: 1}, res.Rotation)
}

func TestTranslateChain_RotationIsRunScoped(t *testing.T) {
	broken := &mockProvider{name: "google", fail: alwaysFail}
	working := &mockProvider{name: "mymemory"}
	o := NewOrchestrator([]Provider{broken, working}, Options{})

	o.TranslateChain(context.Background(), "one", []string{"en", "ru"})
	o.TranslateChain(context.Background(), "two", []string{"en", "ru"})

	// Each run starts at the head of the rotation again
	assert.Equal(t, 2, broken.Calls())
}

func TestTranslateChain_CacheHitSkipsNetwork(t *testing.T) {
	p := &mockProvider{name: "google"}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	o := NewOrchestrator([]Provider{p}, Options{Cache: c, CacheTTL: time.Minute})

	chain := []string{"en", "ru", "en"}
	first := o.TranslateChain(context.Background(), "Hello", chain)
	second := o.TranslateChain(context.Background(), "Hello", chain)

	assert.Equal(t, 2, p.Calls())
	require.Len(t, second.Steps, 3)
	assert.True(t, second.Steps[1].Cached)
	assert.True(t, second.Steps[2].Cached)
	assert.False(t, first.Steps[1].Cached)
	assert.Equal(t, first.Steps[2].TextOrEmpty(), second.Steps[2].TextOrEmpty())
}

func TestTranslateChain_CancelledBeforeStart(t *testing.T) {
	p := &mockProvider{name: "google"}
	o := NewOrchestrator([]Provider{p}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := o.TranslateChain(ctx, "Hello", []string{"en", "ru", "en"})

	assert.True(t, res.Cancelled)
	assert.NotEmpty(t, res.CancelReason)
	require.Len(t, res.Steps, 1, "no failed step is appended on cancellation")
	assert.Equal(t, 0, p.Calls())
}

// cancellingProvider cancels the run during its second call
type cancellingProvider struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingProvider) Name() string { return "google" }

func (c *cancellingProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	c.calls++
	if c.calls == 2 {
		c.cancel()
		return "", ctx.Err()
	}
	return strings.ToUpper(text), nil
}

func TestTranslateChain_CancelledMidChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &cancellingProvider{cancel: cancel}
	o := NewOrchestrator([]Provider{p}, Options{})

	res := o.TranslateChain(ctx, "hello", []string{"en", "ru", "ja", "en"})

	assert.True(t, res.Cancelled)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "HELLO", res.Steps[1].TextOrEmpty())
}

func TestTranslateChain_HopDelay(t *testing.T) {
	p := &mockProvider{name: "google"}
	o := NewOrchestrator([]Provider{p}, Options{HopDelay: 40 * time.Millisecond})

	start := time.Now()
	res := o.TranslateChain(context.Background(), "Hello", []string{"en", "ru", "ja", "en"})
	elapsed := time.Since(start)

	require.Len(t, res.Steps, 4)
	// The first hop is not delayed; the second and third each wait one interval
	assert.GreaterOrEqual(t, elapsed, 70*time.Millisecond)
}

func TestTranslateHop_RateLimitedPerProvider(t *testing.T) {
	p := &mockProvider{name: "google"}
	o := NewOrchestrator([]Provider{p}, Options{Limiter: worker.NewIntervalLimiter(40 * time.Millisecond)})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, _, err := o.TranslateHop(context.Background(), "Hello", "en", "ru", Rotation{})
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestTranslateHop_DeadlineShorterThanLimiterWait(t *testing.T) {
	p := &mockProvider{name: "google"}
	o := NewOrchestrator([]Provider{p}, Options{Limiter: worker.NewIntervalLimiter(time.Hour)})

	_, _, err := o.TranslateHop(context.Background(), "one", "en", "ru", Rotation{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err = o.TranslateHop(ctx, "two", "en", "ru", Rotation{})
	require.Error(t, err)
	assert.True(t, isCancellation(err))
	assert.Equal(t, 1, p.Calls())
}

func TestTranslateHop_NoProviders(t *testing.T) {
	o := NewOrchestrator(nil, Options{})
	res := o.TranslateChain(context.Background(), "Hello", []string{"en", "ru", "en"})

	require.Len(t, res.Steps, 2)
	assert.Nil(t, res.Steps[1].Text)
	assert.Contains(t, res.Steps[1].Error, "no translation providers")
}

func TestProviderError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := &ProviderError{Provider: "google", From: "en", To: "ru", Err: base}

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "google en→ru: boom", err.Error())
}
