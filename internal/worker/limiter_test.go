package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("google") {
			t.Fatalf("expected unlimited limiter to allow call %d", i)
		}
	}
}

func TestLimiter_RateLimitPerKey(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "google"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow("google") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("mymemory") {
		t.Errorf("expected a different key to be allowed")
	}
}

func TestIntervalLimiter_SpacesCalls(t *testing.T) {
	limiter := NewIntervalLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.Wait(ctx, "hop"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Error("expected the first call not to wait")
	}

	if err := limiter.Wait(ctx, "hop"); err != nil {
		t.Fatalf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected second call to be delayed, got %v", elapsed)
	}
}

func TestIntervalLimiter_ZeroIsUnlimited(t *testing.T) {
	limiter := NewIntervalLimiter(0)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("hop") {
			t.Fatal("expected zero interval to be unlimited")
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewIntervalLimiter(time.Hour)
	_ = limiter.Wait(context.Background(), "slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected wait to fail once the context cannot be satisfied")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetRate("libretranslate", 0.1, 1)

	if !limiter.Allow("libretranslate") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("libretranslate") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("google") {
		t.Errorf("other key should pass")
	}
}
