package srctl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewRateLimiter(cfg)
	limiter.now = clock.Now
	limiter.lastRefill = clock.Now()
	return limiter, clock
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	limiter, _ := newTestLimiter(RateLimitConfig{
		RequestsPerMinute: 60, // 1 per second
		BurstSize:         3,
	})

	// Should be able to acquire burst size immediately
	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	// Fourth should fail
	if limiter.TryAcquire() {
		t.Error("Expected fourth acquire to fail")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	limiter, _ := newTestLimiter(RateLimitConfig{})

	if limiter.Available() != 60 {
		t.Errorf("Expected default burst of 60, got %f", limiter.Available())
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         1,
	})

	// Drain the bucket
	limiter.TryAcquire()

	if limiter.TryAcquire() {
		t.Error("Expected acquire to fail after drain")
	}

	clock.Advance(50 * time.Millisecond)
	if limiter.TryAcquire() {
		t.Error("Expected acquire to fail with half a token")
	}

	clock.Advance(60 * time.Millisecond)
	if !limiter.TryAcquire() {
		t.Error("Expected acquire to succeed after refill")
	}
}

func TestRateLimiter_RefillCapped(t *testing.T) {
	limiter, clock := newTestLimiter(RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         2,
	})

	limiter.TryAcquire()
	clock.Advance(time.Hour)

	if got := limiter.Available(); got != 2 {
		t.Errorf("Expected bucket capped at 2, got %f", got)
	}
}

func TestRateLimiter_Reserve(t *testing.T) {
	limiter, _ := newTestLimiter(RateLimitConfig{
		RequestsPerMinute: 120, // 2 per second
		BurstSize:         1,
	})

	if _, ok := limiter.reserve(); !ok {
		t.Fatal("Expected first reserve to succeed")
	}

	wait, ok := limiter.reserve()
	if ok {
		t.Fatal("Expected second reserve to fail")
	}
	if wait != 500*time.Millisecond {
		t.Errorf("Expected 500ms until next token, got %v", wait)
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         1,
	})

	// Drain the bucket
	limiter.TryAcquire()

	// Wait should block then succeed
	start := time.Now()
	err := limiter.Wait(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("Wait failed: %v", err)
	}

	// Should have waited ~100ms
	if elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1, // Very slow
		BurstSize:         1,
	})

	limiter.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(RateLimitConfig{
		RequestsPerMinute: 6000,
		BurstSize:         10,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// The clock is frozen, so exactly the burst is available
	if acquired != 10 {
		t.Errorf("Expected 10 acquired, got %d", acquired)
	}
}

// countingProvider echoes the request text.
type countingProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return req.Text, nil
}

func TestRateLimitedProvider(t *testing.T) {
	inner := &countingProvider{}
	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 600,
		BurstSize:         2,
	})

	ctx := context.Background()
	for _, text := range []string{"a", "b"} {
		if _, err := provider.Translate(ctx, TranslateRequest{Text: text}); err != nil {
			t.Errorf("translate %q failed: %v", text, err)
		}
	}

	start := time.Now()
	got, err := provider.Translate(ctx, TranslateRequest{Text: "c"})
	elapsed := time.Since(start)

	if err != nil || got != "c" {
		t.Errorf("Third translate = %q, %v", got, err)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected rate limit wait, but returned in %v", elapsed)
	}
	if inner.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.calls)
	}
	if provider.Limiter() == nil {
		t.Error("Limiter() should not be nil")
	}
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	inner := &countingProvider{}
	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	// Drain the bucket
	provider.Translate(context.Background(), TranslateRequest{Text: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := provider.Translate(ctx, TranslateRequest{Text: "b"})

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if providerErr.Retryable {
		t.Error("cancelled wait should not be retryable")
	}
	if IsRetryable(err) {
		t.Error("IsRetryable should be false for a cancelled wait")
	}
	if inner.calls != 1 {
		t.Errorf("Expected inner provider called once, got %d", inner.calls)
	}
}
