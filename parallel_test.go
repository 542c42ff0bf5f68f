package srctl

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowCache simulates a slow cache for testing parallel lookups
type slowCache struct {
	data    map[string]string
	mu      sync.RWMutex
	delay   time.Duration
	lookups int64
}

func newSlowCache(delay time.Duration) *slowCache {
	return &slowCache{
		data:  make(map[string]string),
		delay: delay,
	}
}

func (c *slowCache) Get(key string) (string, bool) {
	atomic.AddInt64(&c.lookups, 1)
	time.Sleep(c.delay)
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *slowCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func lineComments(texts ...string) []Span {
	spans := make([]Span, 0, len(texts))
	offset := 0
	for _, text := range texts {
		s := "// " + text
		spans = append(spans, commentSpan(s, offset))
		offset += len(s) + 1
	}
	return spans
}

func TestDistinctCandidates(t *testing.T) {
	spans := lineComments("Hello", "World", "Hello", "")
	spans = append(spans, Span{Start: 100, End: 107, Kind: SpanLiteral, Text: `"Hello"`})

	got := DistinctCandidates(spans)

	if len(got) != 2 {
		t.Fatalf("Expected 2 distinct candidates, got %d", len(got))
	}
	if got[0].Start != spans[0].Start || got[1].Start != spans[1].Start {
		t.Errorf("Expected first occurrences in document order, got %+v", got)
	}
}

func TestParallelCacheLookup_Basic(t *testing.T) {
	cache := newSlowCache(0)
	cache.Set(CacheKey(HashText("Hello"), "eng-fra"), "Bonjour")
	cache.Set(CacheKey(HashText("World"), "eng-fra"), "Monde")

	spans := lineComments("Hello", "World", "Missing")

	translations, misses := ParallelCacheLookup(cache, spans, "eng-fra")

	if len(translations) != 2 {
		t.Errorf("Expected 2 translations, got %d", len(translations))
	}

	if translations["Hello"] != "Bonjour" {
		t.Errorf("Expected 'Bonjour', got %q", translations["Hello"])
	}

	if len(misses) != 1 {
		t.Fatalf("Expected 1 miss, got %d", len(misses))
	}

	if misses[0].Text != "// Missing" {
		t.Errorf("Expected miss '// Missing', got %q", misses[0].Text)
	}
}

func TestParallelCacheLookup_OtherDirectionMisses(t *testing.T) {
	cache := newSlowCache(0)
	cache.Set(CacheKey(HashText("Hello"), "eng-jpg"), "こんにちは")

	translations, misses := ParallelCacheLookup(cache, lineComments("Hello"), "eng-fra")

	if len(translations) != 0 || len(misses) != 1 {
		t.Errorf("Expected a miss for another direction, got %v / %d misses", translations, len(misses))
	}
}

func TestParallelCacheLookup_Deduplication(t *testing.T) {
	cache := newSlowCache(0)

	// Same candidate appears multiple times
	spans := lineComments("Hello", "Hello", "Hello")

	_, misses := ParallelCacheLookup(cache, spans, "eng-fra")

	// Should only have one miss (deduplicated)
	if len(misses) != 1 {
		t.Errorf("Expected 1 deduplicated miss, got %d", len(misses))
	}
	if cache.lookups != 1 {
		t.Errorf("Expected 1 cache lookup, got %d", cache.lookups)
	}
}

func TestParallelCacheLookup_NilCache(t *testing.T) {
	translations, misses := ParallelCacheLookup(nil, lineComments("Hello"), "eng-fra")

	if len(translations) != 0 {
		t.Errorf("Expected 0 translations with nil cache, got %d", len(translations))
	}

	if len(misses) != 1 {
		t.Errorf("Expected all spans as misses with nil cache, got %d", len(misses))
	}
}

func TestParallelCacheLookup_EmptySpans(t *testing.T) {
	cache := newSlowCache(0)
	translations, misses := ParallelCacheLookup(cache, nil, "eng-fra")

	if len(translations) != 0 {
		t.Errorf("Expected 0 translations for empty spans, got %d", len(translations))
	}

	if len(misses) != 0 {
		t.Errorf("Expected 0 misses for empty spans, got %d", len(misses))
	}
}

func TestParallelCacheLookup_FasterThanSequential(t *testing.T) {
	delay := 10 * time.Millisecond
	cache := newSlowCache(delay)

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("comment %d", i)
		cache.Set(CacheKey(HashText(texts[i]), "eng-fra"), "traduit")
	}

	start := time.Now()
	ParallelCacheLookup(cache, lineComments(texts...), "eng-fra")
	elapsed := time.Since(start)

	// Sequential would take 10 * 10ms = 100ms
	maxExpected := 50 * time.Millisecond
	if elapsed > maxExpected {
		t.Errorf("Parallel lookup took %v, expected < %v", elapsed, maxExpected)
	}
}

func BenchmarkParallelCacheLookup(b *testing.B) {
	cache := newSlowCache(0)
	texts := make([]string, 100)
	for i := range texts {
		texts[i] = fmt.Sprintf("comment %d", i)
		cache.Set(CacheKey(HashText(texts[i]), "eng-fra"), "traduit")
	}
	spans := lineComments(texts...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParallelCacheLookup(cache, spans, "eng-fra")
	}
}
