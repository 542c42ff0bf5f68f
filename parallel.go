package srctl

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// prefetched is a translation fetched ahead of reassembly.
type prefetched struct {
	text   string
	cached bool
}

// DistinctCandidates returns, for each distinct candidate text, the first
// translatable comment span carrying it, in document order.
func DistinctCandidates(spans []Span) []Span {
	seen := make(map[string]bool)
	var out []Span
	for _, span := range spans {
		candidate, _, _, ok := Candidate(span)
		if !ok || seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, span)
	}
	return out
}

// prefetch translates every distinct candidate before reassembly. Cache
// hits are resolved first; misses are sent to the provider with at most
// t.workers requests in flight. The first failure cancels the remaining
// requests and is returned.
func (t *Translator) prefetch(ctx context.Context, spans []Span) (map[string]prefetched, error) {
	hits, misses := ParallelCacheLookup(t.cache, spans, t.direction)

	results := make(map[string]prefetched, len(hits)+len(misses))
	for candidate, text := range hits {
		results[candidate] = prefetched{text: text, cached: true}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for _, span := range misses {
		g.Go(func() error {
			candidate, _, _, _ := Candidate(span)
			text, cached, err := t.translateOne(gctx, span, candidate)
			if err != nil {
				return err
			}
			mu.Lock()
			results[candidate] = prefetched{text: text, cached: cached}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.logger.Debug().
		Int("cached", len(hits)).
		Int("requested", len(misses)).
		Int("workers", t.workers).
		Msg("Translations prefetched")

	return results, nil
}

// ParallelCacheLookup looks up the candidates of spans in cache concurrently.
// It returns the cached translations keyed by candidate text, and the spans
// whose candidate missed the cache, deduplicated and in document order.
func ParallelCacheLookup(cache TranslationCache, spans []Span, direction Direction) (map[string]string, []Span) {
	unique := DistinctCandidates(spans)
	if cache == nil || len(unique) == 0 {
		return make(map[string]string), unique
	}

	type lookupResult struct {
		candidate string
		value     string
		found     bool
	}

	results := make(chan lookupResult, len(unique))
	var wg sync.WaitGroup

	for _, span := range unique {
		candidate, _, _, _ := Candidate(span)
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			if val, ok := cache.Get(CacheKey(HashText(c), direction)); ok {
				results <- lookupResult{candidate: c, value: val, found: true}
				return
			}
			results <- lookupResult{candidate: c}
		}(candidate)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	hits := make(map[string]string)
	for r := range results {
		if r.found {
			hits[r.candidate] = r.value
		}
	}

	var misses []Span
	for _, span := range unique {
		candidate, _, _, _ := Candidate(span)
		if _, ok := hits[candidate]; !ok {
			misses = append(misses, span)
		}
	}

	return hits, misses
}
