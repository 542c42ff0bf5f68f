package srctl

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ContentTypeSource is the content type of C-family source text.
const ContentTypeSource = "source"

// Translator rewrites the comments of a source text with their translation.
type Translator struct {
	direction    Direction
	mode         Mode
	provider     Provider
	cache        TranslationCache
	useCorrector bool
	maxChars     int
	workers      int
	scanners     map[string]Scanner
	progress     ProgressFunc
	logger       zerolog.Logger
}

// Provider is the interface for translation backends.
//
// Translate returns an empty string when the backend has no translation for
// the text. Any error aborts the run.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

// TranslateRequest contains the parameters for a single comment translation.
type TranslateRequest struct {
	Text         string
	Direction    Direction
	UseCorrector bool
	MaxChars     int
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Scanner splits a text into ordered, non-overlapping literal and comment spans.
type Scanner interface {
	Scan(text string) []Span
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithMode sets how translations are written back. Default: ModeTranslationOnly.
func WithMode(mode Mode) TranslatorOption {
	return func(t *Translator) {
		t.mode = mode
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithCorrector enables or disables the backend spell corrector. Default: enabled.
func WithCorrector(enabled bool) TranslatorOption {
	return func(t *Translator) {
		t.useCorrector = enabled
	}
}

// WithMaxChars sets the maximum translation length requested from the backend.
func WithMaxChars(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.maxChars = n
		}
	}
}

// WithWorkers sets the number of concurrent translation requests.
// Values above 1 prefetch all translations before reassembly.
func WithWorkers(n int) TranslatorOption {
	return func(t *Translator) {
		t.workers = n
	}
}

// WithScanner registers a scanner for its content type.
func WithScanner(scanner Scanner) TranslatorOption {
	return func(t *Translator) {
		t.scanners[scanner.ContentType()] = scanner
	}
}

// WithProgress sets the observer notified once per span considered.
func WithProgress(fn ProgressFunc) TranslatorOption {
	return func(t *Translator) {
		t.progress = fn
	}
}

// WithLogger sets the logger used for per-span decisions. Default: disabled.
func WithLogger(logger zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// DefaultMaxChars is the maximum translation length sent to the backend.
const DefaultMaxChars = 800

// NewTranslator creates a new Translator for the given direction and provider.
func NewTranslator(direction Direction, provider Provider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		direction:    direction,
		mode:         ModeTranslationOnly,
		provider:     provider,
		useCorrector: true,
		maxChars:     DefaultMaxChars,
		workers:      1,
		scanners:     make(map[string]Scanner),
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Process translates the comments of content using the scanner registered for contentType.
func (t *Translator) Process(ctx context.Context, content string, contentType string) (*ProcessedContent, error) {
	if !t.mode.Valid() {
		return nil, &ValidationError{Field: "mode", Value: t.mode.String(), Cause: ErrInvalidMode}
	}

	scanner, ok := t.scanners[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no scanner registered for content type",
			ContentType: contentType,
		}
	}

	spans := scanner.Scan(content)
	result := &ProcessedContent{
		Content:    content,
		TotalSpans: len(spans),
	}
	for _, span := range spans {
		if span.Kind == SpanComment {
			result.CommentSpans++
		}
	}

	if len(spans) == 0 || t.direction.isSameLanguage() {
		result.SkippedCount = result.CommentSpans
		return result, nil
	}

	var lookup TranslateFunc
	if t.workers > 1 {
		prefetched, err := t.prefetch(ctx, spans)
		if err != nil {
			return nil, err
		}
		lookup = func(_ int, span Span, candidate string) (string, error) {
			p := prefetched[candidate]
			t.logDecision(span, candidate, p.text)
			if !IsUnchanged(candidate, p.text) {
				if p.cached {
					result.CachedCount++
				} else {
					result.TranslatedCount++
				}
			}
			return p.text, nil
		}
	} else {
		lookup = func(_ int, span Span, candidate string) (string, error) {
			text, cached, err := t.translateOne(ctx, span, candidate)
			if err != nil {
				return "", err
			}
			t.logDecision(span, candidate, text)
			if !IsUnchanged(candidate, text) {
				if cached {
					result.CachedCount++
				} else {
					result.TranslatedCount++
				}
			}
			return text, nil
		}
	}

	content, substituted, err := Substitute(content, spans, t.mode, lookup, t.progress)
	if err != nil {
		return nil, err
	}

	result.Content = content
	result.SkippedCount = result.CommentSpans - substituted

	t.logger.Info().
		Int("spans", result.TotalSpans).
		Int("comments", result.CommentSpans).
		Int("translated", result.TranslatedCount).
		Int("cached", result.CachedCount).
		Int("skipped", result.SkippedCount).
		Str("direction", t.direction.String()).
		Msg("Comments processed")

	return result, nil
}

// ProcessSource is a convenience method for processing C-family source text.
func (t *Translator) ProcessSource(ctx context.Context, source string) (*ProcessedContent, error) {
	return t.Process(ctx, source, ContentTypeSource)
}

// translateOne returns the translation of a single candidate, using the cache where possible.
func (t *Translator) translateOne(ctx context.Context, span Span, candidate string) (string, bool, error) {
	cacheKey := CacheKey(HashText(candidate), t.direction)

	if t.cache != nil {
		if cached, ok := t.cache.Get(cacheKey); ok {
			return cached, true, nil
		}
	}

	if t.provider == nil {
		return "", false, nil
	}

	text, err := t.provider.Translate(ctx, TranslateRequest{
		Text:         candidate,
		Direction:    t.direction,
		UseCorrector: t.useCorrector,
		MaxChars:     t.maxChars,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", false, err
		}
		return "", false, &TranslationError{
			Message: "translating comment",
			Offset:  span.Start,
			Cause:   err,
		}
	}

	if t.cache != nil && text != "" {
		if err := t.cache.Set(cacheKey, text); err != nil {
			t.logger.Warn().Err(&CacheError{Message: "storing translation", Cause: err}).Msg("Cache write failed")
		}
	}

	return text, false, nil
}

func (t *Translator) logDecision(span Span, candidate, translation string) {
	event := t.logger.Debug().Int("offset", span.Start).Str("candidate", candidate)
	if IsUnchanged(candidate, translation) {
		event.Msg("Comment left unchanged")
		return
	}
	event.Str("translation", translation).Msg("Comment translated")
}

// Direction returns the translation direction.
func (t *Translator) Direction() Direction {
	return t.direction
}

// Mode returns the formatting mode.
func (t *Translator) Mode() Mode {
	return t.mode
}

// Workers returns the configured number of concurrent requests.
func (t *Translator) Workers() int {
	return t.workers
}
