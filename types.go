package srctl

import (
	"fmt"
	"strconv"
	"strings"
)

// SpanKind classifies a span found by a Scanner.
type SpanKind int

const (
	// SpanLiteral is a string or character constant. Literal spans are never translated.
	SpanLiteral SpanKind = iota
	// SpanComment is a line or block comment.
	SpanComment
)

// String returns "literal" or "comment".
func (k SpanKind) String() string {
	switch k {
	case SpanLiteral:
		return "literal"
	case SpanComment:
		return "comment"
	default:
		return fmt.Sprintf("SpanKind(%d)", int(k))
	}
}

// Span is a classified, located substring of the source text.
//
// Text is always text[Start:End]. Open and Close are the widths of
// delimiters that must be kept verbatim before the trim set is applied
// (zero for C-family comments, whose delimiters are part of the trim set).
type Span struct {
	Start int
	End   int
	Kind  SpanKind
	Text  string
	Open  int
	Close int
}

// Mode controls how a translation is written back into a comment.
type Mode int

const (
	// ModeOriginalThenTranslation writes "{original} - {translation}".
	ModeOriginalThenTranslation Mode = iota
	// ModeTranslationOnly replaces the original text with the translation.
	ModeTranslationOnly
	// ModeTranslationThenOriginal writes "{translation} - {original}".
	ModeTranslationThenOriginal
)

// Modes lists the modes in selector order (0, 1, 2).
var Modes = []Mode{
	ModeOriginalThenTranslation,
	ModeTranslationOnly,
	ModeTranslationThenOriginal,
}

// String returns a short name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeOriginalThenTranslation:
		return "original-then-translation"
	case ModeTranslationOnly:
		return "translation-only"
	case ModeTranslationThenOriginal:
		return "translation-then-original"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	return m >= ModeOriginalThenTranslation && m <= ModeTranslationThenOriginal
}

// ParseMode parses the integer selector 0, 1 or 2.
func ParseMode(s string) (Mode, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "mode", Value: s, Cause: ErrInvalidMode}
	}
	m := Mode(n)
	if !m.Valid() {
		return 0, &ValidationError{Field: "mode", Value: s, Cause: ErrInvalidMode}
	}
	return m, nil
}

// ProcessedContent is the result of a translation run.
type ProcessedContent struct {
	Content         string // Rewritten source text
	TotalSpans      int    // Spans found by the scanner (literals and comments)
	CommentSpans    int    // Comment spans among them
	TranslatedCount int    // Comments substituted using a fresh provider call
	CachedCount     int    // Comments substituted using a cached translation
	SkippedCount    int    // Comments left untouched
}

// SubstitutedCount returns the number of comments rewritten.
func (p *ProcessedContent) SubstitutedCount() int {
	return p.TranslatedCount + p.CachedCount
}
