package processor

import (
	"strings"

	"github.com/ZaguanLabs/srctl"
)

// StateScanner is a hand-written scanner producing the same spans as
// PatternScanner with explicit lexer states instead of a regular expression.
type StateScanner struct{}

// NewStateScanner creates a new state machine scanner.
func NewStateScanner() *StateScanner {
	return &StateScanner{}
}

// Scan walks text once, left to right. An unterminated literal or block
// comment is not a span: scanning resumes at the next byte.
func (s *StateScanner) Scan(text string) []Span {
	var spans []Span
	emit := func(start, end int, kind srctl.SpanKind) {
		spans = append(spans, Span{Start: start, End: end, Kind: kind, Text: text[start:end]})
	}

	for i := 0; i < len(text); {
		var end int
		var kind srctl.SpanKind

		switch {
		case strings.HasPrefix(text[i:], `@"`):
			end, kind = scanVerbatim(text, i), srctl.SpanLiteral
		case text[i] == '"' || text[i] == '\'':
			end, kind = scanQuoted(text, i, text[i]), srctl.SpanLiteral
		case strings.HasPrefix(text[i:], "//"):
			end, kind = scanLineComment(text, i), srctl.SpanComment
		case strings.HasPrefix(text[i:], "/*"):
			end, kind = scanBlockComment(text, i), srctl.SpanComment
		default:
			end = -1
		}

		if end < 0 {
			i++
			continue
		}
		emit(i, end, kind)
		i = end
	}

	return spans
}

// ContentType returns srctl.ContentTypeSource.
func (s *StateScanner) ContentType() string {
	return srctl.ContentTypeSource
}

// scanVerbatim returns the end of the verbatim string starting at i, or -1.
func scanVerbatim(text string, i int) int {
	end := closeVerbatimSegment(text, i+1)
	if end < 0 {
		return -1
	}
	for {
		next := end
		if strings.HasPrefix(text[next:], "@") {
			next++
		}
		if next >= len(text) || text[next] != '"' {
			return end
		}
		segEnd := closeVerbatimSegment(text, next)
		if segEnd < 0 {
			return end
		}
		end = segEnd
	}
}

// closeVerbatimSegment expects a quote at i and returns the offset after the closing quote, or -1.
func closeVerbatimSegment(text string, i int) int {
	closing := strings.IndexByte(text[i+1:], '"')
	if closing < 0 {
		return -1
	}
	return i + 1 + closing + 1
}

// scanQuoted returns the end of the string or character literal opened by
// quote at i, or -1. Escapes consume the next byte unless it is a newline;
// a raw newline ends the attempt.
func scanQuoted(text string, i int, quote byte) int {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case quote:
			return j + 1
		case '\n':
			return -1
		case '\\':
			if j+1 >= len(text) || text[j+1] == '\n' {
				return -1
			}
			j++
		}
	}
	return -1
}

// scanLineComment returns the offset of the newline ending the comment at i, or len(text).
func scanLineComment(text string, i int) int {
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(text)
}

// scanBlockComment returns the offset after the nearest "*/" following i+2, or -1.
func scanBlockComment(text string, i int) int {
	closing := strings.Index(text[i+2:], "*/")
	if closing < 0 {
		return -1
	}
	return i + 2 + closing + 2
}

var _ Scanner = (*StateScanner)(nil)
