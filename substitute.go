package srctl

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// trimChars are stripped from both ends of a comment to obtain its candidate text.
const trimChars = "\\/-*_ \t\n\r"

// TranslateFunc returns the translation of a comment candidate. An empty
// result means no translation is available. index is the position of span
// in the span slice.
type TranslateFunc func(index int, span Span, candidate string) (string, error)

// ProgressFunc is notified once per span considered, literal spans included.
type ProgressFunc func(current, total int)

// Candidate extracts the translatable text of a comment span.
//
// start and end delimit the candidate inside span.Text. ok is false for
// literal spans, for empty candidates and for candidates that begin with a
// double quote.
func Candidate(span Span) (text string, start, end int, ok bool) {
	if span.Kind != SpanComment {
		return "", 0, 0, false
	}

	lo, hi := span.Open, len(span.Text)-span.Close
	if lo < 0 || hi < lo {
		return "", 0, 0, false
	}

	for lo < hi && strings.IndexByte(trimChars, span.Text[lo]) >= 0 {
		lo++
	}
	for hi > lo && strings.IndexByte(trimChars, span.Text[hi-1]) >= 0 {
		hi--
	}

	text = span.Text[lo:hi]
	if text == "" || strings.HasPrefix(text, `"`) {
		return text, lo, hi, false
	}
	return text, lo, hi, true
}

// IsUnchanged reports whether translation carries no meaningful change over
// candidate: it is blank, or equal to candidate once '.' and '_' are trimmed
// from both ends and case is folded. Internal whitespace is compared as is.
func IsUnchanged(candidate, translation string) bool {
	if strings.TrimSpace(translation) == "" {
		return true
	}
	a := cases.Fold().String(strings.Trim(candidate, "._"))
	b := cases.Fold().String(strings.Trim(translation, "._"))
	return a == b
}

// FormatTranslation renders the replacement for a candidate according to mode.
func FormatTranslation(mode Mode, original, translation string) string {
	switch mode {
	case ModeOriginalThenTranslation:
		return original + " - " + translation
	case ModeTranslationThenOriginal:
		return translation + " - " + original
	default:
		return translation
	}
}

// Substitute rewrites the comments of text described by spans.
//
// Spans must be ordered by Start and must not overlap. Every span that is
// not rewritten, and every byte between spans, is copied verbatim. It
// returns the rewritten text and the number of comments substituted. The
// first error returned by translate aborts the whole substitution.
func Substitute(text string, spans []Span, mode Mode, translate TranslateFunc, progress ProgressFunc) (string, int, error) {
	if len(spans) == 0 {
		return text, 0, nil
	}

	var out strings.Builder
	out.Grow(len(text))

	cursor := 0
	substituted := 0
	for i, span := range spans {
		if progress != nil {
			progress(i+1, len(spans))
		}

		if span.Start < cursor || span.End > len(text) || span.Start > span.End {
			return "", 0, &ProcessorError{
				Message:     fmt.Sprintf("span %d [%d:%d] is out of order", i, span.Start, span.End),
				ContentType: "source",
			}
		}

		if span.Kind == SpanLiteral {
			continue
		}

		candidate, lo, hi, ok := Candidate(span)
		if !ok {
			continue
		}

		translation, err := translate(i, span, candidate)
		if err != nil {
			return "", 0, err
		}
		if IsUnchanged(candidate, translation) {
			continue
		}

		out.WriteString(text[cursor:span.Start])
		out.WriteString(span.Text[:lo])
		out.WriteString(FormatTranslation(mode, candidate, translation))
		out.WriteString(span.Text[hi:])
		cursor = span.End
		substituted++
	}

	out.WriteString(text[cursor:])
	return out.String(), substituted, nil
}
