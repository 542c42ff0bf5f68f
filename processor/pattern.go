package processor

import (
	"regexp"

	"github.com/ZaguanLabs/srctl"
)

// CommentPattern matches string and character literals (group 1) or comments.
//
// Literals come first so that a comment marker inside a literal starting at
// the same position is never taken as a comment. Verbatim strings may chain
// segments, both C# doubled quotes (@"a""b") and concatenation (@"a"@"b").
const CommentPattern = `(@"[^"]*"(?:@?"[^"]*")*|"(?:[^"\n\\]+|\\.)*"|'(?:[^'\n\\]+|\\.)*')|//.*|/\*(?s:.*?)\*/`

var commentRegexp = regexp.MustCompile(CommentPattern)

// PatternScanner classifies spans with the single combined CommentPattern.
type PatternScanner struct {
	re *regexp.Regexp
}

// NewPatternScanner creates a scanner using CommentPattern.
func NewPatternScanner() *PatternScanner {
	return &PatternScanner{re: commentRegexp}
}

// Scan returns every non-overlapping match of the pattern, left to right.
func (s *PatternScanner) Scan(text string) []Span {
	matches := s.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		kind := srctl.SpanComment
		if m[2] >= 0 {
			kind = srctl.SpanLiteral
		}
		spans = append(spans, Span{
			Start: m[0],
			End:   m[1],
			Kind:  kind,
			Text:  text[m[0]:m[1]],
		})
	}
	return spans
}

// ContentType returns srctl.ContentTypeSource.
func (s *PatternScanner) ContentType() string {
	return srctl.ContentTypeSource
}

var _ Scanner = (*PatternScanner)(nil)
