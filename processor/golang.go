package processor

import (
	"go/scanner"
	"go/token"
	"strings"

	"github.com/ZaguanLabs/srctl"
)

// ContentTypeGo is the content type of Go source files.
const ContentTypeGo = "go"

// GoScanner finds comments and literals of Go source with the Go lexer,
// which also understands raw `backquoted` strings.
type GoScanner struct {
	translateComments bool
}

// GoScannerOption configures the Go scanner.
type GoScannerOption func(*GoScanner)

// WithComments enables or disables comment spans. Literal spans are always reported.
func WithComments(enabled bool) GoScannerOption {
	return func(s *GoScanner) {
		s.translateComments = enabled
	}
}

// NewGoScanner creates a new Go source scanner.
func NewGoScanner(opts ...GoScannerOption) *GoScanner {
	s := &GoScanner{translateComments: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan lexes text as Go source. Lexical errors are tolerated; the lexer
// resynchronizes and scanning continues.
func (s *GoScanner) Scan(text string) []Span {
	src := []byte(text)
	fset := token.NewFileSet()
	file := fset.AddFile("source.go", fset.Base(), len(src))

	var lex scanner.Scanner
	lex.Init(file, src, func(token.Position, string) {}, scanner.ScanComments)

	var spans []Span
	for {
		pos, tok, lit := lex.Scan()
		if tok == token.EOF {
			break
		}

		start := file.Offset(pos)
		var end int
		var kind srctl.SpanKind

		switch tok {
		case token.COMMENT:
			if !s.translateComments {
				continue
			}
			end, kind = goCommentEnd(text, start), srctl.SpanComment
		case token.STRING, token.CHAR:
			end, kind = goLiteralEnd(text, start, lit), srctl.SpanLiteral
		default:
			continue
		}

		if end <= start || (len(spans) > 0 && start < spans[len(spans)-1].End) {
			continue
		}
		spans = append(spans, Span{Start: start, End: end, Kind: kind, Text: text[start:end]})
	}

	return spans
}

// ContentType returns "go".
func (s *GoScanner) ContentType() string {
	return ContentTypeGo
}

// goCommentEnd locates the end of the comment at start in the original text.
// The lexer strips carriage returns from comment literals, so the literal
// length cannot be used.
func goCommentEnd(text string, start int) int {
	if strings.HasPrefix(text[start:], "//") {
		if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
			return start + nl
		}
		return len(text)
	}
	if closing := strings.Index(text[start+2:], "*/"); closing >= 0 {
		return start + 2 + closing + 2
	}
	return len(text)
}

// goLiteralEnd locates the end of a string or rune literal. Raw strings
// lose their carriage returns in lit, so their closing quote is searched.
func goLiteralEnd(text string, start int, lit string) int {
	if strings.HasPrefix(text[start:], "`") {
		if closing := strings.IndexByte(text[start+1:], '`'); closing >= 0 {
			return start + 1 + closing + 1
		}
		return len(text)
	}
	end := start + len(lit)
	if end > len(text) {
		return len(text)
	}
	return end
}

var _ Scanner = (*GoScanner)(nil)
