package processor

import (
	"strings"

	"github.com/ZaguanLabs/srctl"
	"golang.org/x/net/html"
)

// ContentTypeMarkup is the content type of HTML and XML documents.
const ContentTypeMarkup = "markup"

// MarkupScanner finds <!-- --> comments in HTML and XML documents using the
// HTML tokenizer. Elements, text and attributes produce no spans.
type MarkupScanner struct{}

// NewMarkupScanner creates a new markup comment scanner.
func NewMarkupScanner() *MarkupScanner {
	return &MarkupScanner{}
}

// Scan tokenizes text and reports one comment span per comment token.
// Offsets are recovered by summing the raw length of every token.
func (s *MarkupScanner) Scan(text string) []Span {
	z := html.NewTokenizer(strings.NewReader(text))

	var spans []Span
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		n := len(z.Raw())
		start, end := offset, offset+n
		offset = end
		if tt != html.CommentToken || end > len(text) {
			continue
		}

		raw := text[start:end]
		open, closing := markupDelimiters(raw)
		spans = append(spans, Span{
			Start: start,
			End:   end,
			Kind:  srctl.SpanComment,
			Text:  raw,
			Open:  open,
			Close: closing,
		})
	}

	return spans
}

// ContentType returns "markup".
func (s *MarkupScanner) ContentType() string {
	return ContentTypeMarkup
}

// markupDelimiters returns the widths of the opening and closing delimiters
// of a raw comment token. Bogus comments such as <!x> or <?x> use the
// two-byte opener and a single '>'.
func markupDelimiters(raw string) (int, int) {
	open := 0
	switch {
	case strings.HasPrefix(raw, "<!--"):
		open = 4
	case strings.HasPrefix(raw, "<!"), strings.HasPrefix(raw, "</"), strings.HasPrefix(raw, "<?"):
		open = 2
	}

	closing := 0
	switch {
	case strings.HasSuffix(raw, "--!>"):
		closing = 4
	case strings.HasSuffix(raw, "-->"):
		closing = 3
	case strings.HasSuffix(raw, ">"):
		closing = 1
	}

	if open+closing > len(raw) {
		closing = len(raw) - open
	}
	return open, closing
}

var _ Scanner = (*MarkupScanner)(nil)
