package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/srctl"
	"golang.org/x/net/html"
)

const (
	// DefaultReversoURL is the Reverso correction-aware translation web service.
	DefaultReversoURL = "https://async5.reverso.net/WebReferences/WSAJAXInterface.asmx/TranslateCorrWS"

	// DirectionSuffix is appended to the direction token on the wire.
	DirectionSuffix = "-5"

	resultBegin = `"result":"`
	resultEnd   = `","`
)

// ReversoConfig holds configuration for the Reverso provider.
type ReversoConfig struct {
	URL        string        // Web service URL (default: DefaultReversoURL)
	HTTPClient *http.Client  // Optional client; overrides Timeout
	Timeout    time.Duration // Per-request timeout (default: 30s)
}

// ReversoProvider translates one comment per request through the Reverso web service.
type ReversoProvider struct {
	url        string
	httpClient *http.Client
}

// NewReversoProvider creates a new Reverso provider.
func NewReversoProvider(cfg ReversoConfig) *ReversoProvider {
	url := cfg.URL
	if url == "" {
		url = DefaultReversoURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &ReversoProvider{url: url, httpClient: client}
}

type reversoPayload struct {
	SearchText          string `json:"searchText"`
	Direction           string `json:"direction"`
	MaxTranslationChars string `json:"maxTranslationChars"`
	UseCorr             string `json:"usecorr"`
}

// BuildReversoPayload encodes the request body. The character limit and the
// corrector flag are sent as strings, as the service expects.
func BuildReversoPayload(text string, direction string, useCorrector bool, maxChars int) ([]byte, error) {
	if maxChars <= 0 {
		maxChars = srctl.DefaultMaxChars
	}
	return json.Marshal(reversoPayload{
		SearchText:          text,
		Direction:           direction,
		MaxTranslationChars: strconv.Itoa(maxChars),
		UseCorr:             strconv.FormatBool(useCorrector),
	})
}

// ExtractResult returns the translation embedded in a response body: the
// text between `"result":"` and the next `","`. The JSON string escapes of
// the value are decoded. ok is false when either marker is missing.
func ExtractResult(body string) (string, bool) {
	begin := strings.Index(body, resultBegin)
	if begin < 0 {
		return "", false
	}
	begin += len(resultBegin)

	end := strings.Index(body[begin:], resultEnd)
	if end < 0 {
		return "", false
	}
	raw := body[begin : begin+end]

	var decoded string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &decoded); err != nil {
		return raw, true
	}
	return decoded, true
}

// CleanResult decodes HTML entities in a result. Angle brackets are kept:
// comments routinely carry generics and XML doc tags.
func CleanResult(s string) string {
	return html.UnescapeString(s)
}

// errorDetail summarizes an error response body. Server error pages are
// HTML; their title, or else their text, is more useful than the markup.
func errorDetail(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return truncate(string(body), 200)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return truncate(string(body), 200)
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return truncate(title, 200)
	}
	return truncate(strings.Join(strings.Fields(doc.Text()), " "), 200)
}

// Translate sends a single comment to the service. A response without a
// result is reported as an empty translation.
func (p *ReversoProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	body, err := BuildReversoPayload(req.Text, req.Direction.String()+DirectionSuffix, req.UseCorrector, req.MaxChars)
	if err != nil {
		return "", &srctl.ProviderError{Message: "encoding request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", &srctl.ProviderError{Message: "creating request", Cause: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("User-Agent", srctl.UserAgent())

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", &srctl.ProviderError{
			Message:   "Reverso request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &srctl.ProviderError{Message: "reading response", Cause: err, Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &srctl.ProviderError{
			Message:   fmt.Sprintf("Reverso returned HTTP %d", resp.StatusCode),
			Cause:     errors.New(errorDetail(data)),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	result, ok := ExtractResult(string(data))
	if !ok {
		return "", nil
	}
	return CleanResult(result), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Provider = (*ReversoProvider)(nil)
