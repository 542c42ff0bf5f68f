package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZaguanLabs/srctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReversoPayload(t *testing.T) {
	body, err := BuildReversoPayload("it's a test", "eng-fra-5", true, 800)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, map[string]string{
		"searchText":          "it's a test",
		"direction":           "eng-fra-5",
		"maxTranslationChars": "800",
		"usecorr":             "true",
	}, got)
}

func TestBuildReversoPayload_Defaults(t *testing.T) {
	body, err := BuildReversoPayload("x", "jpn-eng-5", false, 0)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"maxTranslationChars":"800"`)
	assert.Contains(t, string(body), `"usecorr":"false"`)
}

func TestExtractResult(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name:   "result field",
			body:   `{"d":{"result":"incrémenter le compteur","corrected":"increment counter","timeTaken":12}}`,
			want:   "incrémenter le compteur",
			wantOK: true,
		},
		{
			name:   "end marker before result",
			body:   `{"d":{"__type":"x","result":"Bonjour","other":"y"}}`,
			want:   "Bonjour",
			wantOK: true,
		},
		{
			name:   "escaped characters",
			body:   `{"result":"l'utilisateur \"admin\"\nsuite","x":"y"}`,
			want:   "l'utilisateur \"admin\"\nsuite",
			wantOK: true,
		},
		{
			name:   "no result",
			body:   `{"d":{"error":"quota"}}`,
			wantOK: false,
		},
		{
			name:   "unterminated result",
			body:   `{"result":"Bonjour"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractResult(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanResult(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a &amp; b", "a & b"},
		{"Renvoie une List<int> vide", "Renvoie une List<int> vide"},
		{`<param name="x">La valeur</param>`, `<param name="x">La valeur</param>`},
		{"voir <summary>", "voir <summary>"},
		{"si a &lt; b", "si a < b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanResult(tt.in), "input %q", tt.in)
	}
}

func TestErrorDetail(t *testing.T) {
	page := []byte("<html><head><title>Request format is invalid</title></head><body><h1>Error</h1></body></html>")
	assert.Equal(t, "Request format is invalid", errorDetail(page))

	assert.Equal(t, "Server Error Runtime failure", errorDetail([]byte("<h1>Server Error</h1>\n<p>Runtime   failure</p>")))
	assert.Equal(t, "rate limited", errorDetail([]byte("rate limited")))
}

func newReversoServer(t *testing.T, handler http.HandlerFunc) *ReversoProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewReversoProvider(ReversoConfig{URL: server.URL, Timeout: 5 * time.Second})
}

func TestReversoProvider_Translate(t *testing.T) {
	var received reversoPayload
	p := newReversoServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, srctl.UserAgent(), r.Header.Get("User-Agent"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"d":{"result":"incrémenter le compteur","corrected":""}}`)
	})

	got, err := p.Translate(context.Background(), TranslateRequest{
		Text:         "increment counter",
		Direction:    "eng-fra",
		UseCorrector: true,
		MaxChars:     800,
	})
	require.NoError(t, err)

	assert.Equal(t, "incrémenter le compteur", got)
	assert.Equal(t, "increment counter", received.SearchText)
	assert.Equal(t, "eng-fra-5", received.Direction)
	assert.Equal(t, "true", received.UseCorr)
}

func TestReversoProvider_NoResultIsEmpty(t *testing.T) {
	p := newReversoServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"d":null}`)
	})

	got, err := p.Translate(context.Background(), TranslateRequest{Text: "x", Direction: "eng-fra"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReversoProvider_HTTPErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := newReversoServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := p.Translate(context.Background(), TranslateRequest{Text: "x", Direction: "eng-fra"})

			var providerErr *srctl.ProviderError
			require.True(t, errors.As(err, &providerErr))
			assert.Equal(t, tt.retryable, providerErr.Retryable)
			assert.Equal(t, tt.retryable, srctl.IsRetryable(err))
		})
	}
}

func TestReversoProvider_ContextCanceled(t *testing.T) {
	p := newReversoServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":"late","x":""}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Translate(ctx, TranslateRequest{Text: "x", Direction: "eng-fra"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, srctl.IsRetryable(err))
}

func TestReversoProvider_Defaults(t *testing.T) {
	p := NewReversoProvider(ReversoConfig{})

	assert.Equal(t, DefaultReversoURL, p.url)
	assert.Equal(t, 30*time.Second, p.httpClient.Timeout)
}

func TestReversoProvider_WithTranslator(t *testing.T) {
	p := newReversoServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":"incrémenter le compteur","x":""}`)
	})

	tr := srctl.NewTranslator("eng-fra", p, srctl.WithScanner(literalFreeScanner{}))
	result, err := tr.ProcessSource(context.Background(), "int x; // increment counter")
	require.NoError(t, err)

	assert.Equal(t, "int x; // incrémenter le compteur", result.Content)
}

// literalFreeScanner reports a single trailing line comment.
type literalFreeScanner struct{}

func (literalFreeScanner) Scan(text string) []srctl.Span {
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '/' && text[i+1] == '/' {
			return []srctl.Span{{Start: i, End: len(text), Kind: srctl.SpanComment, Text: text[i:]}}
		}
	}
	return nil
}

func (literalFreeScanner) ContentType() string { return srctl.ContentTypeSource }
