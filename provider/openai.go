package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/srctl"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider translates comments with an OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)

	HTTPClient *http.Client // Optional client, e.g. with a request timeout
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a single comment.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &srctl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &srctl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	translation, err := p.parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	if req.MaxChars > 0 && len([]rune(translation)) > req.MaxChars {
		translation = string([]rune(translation)[:req.MaxChars])
	}
	return translation, nil
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	source := srctl.GetLanguageName(req.Direction.Source())
	target := srctl.GetLanguageName(req.Direction.Target())

	prompt := fmt.Sprintf(`# Role
You translate comments found in program source code from %s to %s.

# Rules
- Translate only natural language. Keep identifiers, file names, URLs, code fragments and placeholders (e.g. %%s, {0}, $1) exactly as written.
- Keep it short: a comment stays a comment. Do not add explanations.
- Keep line breaks and leading "*" decorations of multi-line comments.
- If the text is not natural language, or is already in %s, return it unchanged.`, source, target, target)

	if req.UseCorrector {
		prompt += "\n- Silently fix spelling mistakes of the source text before translating."
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translation" holding the translated string.
Example: { "translation": "translated comment" }
- Do NOT wrap in Markdown code blocks.`

	return prompt
}

func (p *OpenAIProvider) parseResponse(content string) (string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if s, ok := objResult["translation"].(string); ok {
			return s, nil
		}

		// Fallback: first string value
		for _, v := range objResult {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}
	}

	return "", &srctl.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ Provider = (*OpenAIProvider)(nil)
