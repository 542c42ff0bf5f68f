package provider

import (
	"context"
	"sync"
)

// MockProvider is an in-process provider for tests and offline runs.
// Unknown texts have no translation.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]string // Map of source text to translation
	Errors       map[string]error  // Texts whose translation fails
	CallCount    int               // Number of times Translate was called
	LastRequest  *TranslateRequest // Last request received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                  "Bonjour",
			"World":                  "Monde",
			"increment counter":      "incrémenter le compteur",
			"カウンタを増やす":               "increment counter",
			"Returns the user name.": "Renvoie le nom de l'utilisateur.",
		},
		Errors: map[string]error{},
	}
}

// Translate returns the configured translation for req.Text.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastRequest = &req

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := m.Errors[req.Text]; ok {
		return "", err
	}
	return m.Translations[req.Text], nil
}

// Calls returns the number of Translate calls so far.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = nil
}

var _ Provider = (*MockProvider)(nil)
