package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()

	got, err := m.Translate(context.Background(), TranslateRequest{Text: "Hello", Direction: "eng-fra"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", got)

	got, err = m.Translate(context.Background(), TranslateRequest{Text: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, "unknown", m.LastRequest.Text)

	m.Reset()
	assert.Zero(t, m.Calls())
	assert.Nil(t, m.LastRequest)
}

func TestMockProvider_Errors(t *testing.T) {
	m := NewMockProvider()
	boom := errors.New("boom")
	m.Errors["Hello"] = boom

	_, err := m.Translate(context.Background(), TranslateRequest{Text: "Hello"})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Translate(ctx, TranslateRequest{Text: "World"})
	assert.ErrorIs(t, err, context.Canceled)
}
