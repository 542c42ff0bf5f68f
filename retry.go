package srctl

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds configuration for retry behavior.
//
// The translator itself never retries: a failed comment aborts the run.
// Wrapping a provider in a RetryableProvider is an explicit opt-in.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// backoff returns the delay before retry number attempt (0-based), doubling from BaseDelay up to MaxDelay.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := c.BaseDelay << attempt
	if delay <= 0 || (c.MaxDelay > 0 && delay > c.MaxDelay) {
		return c.MaxDelay
	}
	return delay
}

// WithRetry executes fn, retrying retryable errors with exponential backoff.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}

	return zero, lastErr
}

// IsRetryable reports whether err is a ProviderError flagged as retryable.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryableProvider wraps a Provider with retry logic.
type RetryableProvider struct {
	provider Provider
	config   RetryConfig
	logger   zerolog.Logger
}

// NewRetryableProvider creates a new provider with retry logic.
func NewRetryableProvider(provider Provider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
		logger:   zerolog.Nop(),
	}
}

// WithLogger sets the logger that records each failed attempt.
func (p *RetryableProvider) WithLogger(logger zerolog.Logger) *RetryableProvider {
	p.logger = logger
	return p
}

// Translate implements Provider with retry logic.
func (p *RetryableProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	attempt := 0
	return WithRetry(ctx, p.config, func() (string, error) {
		attempt++
		text, err := p.provider.Translate(ctx, req)
		if err != nil && IsRetryable(err) {
			p.logger.Warn().Err(err).Int("attempt", attempt).Msg("Translation attempt failed")
		}
		return text, err
	})
}

var _ Provider = (*RetryableProvider)(nil)
