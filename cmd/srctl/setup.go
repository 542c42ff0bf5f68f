package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/ZaguanLabs/srctl"
	"github.com/ZaguanLabs/srctl/cache"
	"github.com/ZaguanLabs/srctl/internal/config"
	"github.com/ZaguanLabs/srctl/processor"
	"github.com/ZaguanLabs/srctl/provider"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

func pickScanner(name, path string) (srctl.Scanner, error) {
	if name == "" || name == "auto" {
		return processor.ForPath(path), nil
	}
	if s := processor.ByName(name); s != nil {
		return s, nil
	}
	return nil, &srctl.ValidationError{
		Field: "scanner",
		Value: name,
		Cause: errors.New("expected auto, pattern, state, go or markup"),
	}
}

// buildProvider creates the configured backend, wrapped by the rate limiter
// and then by the retry loop so every attempt waits for a token.
func buildProvider(cfg *config.Config, logger zerolog.Logger) (srctl.Provider, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var p srctl.Provider
	switch cfg.Provider {
	case config.ProviderReverso:
		p = provider.NewReversoProvider(provider.ReversoConfig{
			URL:     cfg.ReversoURL,
			Timeout: timeout,
		})
	case config.ProviderOpenAI:
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: &http.Client{Timeout: timeout},
		})
	case config.ProviderMock:
		p = provider.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		p = srctl.NewRateLimitedProvider(p, srctl.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
			BurstSize:         1,
		})
	}

	if cfg.Retries > 0 {
		retry := srctl.DefaultRetryConfig()
		retry.MaxRetries = cfg.Retries
		p = srctl.NewRetryableProvider(p, retry).WithLogger(logger)
	}

	return p, nil
}

// runCache is the translation cache of one run. Without Redis it is an
// in-memory cache, optionally loaded from and saved to a JSON file.
type runCache struct {
	store  srctl.TranslationCache
	redis  *cache.RedisCache
	memory *cache.InMemoryCache
	file   string
	logger zerolog.Logger
}

func openCache(cfg *config.Config, logger zerolog.Logger) (*runCache, error) {
	rc := &runCache{file: cfg.CacheFile, logger: logger}

	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			URL:    cfg.RedisURL,
			TTL:    cfg.CacheTTL,
			Logger: logger,
		})
		if err != nil {
			return nil, &srctl.CacheError{Message: "connecting to redis", Cause: err}
		}
		rc.redis = redisCache
		rc.store = redisCache
		return rc, nil
	}

	rc.memory = cache.NewInMemoryCache(cfg.CacheTTL)
	rc.store = rc.memory

	if rc.file != "" {
		result, err := cache.NewImporter(rc.memory).ImportFromFile(rc.file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug().Str("file", rc.file).Msg("Cache file not found, starting empty")
		case err != nil:
			return nil, &srctl.CacheError{Message: "loading " + rc.file, Cause: err}
		default:
			logger.Debug().
				Str("file", rc.file).
				Int("imported", result.Imported).
				Int("skipped", result.Skipped).
				Msg("Loaded cache file")
		}
	}

	return rc, nil
}

// enumerable returns the cache as a listable store.
func (c *runCache) enumerable() cache.Enumerable {
	if c.redis != nil {
		return c.redis
	}
	return c.memory
}

// Save writes the in-memory cache back to its file, if any.
func (c *runCache) Save(ctx context.Context) error {
	if c.memory == nil || c.file == "" {
		return nil
	}
	n, err := cache.NewExporter(c.memory).ExportToFile(ctx, c.file, map[string]string{
		"generator": srctl.UserAgent(),
	})
	if err != nil {
		return &srctl.CacheError{Message: "saving " + c.file, Cause: err}
	}
	c.logger.Debug().Str("file", c.file).Int("entries", n).Msg("Saved cache file")
	return nil
}

func (c *runCache) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("Closing redis connection")
		}
	}
}

// progress draws a bar on an interactive stderr and does nothing otherwise.
type progress struct {
	out         io.Writer
	enabled     bool
	description string
	bar         *progressbar.ProgressBar
}

func newProgress(w io.Writer, quiet bool, description string) *progress {
	enabled := false
	if f, ok := w.(*os.File); ok && !quiet {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &progress{out: w, enabled: enabled, description: description}
}

// Update is a srctl.ProgressFunc.
func (p *progress) Update(current, total int) {
	if !p.enabled || total == 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription(p.description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
	_ = p.bar.Set(current)
}

func (p *progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
