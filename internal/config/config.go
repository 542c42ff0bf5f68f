// Package config loads srctl settings from defaults, an optional
// .srctl.yaml file, an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the working directory.
const FileName = ".srctl.yaml"

// EnvFileName is the dotenv file looked up in the working directory.
const EnvFileName = ".env"

// Provider names.
const (
	ProviderReverso = "reverso"
	ProviderOpenAI  = "openai"
	ProviderMock    = "mock"
)

// Config holds the run settings. Command-line flags are applied on top by the CLI.
type Config struct {
	Provider       string `yaml:"provider"`
	ReversoURL     string `yaml:"reverso_url,omitempty"`
	OpenAIKey      string `yaml:"-"`
	OpenAIModel    string `yaml:"openai_model,omitempty"`
	OpenAIBaseURL  string `yaml:"openai_base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	RedisURL  string `yaml:"redis_url,omitempty"`
	CacheTTL  int    `yaml:"cache_ttl"`
	CacheFile string `yaml:"cache_file,omitempty"`

	MaxChars          int  `yaml:"max_chars"`
	UseCorrector      bool `yaml:"use_corrector"`
	Workers           int  `yaml:"workers"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Retries           int  `yaml:"retries"`
}

// Default returns the built-in settings: Reverso, one request at a time,
// no retries, no rate limit and no cache.
func Default() *Config {
	return &Config{
		Provider:       ProviderReverso,
		TimeoutSeconds: 30,
		MaxChars:       800,
		UseCorrector:   true,
		Workers:        1,
	}
}

// Load reads settings from path (FileName when empty), EnvFileName and the
// environment, in increasing order of precedence. A missing file is only an
// error when path was given explicitly.
func Load(path string) (*Config, error) {
	return load(path, EnvFileName, os.LookupEnv)
}

func load(path, envFile string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"SRCTL_PROVIDER", &c.Provider},
		{"SRCTL_REVERSO_URL", &c.ReversoURL},
		{"OPENAI_API_KEY", &c.OpenAIKey},
		{"SRCTL_OPENAI_MODEL", &c.OpenAIModel},
		{"SRCTL_OPENAI_BASE_URL", &c.OpenAIBaseURL},
		{"SRCTL_REDIS_URL", &c.RedisURL},
		{"SRCTL_CACHE_FILE", &c.CacheFile},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SRCTL_TIMEOUT", &c.TimeoutSeconds},
		{"SRCTL_CACHE_TTL", &c.CacheTTL},
		{"SRCTL_MAX_CHARS", &c.MaxChars},
		{"SRCTL_WORKERS", &c.Workers},
		{"SRCTL_RPM", &c.RequestsPerMinute},
		{"SRCTL_RETRIES", &c.Retries},
	}
	for _, i := range ints {
		v, ok := lookup(i.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = n
	}

	if v, ok := lookup("SRCTL_USE_CORRECTOR"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SRCTL_USE_CORRECTOR: %w", err)
		}
		c.UseCorrector = b
	}

	return nil
}

// Validate checks value ranges and provider requirements.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderReverso, ProviderMock:
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return errors.New("provider openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q (valid: reverso, openai, mock)", c.Provider)
	}

	checks := []struct {
		name  string
		value int
		min   int
	}{
		{"max_chars", c.MaxChars, 1},
		{"workers", c.Workers, 1},
		{"timeout_seconds", c.TimeoutSeconds, 1},
		{"cache_ttl", c.CacheTTL, 0},
		{"requests_per_minute", c.RequestsPerMinute, 0},
		{"retries", c.Retries, 0},
	}
	for _, chk := range checks {
		if chk.value < chk.min {
			return fmt.Errorf("%s must be at least %d, got %d", chk.name, chk.min, chk.value)
		}
	}

	return nil
}
