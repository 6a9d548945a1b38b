package llm

import (
	"fmt"
	"sort"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects one provider and how to call it.
type Config struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	// Model is a provider model ID or one of the short aliases in
	// ProviderInfo. Empty picks the provider default.
	Model string `mapstructure:"model"`
	// BaseURL overrides the endpoint for OpenAI-compatible APIs.
	BaseURL string `mapstructure:"base_url"`

	Retry RetryConfig `mapstructure:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// ProviderInfo describes a supported provider.
type ProviderInfo struct {
	Name         string
	DefaultModel string
	// KeyEnv is the conventional API key variable checked by Discover.
	KeyEnv  string
	Aliases map[string]string
}

var providers = map[string]ProviderInfo{
	ProviderAnthropic: {
		Name:         ProviderAnthropic,
		DefaultModel: "claude-haiku-4-5",
		KeyEnv:       "ANTHROPIC_API_KEY",
		Aliases: map[string]string{
			"claude-haiku":  "claude-haiku-4-5",
			"claude-sonnet": "claude-sonnet-4-5",
		},
	},
	ProviderOpenAI: {
		Name:         ProviderOpenAI,
		DefaultModel: "gpt-4o-mini",
		KeyEnv:       "OPENAI_API_KEY",
	},
	ProviderGemini: {
		Name:         ProviderGemini,
		DefaultModel: "gemini-2.0-flash",
		KeyEnv:       "GEMINI_API_KEY",
		Aliases: map[string]string{
			"gemini-flash": "gemini-2.0-flash",
			"gemini-pro":   "gemini-2.5-pro",
		},
	},
	ProviderOpenRouter: {
		Name:         ProviderOpenRouter,
		DefaultModel: "google/gemini-2.0-flash-001",
		KeyEnv:       "OPENROUTER_API_KEY",
	},
}

// discoverOrder is the order in which Discover checks key variables.
var discoverOrder = []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter}

// Providers lists the real providers sorted by name.
func Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultConfig returns the defaults without a provider selected.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// Discover fills in Provider and APIKey from the first conventional key
// variable that is set. It reports false when none is.
func Discover(cfg Config, getenv func(string) string) (Config, bool) {
	for _, name := range discoverOrder {
		if key := getenv(providers[name].KeyEnv); key != "" {
			cfg.Provider = name
			cfg.APIKey = key
			return cfg, true
		}
	}
	return cfg, false
}

// ResolvedModel returns the concrete model ID requests will use.
func (c Config) ResolvedModel() string {
	info, ok := providers[c.Provider]
	if !ok {
		return c.Model
	}
	if c.Model == "" {
		return info.DefaultModel
	}
	if id, ok := info.Aliases[c.Model]; ok {
		return id
	}
	return c.Model
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	info, ok := providers[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider (set STUDYPLAN_LLM_API_KEY or %s)", c.Provider, info.KeyEnv)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
