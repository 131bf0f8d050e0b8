package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds explanation provider configuration.
type Config struct {
	// Provider is one of "gemini", "anthropic", "openai", "openrouter", "mock".
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration

	MaxTokens   int
	Temperature float64
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // relay endpoint; empty uses the SDK default
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is the backoff used by both generation and speech calls.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry:      DefaultRetry(),
		Timeout:    30 * time.Second,
		MaxTokens:  1024,
	}
}

// ConfigFromEnv overlays FUTABLE_* environment variables on cfg.
func ConfigFromEnv(cfg Config) Config {
	setIf := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIf(&cfg.Provider, "FUTABLE_LLM_PROVIDER")
	setIf(&cfg.Gemini.APIKey, "FUTABLE_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "FUTABLE_GEMINI_MODEL")
	setIf(&cfg.Anthropic.APIKey, "FUTABLE_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "FUTABLE_ANTHROPIC_MODEL")
	setIf(&cfg.Anthropic.BaseURL, "FUTABLE_ANTHROPIC_BASE_URL")
	setIf(&cfg.OpenAI.APIKey, "FUTABLE_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "FUTABLE_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "FUTABLE_OPENAI_BASE_URL")
	setIf(&cfg.OpenRouter.APIKey, "FUTABLE_OPENROUTER_API_KEY")
	setIf(&cfg.OpenRouter.Model, "FUTABLE_OPENROUTER_MODEL")

	return cfg
}

// DiscoverKeys fills missing API keys from the vendors' standard variables.
// When no provider was chosen explicitly, the first vendor with a key is
// selected, probing Gemini, OpenAI, Anthropic, then OpenRouter.
func DiscoverKeys(cfg Config, explicitProvider bool) Config {
	type probe struct {
		provider string
		env      string
		dst      *string
	}
	probes := []probe{
		{"gemini", "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"openai", "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"anthropic", "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"openrouter", "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
	}

	picked := explicitProvider || cfg.keyFor(cfg.Provider) != ""
	for _, p := range probes {
		if *p.dst == "" {
			*p.dst = os.Getenv(p.env)
		}
		if !picked && *p.dst != "" {
			cfg.Provider = p.provider
			picked = true
		}
	}
	return cfg
}

func (c Config) keyFor(provider string) string {
	switch provider {
	case "gemini":
		return c.Gemini.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "anthropic", "openai", "openrouter":
		if c.keyFor(c.Provider) == "" {
			return fmt.Errorf("an API key is required for the %s provider (set FUTABLE_%s_API_KEY)",
				c.Provider, strings.ToUpper(c.Provider))
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
