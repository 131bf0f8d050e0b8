package tts

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/futable/internal/llm"
)

// Config holds speech backend configuration.
type Config struct {
	// Provider is one of "gemini", "openai", "mock".
	Provider string

	Gemini GeminiConfig
	OpenAI OpenAIConfig
	Retry  llm.RetryConfig

	// Timeout bounds one Synthesize call including retries.
	Timeout time.Duration
}

// GeminiConfig configures Gemini native TTS.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash-preview-tts"
	Voice  string // Default: "Kore"
}

// OpenAIConfig configures the OpenAI speech endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini-tts"
	Voice   string // Default: "alloy"
	BaseURL string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini:   GeminiConfig{Model: "gemini-2.5-flash-preview-tts", Voice: "Kore"},
		OpenAI:   OpenAIConfig{Model: "gpt-4o-mini-tts", Voice: "alloy"},
		Retry:    llm.DefaultRetry(),
		Timeout:  60 * time.Second,
	}
}

// ConfigFromEnv overlays FUTABLE_TTS_* variables on cfg. Model and voice
// apply to whichever provider is selected after the overlay.
func ConfigFromEnv(cfg Config) Config {
	if v := os.Getenv("FUTABLE_TTS_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	model := os.Getenv("FUTABLE_TTS_MODEL")
	voice := os.Getenv("FUTABLE_TTS_VOICE")
	switch cfg.Provider {
	case "gemini":
		if model != "" {
			cfg.Gemini.Model = model
		}
		if voice != "" {
			cfg.Gemini.Voice = voice
		}
	case "openai":
		if model != "" {
			cfg.OpenAI.Model = model
		}
		if voice != "" {
			cfg.OpenAI.Voice = voice
		}
	}
	return cfg
}

// InheritKeys copies the API keys already resolved for the explanation
// provider. A speech provider without a key falls back to the other
// vendor when that one has a key, and to "mock" otherwise, unless the
// provider was chosen explicitly.
func InheritKeys(cfg Config, from llm.Config, explicitProvider bool) Config {
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = from.Gemini.APIKey
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = from.OpenAI.APIKey
		if cfg.OpenAI.BaseURL == "" {
			cfg.OpenAI.BaseURL = from.OpenAI.BaseURL
		}
	}
	if explicitProvider || cfg.keyFor(cfg.Provider) != "" || cfg.Provider == "mock" {
		return cfg
	}
	switch {
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	default:
		cfg.Provider = "mock"
	}
	return cfg
}

func (c Config) keyFor(provider string) string {
	switch provider {
	case "gemini":
		return c.Gemini.APIKey
	case "openai":
		return c.OpenAI.APIKey
	}
	return ""
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai":
		if c.keyFor(c.Provider) == "" {
			return fmt.Errorf("an API key is required for the %s speech provider (set FUTABLE_%s_API_KEY)",
				c.Provider, strings.ToUpper(c.Provider))
		}
	case "mock":
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Provider)
	}
	return nil
}
