package config

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/llm"
	"github.com/abhisek/futable/internal/tts"
)

// Audio backends.
const (
	BackendSpeaker = "speaker"
	BackendSilent  = "silent"
)

// Config is the fully resolved application configuration.
type Config struct {
	LLM     llm.Config
	Explain explain.Config
	Speech  tts.Config
	Audio   AudioConfig
	Log     LogConfig

	// ConfigPath is the file that was consulted, present or not.
	ConfigPath string

	// Offline is set when no explanation provider has a key and the mock
	// provider was substituted.
	Offline bool
}

// AudioConfig selects the playback backend.
type AudioConfig struct {
	Backend    string
	SampleRate int
}

// LogConfig locates the log file.
type LogConfig struct {
	Path  string
	Level string
}

// Overrides carries command-line flags. Zero values leave the resolved
// setting alone.
type Overrides struct {
	ConfigPath string
	Verbose    bool
	Mute       bool
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LLM:     llm.DefaultConfig(),
		Explain: explain.DefaultConfig(),
		Speech:  tts.DefaultConfig(),
		Audio:   AudioConfig{Backend: BackendSpeaker, SampleRate: 48000},
		Log:     LogConfig{Path: DefaultLogPath(), Level: "info"},
	}
}

// Load resolves configuration: flags > environment > file > defaults.
func Load(o Overrides) (Config, error) {
	cfg := Default()
	cfg.ConfigPath = o.ConfigPath
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath()
	}

	file, err := LoadFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(file); err != nil {
		return Config{}, fmt.Errorf("%s: %w", cfg.ConfigPath, err)
	}

	llmExplicit := file.LLM.Provider != nil || os.Getenv("FUTABLE_LLM_PROVIDER") != ""
	speechExplicit := file.Speech.Provider != nil || os.Getenv("FUTABLE_TTS_PROVIDER") != ""

	cfg.LLM = llm.DiscoverKeys(llm.ConfigFromEnv(cfg.LLM), llmExplicit)
	cfg.Speech = tts.InheritKeys(tts.ConfigFromEnv(cfg.Speech), cfg.LLM, speechExplicit)

	if cfg.LLM.Validate() != nil && !llmExplicit {
		cfg.LLM.Provider = "mock"
		cfg.Offline = true
	}
	if err := cfg.LLM.Validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.Speech.Validate(); err != nil {
		return Config{}, err
	}

	cfg.Explain.Timeout = cfg.LLM.Timeout
	if cfg.LLM.MaxTokens > 0 {
		cfg.Explain.MaxTokens = cfg.LLM.MaxTokens
	}
	if cfg.LLM.Temperature > 0 {
		cfg.Explain.Temperature = cfg.LLM.Temperature
	}

	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if o.Mute {
		cfg.Audio.Backend = BackendSilent
	}

	switch cfg.Audio.Backend {
	case BackendSpeaker, BackendSilent:
	default:
		return Config{}, fmt.Errorf("unknown audio backend %q (want %s or %s)", cfg.Audio.Backend, BackendSpeaker, BackendSilent)
	}
	return cfg, nil
}

func (c *Config) applyFile(f FileConfig) error {
	if f.LLM.Provider != nil {
		c.LLM.Provider = *f.LLM.Provider
	}
	if f.LLM.Model != nil {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.Gemini.Model = *f.LLM.Model
		case "anthropic":
			c.LLM.Anthropic.Model = *f.LLM.Model
		case "openai":
			c.LLM.OpenAI.Model = *f.LLM.Model
		case "openrouter":
			c.LLM.OpenRouter.Model = *f.LLM.Model
		}
	}
	if f.LLM.Timeout != nil {
		d, err := parseDuration("llm.timeout", *f.LLM.Timeout)
		if err != nil {
			return err
		}
		c.LLM.Timeout = d
	}
	if f.LLM.MaxTokens != nil {
		c.LLM.MaxTokens = *f.LLM.MaxTokens
	}
	if f.LLM.Temperature != nil {
		if t := *f.LLM.Temperature; t < 0 || t > 1 {
			return fmt.Errorf("llm.temperature %v out of range [0, 1]", t)
		}
		c.LLM.Temperature = *f.LLM.Temperature
	}

	if f.Speech.Provider != nil {
		c.Speech.Provider = *f.Speech.Provider
	}
	if f.Speech.Model != nil {
		c.Speech.Gemini.Model = *f.Speech.Model
		c.Speech.OpenAI.Model = *f.Speech.Model
	}
	if f.Speech.Voice != nil {
		c.Speech.Gemini.Voice = *f.Speech.Voice
		c.Speech.OpenAI.Voice = *f.Speech.Voice
	}
	if f.Speech.Timeout != nil {
		d, err := parseDuration("speech.timeout", *f.Speech.Timeout)
		if err != nil {
			return err
		}
		c.Speech.Timeout = d
	}

	if f.Audio.Backend != nil {
		c.Audio.Backend = *f.Audio.Backend
	}
	if f.Audio.SampleRate != nil {
		c.Audio.SampleRate = *f.Audio.SampleRate
	}

	if f.Log.Path != nil {
		c.Log.Path = *f.Log.Path
	}
	if f.Log.Level != nil {
		c.Log.Level = *f.Log.Level
	}
	return nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
