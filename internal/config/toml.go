package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields were not
// set in the file.
type FileConfig struct {
	LLM    LLMSection    `toml:"llm"`
	Speech SpeechSection `toml:"speech"`
	Audio  AudioSection  `toml:"audio"`
	Log    LogSection    `toml:"log"`
}

// LLMSection configures explanation generation.
type LLMSection struct {
	Provider    *string  `toml:"provider"`
	Model       *string  `toml:"model"`
	Timeout     *string  `toml:"timeout"`
	MaxTokens   *int     `toml:"max_tokens"`
	Temperature *float64 `toml:"temperature"`
}

// SpeechSection configures speech synthesis.
type SpeechSection struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	Voice    *string `toml:"voice"`
	Timeout  *string `toml:"timeout"`
}

// AudioSection configures playback.
type AudioSection struct {
	Backend    *string `toml:"backend"`
	SampleRate *int    `toml:"sample_rate"`
}

// LogSection configures the log file.
type LogSection struct {
	Path  *string `toml:"path"`
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from the given path. Missing file is not
// an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
