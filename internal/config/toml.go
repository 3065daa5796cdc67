// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Speech   SpeechConfig   `toml:"speech"`
	Feedback FeedbackConfig `toml:"feedback"`
}

// SpeechConfig maps speech engine settings.
type SpeechConfig struct {
	Command *string  `toml:"command"`
	Voice   *string  `toml:"voice"`
	Rate    *float64 `toml:"rate"`
	Pitch   *float64 `toml:"pitch"`
	Volume  *float64 `toml:"volume"`
}

// FeedbackConfig maps audio feedback settings.
type FeedbackConfig struct {
	Volume     *float64 `toml:"volume"`
	SampleRate *int     `toml:"sample-rate"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
