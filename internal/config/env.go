package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvDBPath        = "SAYTUI_DB"
	EnvLogPath       = "SAYTUI_LOG"
	EnvSpeechCommand = "SAYTUI_SPEECH_COMMAND"
)

// LoadEnv loads variables from the given dotenv files without overriding
// variables already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// SpeechCommandOverride returns the speech command set in the environment.
func SpeechCommandOverride() (string, bool) {
	v := os.Getenv(EnvSpeechCommand)
	return v, v != ""
}
