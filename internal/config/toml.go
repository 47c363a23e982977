package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Learn    LearnConfig    `toml:"learn"`
	History  HistoryConfig  `toml:"history"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang        *string `toml:"lang"`
	Mode        *string `toml:"mode"`
	Countdown   *string `toml:"countdown"`
	Words       *int    `toml:"words"`
	MaxDuration *int    `toml:"max-duration"`
	WordList    *string `toml:"wordlist"`
}

// LearnConfig maps finger drill settings.
type LearnConfig struct {
	Finger      *string `toml:"finger"`
	Words       *int    `toml:"words"`
	Keys        *string `toml:"keys"`
	MaxDuration *int    `toml:"max-duration"`
}

// HistoryConfig maps history retention settings.
type HistoryConfig struct {
	MaxSessions *int `toml:"max-sessions"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
