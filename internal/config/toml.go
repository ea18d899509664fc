// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz     QuizConfig     `toml:"quiz"`
	Settings SettingsConfig `toml:"settings"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
}

// QuizConfig maps quiz-related settings.
type QuizConfig struct {
	APIURL         *string `toml:"api-url"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
	Verbs          *string `toml:"verbs"`
}

// SettingsConfig selects the settings backend.
type SettingsConfig struct {
	Backend        *string `toml:"backend"`
	RedisURL       *string `toml:"redis-url"`
	PollIntervalMs *int    `toml:"poll-interval-ms"`
}

// ServeConfig maps `conjuga serve` settings.
type ServeConfig struct {
	Addr *string `toml:"addr"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if b := c.Settings.Backend; b != nil && *b != "sqlite" && *b != "redis" {
		return fmt.Errorf("settings.backend must be \"sqlite\" or \"redis\", got %q", *b)
	}
	if v := c.Quiz.TimeoutSeconds; v != nil && *v <= 0 {
		return fmt.Errorf("quiz.timeout-seconds must be positive")
	}
	if v := c.Settings.PollIntervalMs; v != nil && *v <= 0 {
		return fmt.Errorf("settings.poll-interval-ms must be positive")
	}
	return nil
}
