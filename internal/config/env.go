package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL   = "CONJUGA_API_URL"
	EnvRedisURL = "CONJUGA_REDIS_URL"
	EnvLogLevel = "CONJUGA_LOG_LEVEL"
)

// LoadDotEnv loads variables from .env files if present. Variables already set
// in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto the file config.
func ApplyEnv(cfg *FileConfig) {
	if v, ok := os.LookupEnv(EnvAPIURL); ok {
		cfg.Quiz.APIURL = &v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Settings.RedisURL = &v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = &v
	}
}
