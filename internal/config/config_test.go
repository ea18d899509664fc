package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Quiz.APIURL != nil || cfg.Settings.Backend != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[quiz]
api-url = "http://localhost:8000"
timeout-seconds = 5

[settings]
backend = "redis"
redis-url = "redis://localhost:6379/0"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg.Quiz.APIURL != "http://localhost:8000" || *cfg.Quiz.TimeoutSeconds != 5 {
		t.Fatalf("unexpected quiz section: %+v", cfg.Quiz)
	}
	if *cfg.Settings.Backend != "redis" || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Serve.Addr != nil {
		t.Fatalf("expected unset serve addr")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"backend":   "[settings]\nbackend = \"etcd\"\n",
		"timeout":   "[quiz]\ntimeout-seconds = 0\n",
		"unknown":   "[quiz]\nlang = \"es\"\n",
		"malformed": "[quiz\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, content)
			if _, err := LoadConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	url := "http://file"
	cfg := FileConfig{Quiz: QuizConfig{APIURL: &url}}
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvRedisURL, "redis://env:6379")
	t.Setenv(EnvLogLevel, "warn")

	ApplyEnv(&cfg)
	if *cfg.Quiz.APIURL != "" {
		t.Fatalf("expected empty api url from env, got %q", *cfg.Quiz.APIURL)
	}
	if *cfg.Settings.RedisURL != "redis://env:6379" || *cfg.Log.Level != "warn" {
		t.Fatalf("unexpected env overlay: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "CONJUGA_TEST_DOTENV=from-file\n")
	t.Setenv("CONJUGA_TEST_DOTENV", "")
	_ = os.Unsetenv("CONJUGA_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("CONJUGA_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "conjuga", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); !strings.HasSuffix(got, filepath.Join("conjuga", "conjuga.db")) {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "conjuga", "conjuga.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
