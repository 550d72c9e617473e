package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hinohi/ahc001/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.TimeLimitMs = 1000
	cfg.Seed = 42
	cfg.Restarts = 4
	cfg.ParamsPath = "/tmp/params.json"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"seed": 9}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 9 {
		t.Errorf("expected seed 9, got %d", cfg.Seed)
	}
	if cfg.TimeLimitMs != model.DefaultAppConfig().TimeLimitMs {
		t.Errorf("missing fields should keep defaults, got %d", cfg.TimeLimitMs)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := ApplyEnv(model.DefaultAppConfig(), mapLookup(map[string]string{
		"AHC001_TIME_LIMIT_MS": "2000",
		"AHC001_SEED":          "18446744073709551615",
		"AHC001_WORKERS":       "3",
		"AHC001_PARAMS":        "tuned.json",
		"AHC001_LOG_LEVEL":     "debug",
		"AHC001_ROUNDS":        "",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeLimitMs != 2000 || cfg.Workers != 3 || cfg.Rounds != 0 {
		t.Errorf("unexpected integers %+v", cfg)
	}
	if cfg.Seed != ^uint64(0) {
		t.Errorf("expected max seed, got %d", cfg.Seed)
	}
	if cfg.ParamsPath != "tuned.json" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected strings %+v", cfg)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	if _, err := ApplyEnv(model.DefaultAppConfig(), mapLookup(map[string]string{"AHC001_RESTARTS": "many"})); err == nil {
		t.Error("expected an error for a non-integer")
	}
	if _, err := ApplyEnv(model.DefaultAppConfig(), mapLookup(map[string]string{"AHC001_SEED": "-1"})); err == nil {
		t.Error("expected an error for a negative seed")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("AHC001_TEST_DOTENV=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AHC001_TEST_DOTENV", "")
	os.Unsetenv("AHC001_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("AHC001_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}
}
