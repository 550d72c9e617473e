package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hinohi/ahc001/internal/model"
	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable the tools read.
const EnvPrefix = "AHC001_"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.ahc001/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ahc001")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Fields missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays AHC001_* variables onto config. lookup is usually
// os.LookupEnv.
func ApplyEnv(config model.AppConfig, lookup func(string) (string, bool)) (model.AppConfig, error) {
	ints := []struct {
		key string
		dst *int
	}{
		{"TIME_LIMIT_MS", &config.TimeLimitMs},
		{"ROUNDS", &config.Rounds},
		{"RESTARTS", &config.Restarts},
		{"WORKERS", &config.Workers},
		{"INDEX_DEPTH", &config.IndexDepth},
	}
	for _, f := range ints {
		v, ok := lookup(EnvPrefix + f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.AppConfig{}, fmt.Errorf("%s%s=%q: not an integer", EnvPrefix, f.key, v)
		}
		*f.dst = n
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return model.AppConfig{}, fmt.Errorf("%sSEED=%q: not an unsigned integer", EnvPrefix, v)
		}
		config.Seed = n
	}
	if v, ok := lookup(EnvPrefix + "PARAMS"); ok && v != "" {
		config.ParamsPath = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	return config, nil
}
