// Package config loads vcskema CLI settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read by Load.
const EnvPrefix = "VCSKEMA_"

// Configuration holds the vcskema CLI settings.
type Configuration struct {
	// Schemas lists schema definition files and directories.
	Schemas            []string `koanf:"schemas"`
	BaseURI            string   `koanf:"base_uri" validate:"omitempty,url"`
	NullifyEmptyValues bool     `koanf:"nullify_empty_values"`
	CleanupNulls       bool     `koanf:"cleanup_nulls"`
	Language           string   `koanf:"language" validate:"oneof=en ja"`
	LogLevel           string   `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat          string   `koanf:"log_format" validate:"oneof=text json"`
}

// GetDefaults returns the default value of every key.
func GetDefaults() map[string]any {
	return map[string]any{
		"schemas":              []string{},
		"base_uri":             "",
		"nullify_empty_values": false,
		"cleanup_nulls":        false,
		"language":             "en",
		"log_level":            "info",
		"log_format":           "text",
	}
}

// GlobalPath returns the user-wide config file location.
func GlobalPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vcskema", "config.json"), nil
}

// Load merges configuration sources.
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %q: %w", key, err)
		}
	}

	if globalPath, err := GlobalPath(); err == nil {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Schemas = splitList(cfg.Schemas)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys.
// Example: VCSKEMA_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// splitList expands comma separated entries, as set through VCSKEMA_SCHEMAS.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
