package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/stagebench/internal/schema"
)

// Load reads and parses a stagebench.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Dir = filepath.Dir(path)
	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the JSON schema, applies
// environment overrides and defaults, validates, and returns warnings.
//
// A .env file next to the config is loaded first; variables already set in the
// environment win. ${VAR} references in commands and paths are then expanded.
func LoadAndValidate(path string) (*Config, []string, error) {
	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := schema.ValidateConfigYAML(data); err != nil {
		return nil, nil, err
	}

	cfg, err := parse(path, data)
	if err != nil {
		return nil, nil, err
	}

	applyEnvOverrides(cfg, os.LookupEnv)
	expandEnv(cfg, os.Getenv)
	applyDefaults(cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return nil, warnings, err
	}

	return cfg, warnings, nil
}

// Resolve returns p relative to the config directory, unless p is empty or absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
