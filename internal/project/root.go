// Package project locates and loads the stagebench.yaml of a project.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/stagebench/internal/config"
)

// ErrNoConfig is returned when stagebench.yaml is not found.
var ErrNoConfig = errors.New(config.FileName + " not found in the current directory or any parent up to the root")

// FindConfig walks up from the current working directory until it finds stagebench.yaml.
func FindConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindConfigFrom(cwd)
}

// FindConfigFrom walks up from the given directory until it finds stagebench.yaml
// and returns its path.
func FindConfigFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, config.FileName)
		if fi, err := os.Stat(configPath); err == nil && !fi.IsDir() {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoConfig
		}
		dir = parent
	}
}
