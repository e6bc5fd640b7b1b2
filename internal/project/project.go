package project

import (
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/stagebench/internal/config"
)

// Project represents a loaded stagebench configuration.
type Project struct {
	Root       string
	ConfigPath string
	Config     *config.Config
	Warnings   []string
}

// LoadProject finds and loads the configuration from the current directory.
func LoadProject() (*Project, error) {
	path, err := FindConfig()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(path)
}

// LoadProjectFrom loads the configuration file at path.
func LoadProjectFrom(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg, warnings, err := config.LoadAndValidate(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Project{
		Root:       filepath.Dir(abs),
		ConfigPath: abs,
		Config:     cfg,
		Warnings:   warnings,
	}, nil
}

// Load uses path when it is set and discovers the configuration otherwise.
func Load(path string) (*Project, error) {
	if path != "" {
		return LoadProjectFrom(path)
	}
	return LoadProject()
}

// OutputPath returns the transcript path, resolved against the project root.
func (p *Project) OutputPath() string {
	return p.Config.Resolve(p.Config.Output)
}

// ChartDir returns the chart directory, resolved against the project root.
func (p *Project) ChartDir() string {
	return p.Config.Resolve(p.Config.ChartDir)
}

// MetricsPath returns the metrics file path, resolved against the project root.
func (p *Project) MetricsPath() string {
	return p.Config.Resolve(p.Config.MetricsFile)
}
