package config

import "regexp"

// Default configuration values.
const (
	DefaultChartDir = "."
	DefaultColor    = "auto"
	DefaultLogLevel = "warn"

	MaxExecutionCount = 1_000_000
)

// Environment variables overriding config values.
const (
	EnvOutput   = "STAGEBENCH_OUTPUT"
	EnvLogLevel = "STAGEBENCH_LOG_LEVEL"
	EnvColor    = "STAGEBENCH_COLOR"
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.ChartDir == "" {
		cfg.ChartDir = DefaultChartDir
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	applyTestDefaults(cfg)
}

func applyTestDefaults(cfg *Config) {
	for i := range cfg.Suite.Tests {
		test := &cfg.Suite.Tests[i]
		// Default name is the command line
		if test.Name == "" {
			test.Name = test.Run
		}
	}
}

// applyEnvOverrides replaces config values with those set in the environment.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvOutput); ok {
		cfg.Output = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvColor); ok && v != "" {
		cfg.Color = v
	}
}

// expandEnv replaces ${VAR} references in commands and paths. Bare $VAR
// references are kept for the shell that runs the command.
func expandEnv(cfg *Config, getenv func(string) string) {
	expand := func(s string) string { return expandString(s, getenv) }
	expandAll := func(xs []string) {
		for i := range xs {
			xs[i] = expand(xs[i])
		}
	}

	cfg.Output = expand(cfg.Output)
	cfg.ChartDir = expand(cfg.ChartDir)
	cfg.MetricsFile = expand(cfg.MetricsFile)
	expandAll(cfg.Suite.GlobalSetup)
	expandAll(cfg.Suite.Setup)
	expandAll(cfg.Suite.Teardown)
	expandAll(cfg.Suite.GlobalTeardown)
	for i := range cfg.Suite.Tests {
		cfg.Suite.Tests[i].Run = expand(cfg.Suite.Tests[i].Run)
	}
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandString replaces ${VAR} references. Bare $VAR is left for the shell.
func expandString(s string, getenv func(string) string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return getenv(ref[2 : len(ref)-1])
	})
}
