// Package config provides configuration loading and validation for stagebench.yaml.
package config

// FileName is the config file looked up by the CLI.
const FileName = "stagebench.yaml"

// Config represents the complete stagebench.yaml configuration.
type Config struct {
	Output      string      `yaml:"output,omitempty"`
	ChartDir    string      `yaml:"chart_dir,omitempty"`
	Color       string      `yaml:"color,omitempty"`     // auto, always or never
	LogLevel    string      `yaml:"log_level,omitempty"` // debug, info, warn or error
	MetricsFile string      `yaml:"metrics_file,omitempty"`
	Shell       bool        `yaml:"shell,omitempty"` // run commands through "sh -c"
	Suite       SuiteConfig `yaml:"suite"`

	// Dir is the directory of the config file. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// SuiteConfig lists the hooks and tests of the suite. Every hook is a command line.
type SuiteConfig struct {
	GlobalSetup    []string     `yaml:"global_setup,omitempty"`
	Setup          []string     `yaml:"setup,omitempty"`
	Teardown       []string     `yaml:"teardown,omitempty"`
	GlobalTeardown []string     `yaml:"global_teardown,omitempty"`
	Tests          []TestConfig `yaml:"tests,omitempty"`
}

// TestConfig defines one command-backed test.
type TestConfig struct {
	Name  string  `yaml:"name,omitempty"`
	Run   string  `yaml:"run"`
	Async bool    `yaml:"async,omitempty"`
	Group *string `yaml:"group,omitempty"`
	// ExecutionCount is floored; values below 1 mean 1.
	ExecutionCount float64 `yaml:"execution_count,omitempty"`
}

// Count returns the execution count as an integer of at least 1.
func (t TestConfig) Count() int {
	if !(t.ExecutionCount >= 1) { // also catches NaN
		return 1
	}
	if t.ExecutionCount > MaxExecutionCount {
		return MaxExecutionCount
	}
	return int(t.ExecutionCount)
}
