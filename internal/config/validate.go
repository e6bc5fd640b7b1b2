package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/AndreyAkinshin/stagebench/internal/logging"
	"github.com/AndreyAkinshin/stagebench/internal/model"
)

// Colors lists the accepted color modes.
var Colors = []string{"auto", "always", "never"}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateSettings(cfg); err != nil {
		return nil, err
	}

	hooks := []struct {
		field    string
		commands []string
	}{
		{"suite.global_setup", cfg.Suite.GlobalSetup},
		{"suite.setup", cfg.Suite.Setup},
		{"suite.teardown", cfg.Suite.Teardown},
		{"suite.global_teardown", cfg.Suite.GlobalTeardown},
	}
	for _, h := range hooks {
		if err := validateCommands(h.field, h.commands); err != nil {
			return nil, err
		}
	}

	if len(cfg.Suite.Tests) == 0 {
		warnings = append(warnings, "suite.tests: no tests defined")
	}
	for i, test := range cfg.Suite.Tests {
		w, err := validateTest(fmt.Sprintf("suite.tests[%d]", i), test)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	return warnings, nil
}

func validateSettings(cfg *Config) error {
	if !contains(Colors, cfg.Color) {
		return &ValidationError{
			Field:   "color",
			Message: fmt.Sprintf("must be one of %s", strings.Join(Colors, ", ")),
		}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of %s", strings.Join(logging.Levels, ", ")),
		}
	}
	return nil
}

func validateCommands(field string, commands []string) error {
	for i, c := range commands {
		if strings.TrimSpace(c) == "" {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: "command is empty"}
		}
	}
	return nil
}

func validateTest(field string, test TestConfig) ([]string, error) {
	if strings.TrimSpace(test.Run) == "" {
		return nil, &ValidationError{Field: field + ".run", Message: "is required"}
	}
	if err := ValidateGroupName(field+".group", test.Group); err != nil {
		return nil, err
	}

	var warnings []string
	n := test.ExecutionCount
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0):
		return nil, &ValidationError{Field: field + ".execution_count", Message: "must be a finite number"}
	case n > MaxExecutionCount:
		return nil, &ValidationError{
			Field:   field + ".execution_count",
			Message: fmt.Sprintf("must be %d or less", MaxExecutionCount),
		}
	case n != 0 && n < 1:
		warnings = append(warnings, fmt.Sprintf("%s.execution_count: %v is below 1, running once", field, n))
	case n != math.Floor(n):
		warnings = append(warnings, fmt.Sprintf("%s.execution_count: %v rounded down to %d", field, n, test.Count()))
	}
	return warnings, nil
}

// ValidateGroupName checks that a chart group can be used as a file name.
// A nil group is valid.
func ValidateGroupName(field string, group *string) error {
	if group == nil || model.ValidGroupName(*group) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("the group name '%s' either contains a reserved Windows keyword or is an invalid filename", *group),
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
