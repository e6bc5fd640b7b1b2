// Package errors provides structured error types and exit codes for stagebench.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the stagebench binary.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Run aborted or a command failed
	ExitConfigError      = 2 // Configuration or registration error
	ExitEnvironmentError = 3 // Environment error (missing binary, unreadable file, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindEnvironment
	// KindRegistration is returned when a test registration is rejected.
	KindRegistration
	// KindStage is returned when a hook of a lifecycle stage fails.
	// It aborts the whole run.
	KindStage
	// KindPersistence is returned when a report artifact cannot be written.
	// It never changes the outcome of a run.
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindEnvironment:
		return "environment"
	case KindRegistration:
		return "registration"
	case KindStage:
		return "stage"
	case KindPersistence:
		return "persistence"
	default:
		return "runtime"
	}
}

// BenchError is the base error type for stagebench.
type BenchError struct {
	Kind    ErrorKind
	Message string
	Stage   string // Stage label if applicable
	Path    string // File path if applicable
	Cause   error  // Underlying error
}

func (e *BenchError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *BenchError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *BenchError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation, KindRegistration:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *BenchError {
	return &BenchError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *BenchError {
	return &BenchError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *BenchError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *BenchError {
	return &BenchError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Registration creates an error for a rejected chart group name.
func Registration(group string) *BenchError {
	return &BenchError{
		Kind:    KindRegistration,
		Message: fmt.Sprintf("The group name '%s' either contains a reserved Windows keyword or is an invalid filename.", group),
	}
}

// StageFailure creates the failure result of a lifecycle stage.
// The message is the text of the hook error that failed the stage.
func StageFailure(stage string, cause error) *BenchError {
	msg := "<nil>"
	if cause != nil {
		msg = cause.Error()
	}
	return &BenchError{
		Kind:    KindStage,
		Stage:   stage,
		Message: msg,
		Cause:   cause,
	}
}

// Persistence creates an error for a report artifact that could not be written.
func Persistence(path string, cause error) *BenchError {
	return &BenchError{
		Kind:    KindPersistence,
		Path:    path,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// IsStage reports whether err is, or wraps, a stage failure and returns it.
func IsStage(err error) (*BenchError, bool) {
	var be *BenchError
	if stderrors.As(err, &be) && be.Kind == KindStage {
		return be, true
	}
	return nil, false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var be *BenchError
	if stderrors.As(err, &be) {
		return be.ExitCode()
	}
	return ExitRuntimeError
}
