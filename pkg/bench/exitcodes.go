package bench

import benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"

// Exit codes returned by the stagebench binary, for tools wrapping it.
const (
	// ExitSuccess indicates that every stage succeeded. Tests may still have failed.
	ExitSuccess = benchErrors.ExitSuccess

	// ExitFailure indicates an aborted run or an empty suite.
	ExitFailure = benchErrors.ExitRuntimeError

	// ExitConfigError indicates an invalid config file or test registration.
	ExitConfigError = benchErrors.ExitConfigError

	// ExitEnvError indicates an environment error (missing command, unreadable file, etc.).
	ExitEnvError = benchErrors.ExitEnvironmentError
)
