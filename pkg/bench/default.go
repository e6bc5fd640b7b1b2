package bench

import "context"

var defaultSuite = New()

// Default returns the suite used by the package-level functions.
func Default() *Suite {
	return defaultSuite
}

// RegisterGlobalSetup replaces the global setup hooks of the default suite.
func RegisterGlobalSetup(hooks ...Hook) { defaultSuite.RegisterGlobalSetup(hooks...) }

// RegisterSetup replaces the per-test setup hooks of the default suite.
func RegisterSetup(hooks ...Hook) { defaultSuite.RegisterSetup(hooks...) }

// RegisterTests replaces the tests of the default suite.
func RegisterTests(regs ...Registration) error { return defaultSuite.RegisterTests(regs...) }

// RegisterTeardown replaces the per-test teardown hooks of the default suite.
func RegisterTeardown(hooks ...Hook) { defaultSuite.RegisterTeardown(hooks...) }

// RegisterGlobalTeardown replaces the global teardown hooks of the default suite.
func RegisterGlobalTeardown(hooks ...Hook) { defaultSuite.RegisterGlobalTeardown(hooks...) }

// Run runs the default suite. See Suite.Run.
func Run(ctx context.Context, outputPath string) bool { return defaultSuite.Run(ctx, outputPath) }

// Reset clears the default suite.
func Reset() { defaultSuite.Reset() }
