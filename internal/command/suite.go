package command

import (
	"fmt"

	"github.com/AndreyAkinshin/stagebench/internal/config"
	"github.com/AndreyAkinshin/stagebench/pkg/bench"
)

// Register replaces the hooks and tests of s with those of cfg. Commands run in
// the config directory. If the tests are rejected, s is left unchanged.
func Register(s *bench.Suite, cfg *config.Config) error {
	r := &Runner{Dir: cfg.Dir, Shell: cfg.Shell}

	regs := make([]bench.Registration, 0, len(cfg.Suite.Tests))
	for _, t := range cfg.Suite.Tests {
		opts := []bench.TestOption{
			bench.WithName(t.Name),
			bench.WithExecutionCount(t.Count()),
		}
		if t.Group != nil {
			opts = append(opts, bench.WithGroup(*t.Group))
		}
		regs = append(regs, bench.Test(r.Test(t.Run, t.Async), opts...))
	}
	if err := s.RegisterTests(regs...); err != nil {
		return fmt.Errorf("failed to register tests: %w", err)
	}

	s.RegisterGlobalSetup(r.hooks(cfg.Suite.GlobalSetup)...)
	s.RegisterSetup(r.hooks(cfg.Suite.Setup)...)
	s.RegisterTeardown(r.hooks(cfg.Suite.Teardown)...)
	s.RegisterGlobalTeardown(r.hooks(cfg.Suite.GlobalTeardown)...)
	return nil
}

func (r *Runner) hooks(lines []string) []bench.Hook {
	hooks := make([]bench.Hook, len(lines))
	for i, line := range lines {
		hooks[i] = r.Hook(line)
	}
	return hooks
}
