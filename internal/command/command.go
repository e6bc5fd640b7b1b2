// Package command turns the command lines of a config file into lifecycle hooks
// and tests.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/shlex"

	"github.com/AndreyAkinshin/stagebench/pkg/bench"
)

// maxStderr bounds the stderr tail kept for error messages.
const maxStderr = 2048

// Runner executes command lines.
type Runner struct {
	// Dir is the working directory of every command. Empty means the current one.
	Dir string
	// Shell runs command lines through the platform shell instead of splitting them.
	Shell bool
}

// Run executes line and waits for it to exit.
func (r *Runner) Run(ctx context.Context, line string) error {
	cmd, stderr, err := r.command(ctx, line)
	if err != nil {
		return err
	}
	return failure(line, cmd.Run(), stderr)
}

// Start launches line and returns a future settled when it exits.
func (r *Runner) Start(ctx context.Context, line string) (*bench.Future, error) {
	cmd, stderr, err := r.command(ctx, line)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, failure(line, err, stderr)
	}
	return bench.Go(func() error {
		return failure(line, cmd.Wait(), stderr)
	}), nil
}

// Hook returns a lifecycle hook running line.
func (r *Runner) Hook(line string) bench.Hook {
	return func(ctx context.Context) error {
		return r.Run(ctx, line)
	}
}

// Test returns a test running line. An async test is timed until the process
// exits; failing to start it is a synchronous failure.
func (r *Runner) Test(line string, async bool) bench.Func {
	if !async {
		return func(ctx context.Context) bench.Result {
			if err := r.Run(ctx, line); err != nil {
				return bench.Fail(err)
			}
			return bench.Done()
		}
	}
	return func(ctx context.Context) bench.Result {
		f, err := r.Start(ctx, line)
		if err != nil {
			return bench.Fail(err)
		}
		return bench.Await(f)
	}
}

func (r *Runner) command(ctx context.Context, line string) (*exec.Cmd, *tailBuffer, error) {
	var cmd *exec.Cmd
	if r.Shell {
		cmd = buildShellCommand(ctx, line)
	} else {
		args, err := shlex.Split(line)
		if err != nil {
			return nil, nil, fmt.Errorf("command %q: %w", line, err)
		}
		if len(args) == 0 {
			return nil, nil, fmt.Errorf("command %q is empty", line)
		}
		cmd = exec.CommandContext(ctx, args[0], args[1:]...)
	}

	stderr := &tailBuffer{}
	cmd.Dir = r.Dir
	cmd.Stderr = stderr
	return cmd, stderr, nil
}

// buildShellCommand creates a cross-platform shell command.
// On Windows, uses full path to PowerShell; on Unix, uses sh -c.
func buildShellCommand(ctx context.Context, line string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		systemRoot := os.Getenv("SYSTEMROOT")
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}
		powershell := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
		return exec.CommandContext(ctx, powershell, "-NoProfile", "-NonInteractive", "-Command", line)
	}
	return exec.CommandContext(ctx, "sh", "-c", line)
}

func failure(line string, err error, stderr *tailBuffer) error {
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("command %q failed: %w\n%s", line, err, msg)
	}
	return fmt.Errorf("command %q failed: %w", line, err)
}

// tailBuffer keeps the last maxStderr bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	b.buf.Write(p)
	if extra := b.buf.Len() - maxStderr; extra > 0 {
		b.buf.Next(extra)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return b.buf.String()
}
