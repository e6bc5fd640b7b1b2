// Package cli provides the command-line interface of stagebench.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/output"
)

// Version is set at build time.
var Version = "dev"

// errAborted reports a run that stopped early. Its cause was already printed.
var errAborted = errors.New("run aborted")

// Run executes the CLI with the given arguments and returns an exit code.
// An interrupt cancels the running commands.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var out *output.Writer
	if stdout == os.Stdout && stderr == os.Stderr {
		out = output.New()
	} else {
		out = output.NewWithWriters(stdout, stderr, false)
	}

	root := newRootCmd(out)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return errors.ExitSuccess
	case stderrors.Is(err, errAborted):
		return errors.ExitRuntimeError
	default:
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
}

func newRootCmd(out *output.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "stagebench",
		Short: "Run benchmark tests under a staged lifecycle",
		Long: `stagebench runs the tests of a stagebench.yaml file under a staged lifecycle:
global setup, per-test setup and teardown, and global teardown.

Every test is a command line. Tests run concurrently and are timed; repeated
tests are aggregated and tests sharing a group are drawn on one SVG chart.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("stagebench {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})

	root.AddCommand(
		newRunCmd(out),
		newValidateCmd(out),
		newVersionCmd(out),
	)
	return root
}
