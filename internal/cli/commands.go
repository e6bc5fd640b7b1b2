package cli

import (
	stderrors "errors"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagebench/internal/command"
	"github.com/AndreyAkinshin/stagebench/internal/config"
	"github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/logging"
	"github.com/AndreyAkinshin/stagebench/internal/metrics"
	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/project"
	"github.com/AndreyAkinshin/stagebench/pkg/bench"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	configPath  string
	outputPath  string
	metricsFile string
	chartDir    string
	noColor     bool
	quiet       bool
	verbose     bool
}

func newRunCmd(out *output.Writer) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the suite and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuite(cmd, out, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: stagebench.yaml in this or a parent directory)")
	f.StringVarP(&opts.outputPath, "output", "o", "", "write the result transcript to this file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.chartDir, "chart-dir", "", "write group charts to this directory")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the summary")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runSuite(cmd *cobra.Command, out *output.Writer, opts *runOptions) error {
	proj, err := loadProject(out, opts.configPath)
	if err != nil {
		return err
	}
	cfg := proj.Config

	applyColor(out, cfg.Color, opts.noColor)
	out.SetQuiet(opts.quiet)

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return errors.Configf("invalid log level: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("configuration loaded", zap.String("path", proj.ConfigPath), zap.Int("tests", len(cfg.Suite.Tests)))

	chartDir := proj.ChartDir()
	if opts.chartDir != "" {
		chartDir = opts.chartDir
	}
	suiteOpts := []bench.Option{
		bench.WithWriter(out),
		bench.WithLogger(logger),
		bench.WithChartDir(chartDir),
	}

	metricsPath := proj.MetricsPath()
	if opts.metricsFile != "" {
		metricsPath = opts.metricsFile
	}
	var recorder *metrics.Recorder
	if metricsPath != "" {
		recorder = metrics.New()
		suiteOpts = append(suiteOpts, bench.WithMetrics(recorder))
	}

	suite := bench.New(suiteOpts...)
	if err := command.Register(suite, cfg); err != nil {
		return err
	}

	outputPath := proj.OutputPath()
	if opts.outputPath != "" {
		outputPath = opts.outputPath
	}
	ok := suite.Run(cmd.Context(), outputPath)

	if recorder != nil {
		if err := recorder.WriteTextfile(metricsPath); err != nil {
			logger.Warn("metrics export failed", zap.String("path", metricsPath), zap.Error(err))
			out.Warning("Exporting metrics to file %s failed.\n%v", out.CyanQuoted(metricsPath), err)
		}
	}

	if !ok {
		return errAborted
	}
	return nil
}

func newValidateCmd(out *output.Writer) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file without running anything",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			proj, err := loadProject(out, configPath)
			if err != nil {
				return err
			}

			executions := 0
			for _, t := range proj.Config.Suite.Tests {
				executions += t.Count()
			}
			out.ValidationSuccess("%s is valid (%d tests, %d executions)",
				proj.ConfigPath, len(proj.Config.Suite.Tests), executions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default: stagebench.yaml in this or a parent directory)")
	return cmd
}

func newVersionCmd(out *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			out.Println("stagebench %s", Version)
		},
	}
}

// loadProject loads the configuration and prints its warnings. A config file
// that cannot be read is an environment error; anything else is a config error.
func loadProject(out *output.Writer, path string) (*project.Project, error) {
	proj, err := project.Load(path)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}
	return proj, nil
}

func classifyLoadError(err error) error {
	var (
		be *errors.BenchError
		ve *config.ValidationError
	)
	switch {
	case stderrors.As(err, &be):
		return err
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, fs.ErrPermission):
		be = errors.Environment(err.Error())
	case stderrors.As(err, &ve):
		be = &errors.BenchError{Kind: errors.KindValidation, Message: err.Error()}
	default:
		be = errors.Config(err.Error())
	}
	be.Cause = err
	return be
}

func applyColor(out *output.Writer, mode string, noColor bool) {
	switch {
	case noColor || mode == "never":
		out.SetColor(false)
	case mode == "always":
		out.SetColor(true)
	}
}
