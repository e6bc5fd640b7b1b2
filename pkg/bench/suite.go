// Package bench runs benchmark tests under a staged lifecycle: global setup,
// per-test setup and teardown, and global teardown. Every test is timed, repeated
// tests are aggregated, and grouped tests are charted.
//
// Hooks of a stage and all tests run concurrently. The first failing hook
// aborts the run; a failing test is only recorded.
package bench

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagebench/internal/chart"
	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/persist"
	"github.com/AndreyAkinshin/stagebench/internal/report"
)

// Metrics receives run telemetry. *metrics.Recorder implements it.
type Metrics interface {
	ObserveRecord(rec Record)
	StageFailed(stage string)
	RunFinished(succeeded bool)
}

// Suite holds the registered hooks and tests of a benchmark.
// Registration is safe for concurrent use; runs of one suite must not overlap.
type Suite struct {
	mu      sync.Mutex
	hooks   hookSet
	pending []entry

	// executionGroups is never reset, so execution groups stay unique for the
	// lifetime of the suite.
	executionGroups atomic.Int64
	state           atomic.Int32

	out         *output.Writer
	log         *zap.Logger
	metrics     Metrics
	charts      persist.Store
	transcripts persist.Store
	renderer    report.Renderer
	chartStyle  chart.Style
}

// Option configures a Suite.
type Option func(*Suite)

// WithWriter sets the console writer.
func WithWriter(w *Writer) Option {
	return func(s *Suite) { s.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Suite) { s.log = l }
}

// WithMetrics sets the telemetry sink.
func WithMetrics(m Metrics) Option {
	return func(s *Suite) { s.metrics = m }
}

// WithChartDir writes group charts below dir instead of the working directory.
func WithChartDir(dir string) Option {
	return func(s *Suite) { s.charts = persist.NewDir(dir) }
}

// WithChartStore writes group charts to store.
func WithChartStore(store Store) Option {
	return func(s *Suite) { s.charts = store }
}

// WithTranscriptStore writes the result transcript to store.
func WithTranscriptStore(store Store) Option {
	return func(s *Suite) { s.transcripts = store }
}

// WithChartStyle sets the colors and axis ticks of group charts. It has no
// effect together with WithRenderer.
func WithChartStyle(st ChartStyle) Option {
	return func(s *Suite) { s.chartStyle = st }
}

// WithRenderer replaces the console report.
func WithRenderer(r Renderer) Option {
	return func(s *Suite) { s.renderer = r }
}

// New creates an empty suite.
func New(opts ...Option) *Suite {
	s := &Suite{
		out:         output.New(),
		log:         zap.NewNop(),
		charts:      persist.NewDir("."),
		transcripts: persist.NewDir("."),
		chartStyle:  chart.DefaultStyle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = report.NewConsole(s.out, s.charts,
			report.WithLogger(s.log),
			report.WithChartStyle(s.chartStyle))
	}
	return s
}

// RegisterGlobalSetup replaces the hooks run once before all tests.
func (s *Suite) RegisterGlobalSetup(hooks ...Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.globalSetup = hooks
}

// RegisterSetup replaces the hooks run before every test execution.
func (s *Suite) RegisterSetup(hooks ...Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.setup = hooks
}

// RegisterTeardown replaces the hooks run after every test execution.
func (s *Suite) RegisterTeardown(hooks ...Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.teardown = hooks
}

// RegisterGlobalTeardown replaces the hooks run once after all tests.
func (s *Suite) RegisterGlobalTeardown(hooks ...Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks.globalTeardown = hooks
}

// RegisterTests replaces the registered tests. A repeated test is queued once per
// execution. If any registration is invalid, the previous tests are kept and the
// error is returned.
func (s *Suite) RegisterTests(regs ...Registration) error {
	var pending []entry
	for _, reg := range regs {
		meta, err := s.normalize(reg)
		if err != nil {
			return err
		}
		for i := 0; i < meta.ExecutionCount(); i++ {
			pending = append(pending, entry{meta: meta, fn: reg.fn})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = pending
	return nil
}

// Reset removes every registered hook and test. Execution groups keep counting.
func (s *Suite) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = hookSet{}
	s.pending = nil
	s.setState(StateIdle)
}

// Pending returns the number of queued executions.
func (s *Suite) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// State returns the state reached by the last run.
func (s *Suite) State() State {
	return State(s.state.Load())
}

func (s *Suite) setState(st State) {
	s.state.Store(int32(st))
}

func (s *Suite) snapshot() (hookSet, []entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hooks, append([]entry(nil), s.pending...)
}
