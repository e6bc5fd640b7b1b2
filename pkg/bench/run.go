package bench

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagebench/internal/aggregate"
	benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/model"
	"github.com/AndreyAkinshin/stagebench/internal/report"
	"github.com/AndreyAkinshin/stagebench/internal/runner"
)

// ErrNoTests is returned by Execute when no test is registered.
var ErrNoTests = benchErrors.New("no tests to run")

// Outcome is the result of a completed run.
type Outcome struct {
	RunID       string
	Records     []Record
	Repetitions model.RepetitionSet
	Groups      *model.GroupSet
	Transcript  string
}

// Execute runs the suite and renders its report.
//
// Global setup, all tests and global teardown run in that order; within each
// phase everything runs concurrently. A failing hook aborts the run: its stage
// error is returned as soon as it happens and no results are kept. Hooks and
// tests still running at that point are not cancelled and may outlive Execute.
// Global teardown is skipped when global setup fails.
func (s *Suite) Execute(ctx context.Context) (*Outcome, error) {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	hooks, pending := s.snapshot()
	s.setState(StateIdle)

	if len(pending) == 0 {
		s.out.Println("No tests to run.")
		return nil, s.abort(log, ErrNoTests)
	}
	s.out.Info("Working...")
	log.Info("run started", zap.Int("executions", len(pending)))

	s.transition(log, StateGlobalSetup)
	if err := s.runStage(ctx, hooks.globalSetup, StageGlobalSetup, false); err != nil {
		return nil, s.abort(log, err)
	}

	s.transition(log, StateExecuting)
	tasks := make([]runner.Task[model.Record], len(pending))
	for i, e := range pending {
		tasks[i] = func() (model.Record, error) {
			return s.execute(ctx, e, &hooks)
		}
	}
	records, err := runner.All(tasks)
	if err != nil {
		if be, ok := benchErrors.IsStage(err); ok {
			s.out.Abort(be.Stage, be.Cause)
		} else {
			s.out.Abort(StageSetup.String(), err)
		}
		return nil, s.abort(log, err)
	}

	s.transition(log, StateGlobalTeardown)
	if err := s.runStage(ctx, hooks.globalTeardown, StageGlobalTeardown, false); err != nil {
		return nil, s.abort(log, err)
	}

	reps := aggregate.Repetitions(records)
	groups := aggregate.Groups(records, reps)
	if s.metrics != nil {
		for _, rec := range records {
			s.metrics.ObserveRecord(rec)
		}
	}

	transcript := s.renderer.Render(report.Input{
		Records:     records,
		Repetitions: reps,
		Groups:      groups,
	})

	s.transition(log, StateReported)
	if s.metrics != nil {
		s.metrics.RunFinished(true)
	}
	log.Info("run finished", zap.Int("records", len(records)), zap.Int("groups", groups.Len()))

	return &Outcome{
		RunID:       runID,
		Records:     records,
		Repetitions: reps,
		Groups:      groups,
		Transcript:  transcript,
	}, nil
}

// Run executes the suite and writes the transcript to outputPath, unless it is
// empty. It reports whether every stage succeeded; failing tests and a failed
// transcript export do not count.
func (s *Suite) Run(ctx context.Context, outputPath string) bool {
	outcome, err := s.Execute(ctx)
	if err != nil {
		return false
	}
	if outputPath != "" {
		_ = report.Export(s.out, s.transcripts, outputPath, outcome.Transcript)
	}
	return true
}

func (s *Suite) transition(log *zap.Logger, st State) {
	log.Debug("state changed", zap.Stringer("from", s.State()), zap.Stringer("to", st))
	s.setState(st)
}

func (s *Suite) abort(log *zap.Logger, err error) error {
	log.Warn("run aborted", zap.Stringer("state", s.State()), zap.Error(err))
	s.setState(StateAborted)
	if s.metrics != nil {
		s.metrics.RunFinished(false)
	}
	return err
}
