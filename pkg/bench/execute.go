package bench

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagebench/internal/model"
	"github.com/AndreyAkinshin/stagebench/internal/runner"
)

// entry is one pending execution. A repeated test has one entry per execution,
// all sharing the same metadata.
type entry struct {
	meta *model.Metadata
	fn   Func
}

// hookSet is the snapshot of registered hooks used by one run.
type hookSet struct {
	globalSetup    []Hook
	setup          []Hook
	teardown       []Hook
	globalTeardown []Hook
}

// execute runs one pending entry between the per-test hooks and times it.
//
// A failing test is recorded, not returned. The returned error is always a stage
// error from the per-test hooks; a failing teardown replaces the record even
// though the test itself ran.
func (s *Suite) execute(ctx context.Context, e entry, hooks *hookSet) (model.Record, error) {
	if err := s.runStage(ctx, hooks.setup, StageSetup, true); err != nil {
		return model.Record{}, err
	}

	rec := model.Record{Meta: e.meta}
	start := time.Now()

	res, err := runner.Protect(func() (Result, error) {
		return e.fn(ctx), nil
	})
	switch {
	case err != nil:
		rec.Err = err
	case res.future != nil:
		rec.Async = true
		rec.Err = res.future.Wait()
		rec.Completed = rec.Err == nil
	case res.err != nil:
		rec.Err = res.err
	default:
		rec.Completed = true
	}
	rec.Elapsed = time.Since(start)

	if err := s.runStage(ctx, hooks.teardown, StageTeardown, true); err != nil {
		return model.Record{}, err
	}

	s.log.Debug("test executed",
		zap.String("test", e.meta.Name()),
		zap.Duration("elapsed", rec.Elapsed),
		zap.Bool("async", rec.Async),
		zap.Bool("completed", rec.Completed))
	return rec, nil
}
