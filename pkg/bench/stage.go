package bench

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/runner"
)

// Stage identifies a lifecycle stage.
type Stage int

const (
	StageGlobalSetup Stage = iota
	StageSetup
	StageTeardown
	StageGlobalTeardown
)

var stageLabels = func() map[Stage]string {
	title := cases.Title(language.English)
	return map[Stage]string{
		StageGlobalSetup:    title.String("run before all tests"),
		StageSetup:          title.String("run before test"),
		StageTeardown:       title.String("run after test"),
		StageGlobalTeardown: title.String("run after all tests"),
	}
}()

// String returns the label printed when the stage aborts a run.
func (s Stage) String() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return "Unknown Stage"
}

// runStage runs every hook concurrently and waits until all of them succeed or
// one fails. The first failure is returned as a stage error at once; the other
// hooks keep running in the background. Unless silent, the abort message is
// printed.
func (s *Suite) runStage(ctx context.Context, hooks []Hook, stage Stage, silent bool) error {
	tasks := make([]runner.Task[struct{}], 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		tasks = append(tasks, func() (struct{}, error) {
			return struct{}{}, h(ctx)
		})
	}

	if _, err := runner.All(tasks); err != nil {
		s.log.Debug("stage failed", zap.Stringer("stage", stage), zap.Bool("silent", silent), zap.Error(err))
		if s.metrics != nil {
			s.metrics.StageFailed(stage.String())
		}
		if !silent {
			s.out.Abort(stage.String(), err)
		}
		return benchErrors.StageFailure(stage.String(), err)
	}
	return nil
}
