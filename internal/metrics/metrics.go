// Package metrics records run telemetry in Prometheus format.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AndreyAkinshin/stagebench/internal/model"
)

const Namespace = "stagebench"

// Recorder collects metrics on a private registry. A nil *Recorder discards
// everything.
type Recorder struct {
	registry      *prometheus.Registry
	tests         *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	runs          *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		tests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tests_total",
			Help:      "Count of test executions by outcome",
		}, []string{"state"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stage_failures_total",
			Help:      "Count of failed lifecycle stages",
		}, []string{"stage"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Count of runs by result",
		}, []string{"result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "test_duration_seconds",
			Help:      "Elapsed time of test executions (s)",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"async"}),
	}
}

// ObserveRecord counts one execution and its elapsed time.
func (r *Recorder) ObserveRecord(rec model.Record) {
	if r == nil {
		return
	}
	state := model.Classify(nil, rec.Completed, 1)
	r.tests.WithLabelValues(state.String()).Inc()
	r.duration.WithLabelValues(strconv.FormatBool(rec.Async)).Observe(rec.Elapsed.Seconds())
}

// StageFailed counts a failed stage.
func (r *Recorder) StageFailed(stage string) {
	if r == nil {
		return
	}
	r.stageFailures.WithLabelValues(stage).Inc()
}

// RunFinished counts a finished run.
func (r *Recorder) RunFinished(succeeded bool) {
	if r == nil {
		return
	}
	result := "aborted"
	if succeeded {
		result = "reported"
	}
	r.runs.WithLabelValues(result).Inc()
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes the metrics in the Prometheus text format, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
