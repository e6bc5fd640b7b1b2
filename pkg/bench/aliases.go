package bench

import (
	"io"

	"github.com/AndreyAkinshin/stagebench/internal/chart"
	"github.com/AndreyAkinshin/stagebench/internal/model"
	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/persist"
	"github.com/AndreyAkinshin/stagebench/internal/report"
)

type (
	// Record is the measurement of one test execution.
	Record = model.Record
	// Metadata describes a registered test.
	Metadata = model.Metadata
	// SuccessState classifies a test for reports and charts.
	SuccessState = model.SuccessState
	// Writer prints console output.
	Writer = output.Writer
	// Store receives report artifacts.
	Store = persist.Store
	// Renderer renders a completed run and returns its transcript.
	Renderer = report.Renderer
	// ReportInput is what a Renderer receives.
	ReportInput = report.Input
	// ChartStyle holds the colors and axis ticks of group charts.
	ChartStyle = chart.Style
)

// DefaultChartStyle is the chart style used unless WithChartStyle is given.
var DefaultChartStyle = chart.DefaultStyle

const (
	Succeeded = model.StateSuccess
	Mixed     = model.StateMixed
	Failed    = model.StateFailure
)

// NoName is the name of tests registered with an anonymous function.
const NoName = model.NoName

// NewWriter creates a console writer over out and errOut.
func NewWriter(out, errOut io.Writer, color bool) *Writer {
	return output.NewWithWriters(out, errOut, color)
}

// NewMemoryStore creates a Store keeping artifacts in memory.
func NewMemoryStore() *persist.Memory {
	return persist.NewMemory()
}
