// Package report renders the results of a completed run to the console and to a
// plain-text transcript, and exports one chart per chart group.
package report

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/stagebench/internal/chart"
	"github.com/AndreyAkinshin/stagebench/internal/model"
	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/persist"
)

// Input is everything a renderer needs: the ordered records of a run and the two
// aggregation passes computed from them.
type Input struct {
	Records     []model.Record
	Repetitions model.RepetitionSet
	Groups      *model.GroupSet
}

// Renderer renders a completed run and returns the plain-text transcript.
type Renderer interface {
	Render(in Input) string
}

// Console renders reports through an output.Writer and writes group charts to a
// persist.Store.
type Console struct {
	out    *output.Writer
	charts persist.Store
	style  chart.Style
	log    *zap.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithChartStyle overrides the chart colors and axis ticks.
func WithChartStyle(s chart.Style) Option {
	return func(c *Console) { c.style = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Console) { c.log = l }
}

// NewConsole creates a console renderer. Charts are written to charts as
// "<group>.svg".
func NewConsole(out *output.Writer, charts persist.Store, opts ...Option) *Console {
	c := &Console{
		out:    out,
		charts: charts,
		style:  chart.DefaultStyle,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChartName returns the artifact name of a group chart.
func ChartName(group string) string {
	return group + ".svg"
}

// Render prints one block per test (one per repeated registration), followed by
// a summary table, and returns the same content without colors.
// Render marks the repetition aggregates of in as printed.
func (c *Console) Render(in Input) string {
	var transcript strings.Builder
	exported := make(map[string]bool)

	for _, rec := range in.Records {
		rep, repeated := in.Repetitions.Lookup(rec.Meta)
		if repeated && !rep.MarkPrinted() {
			continue
		}

		var b block
		c.renderRecord(&b, in, rec, rep, exported)

		if !c.out.Quiet() {
			c.out.Block(b.painted.String() + "\n")
		}
		transcript.WriteString(b.plain.String())
		transcript.WriteString("\n")
	}

	table := summaryTable(in)
	c.out.Block(table + "\n")
	transcript.WriteString(table)
	transcript.WriteString("\n")

	return transcript.String()
}

func (c *Console) renderRecord(b *block, in Input, rec model.Record, rep *model.Repetition, exported map[string]bool) {
	meta := rec.Meta
	w := c.out

	b.line("Function "+w.Gray(meta.Name()), "Function "+meta.Name())

	state := model.Classify(rep, rec.Completed, meta.ExecutionCount())
	micros := rec.Micros()
	if rep != nil {
		micros = rep.Mean()
	}
	b.line(w.Verdict(state)+" in "+FormatMicros(micros), state.Verdict()+" in "+FormatMicros(micros))

	if rep == nil && !rec.Completed && rec.Err != nil {
		b.line("Error: "+w.Gray(rec.Err), "Error: "+rec.Err.Error())
	}

	if rec.Async {
		b.line("Behaviour is "+w.Gray("async"), "Behaviour is async")
	}

	if group, ok := meta.Group(); ok {
		b.line("Belongs to group "+w.GrayQuoted(group), "Belongs to group '"+group+"'")

		if series, ok := in.Groups.Get(group); ok && c.exportChart(group, series, exported) {
			name := ChartName(group)
			b.line("Exported to graph "+w.CyanQuoted(name), "Exported to graph '"+name+"'")
		}
	}

	if rep != nil {
		count := meta.ExecutionCount()
		b.line("Executed "+w.Gray(count)+" times", fmt.Sprintf("Executed %d times", count))
		stats := fmt.Sprintf("Min %s, max %s, std dev %s",
			FormatMicros(rep.Min()), FormatMicros(rep.Max()), FormatMicros(rep.StdDev()))
		b.line(w.Gray(stats), stats)
		for i, run := range rep.Runs {
			mark := "F"
			if run.Completed {
				mark = "S"
			}
			b.line(fmt.Sprintf("Run #%d: %s %s", i+1, w.RunMark(run.Completed), FormatMicros(run.Micros)),
				fmt.Sprintf("Run #%d: %s %s", i+1, mark, FormatMicros(run.Micros)))
		}
	}
}

// exportChart writes the chart of a group the first time it is referenced and
// reports whether the chart exists.
func (c *Console) exportChart(group string, series *model.Series, exported map[string]bool) bool {
	if ok, seen := exported[group]; seen {
		return ok
	}

	name := ChartName(group)
	svg := c.style.SVG(series.Values, series.Bars, group)
	if err := c.charts.Write(name, svg); err != nil {
		c.log.Warn("chart export failed", zap.String("group", group), zap.Error(err))
		c.out.Warning("Exporting graph %s failed.\n%v", c.out.CyanQuoted(name), err)
		exported[group] = false
		return false
	}

	c.log.Debug("chart exported", zap.String("group", group), zap.Int("bars", len(series.Bars)))
	exported[group] = true
	return true
}

// block accumulates the colored and plain variants of a test's report.
type block struct {
	painted strings.Builder
	plain   strings.Builder
}

func (b *block) line(painted, plain string) {
	b.painted.WriteString(painted)
	b.painted.WriteString("\n")
	b.plain.WriteString(plain)
	b.plain.WriteString("\n")
}

// FormatMicros formats an elapsed time in microseconds for humans:
// "0.000123 secs (0.123 ms)" below one millisecond, "1.234 secs" otherwise.
func FormatMicros(micros float64) string {
	if micros < 1000 {
		return fmt.Sprintf("%.6f secs (%.3f ms)", micros/1e6, micros/1000)
	}
	return fmt.Sprintf("%.3f secs", micros/1e6)
}
