package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/AndreyAkinshin/stagebench/internal/model"
)

// summaryTable renders one row per test (one per repeated registration) and a
// footer counting verdicts.
func summaryTable(in Input) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Test", "Verdict", "Time", "Runs", "Async", "Group"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Time", Align: text.AlignRight},
		{Name: "Runs", Align: text.AlignRight},
	})

	counts := make(map[model.SuccessState]int)
	seen := make(map[int]bool)
	for _, rec := range in.Records {
		meta := rec.Meta
		rep, repeated := in.Repetitions.Lookup(meta)
		if repeated {
			eg, _ := meta.ExecutionGroup()
			if seen[eg] {
				continue
			}
			seen[eg] = true
		}

		state := model.Classify(rep, rec.Completed, meta.ExecutionCount())
		counts[state]++

		elapsed := FormatMicros(rec.Micros())
		runs := "1"
		if rep != nil {
			elapsed = FormatMicros(rep.Mean())
			if len(rep.Runs) > 1 {
				elapsed += " ± " + FormatMicros(rep.StdDev())
			}
			runs = fmt.Sprintf("%d/%d", rep.Completed, len(rep.Runs))
		}

		async := ""
		if rec.Async {
			async = "yes"
		}
		group, _ := meta.Group()

		t.AppendRow(table.Row{meta.Name(), state.Verdict(), elapsed, runs, async, group})
	}

	t.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("%d succeeded, %d mixed, %d failed",
			counts[model.StateSuccess], counts[model.StateMixed], counts[model.StateFailure]),
		"", "", "", "",
	})
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t.Render()
}
