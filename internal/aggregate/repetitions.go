// Package aggregate turns the raw execution records of a run into the repetition
// aggregates and chart series used by the report.
package aggregate

import "github.com/AndreyAkinshin/stagebench/internal/model"

// Repetitions groups the records of repeated tests by execution group.
// Runs keep the order in which records appear. Single-run records are ignored.
func Repetitions(records []model.Record) model.RepetitionSet {
	set := make(model.RepetitionSet)
	for _, rec := range records {
		eg, ok := rec.Meta.ExecutionGroup()
		if !ok {
			continue
		}
		rep, ok := set[eg]
		if !ok {
			rep = &model.Repetition{}
			set[eg] = rep
		}
		rep.Add(rec.Micros(), rec.Completed)
	}
	return set
}
