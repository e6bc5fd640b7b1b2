package aggregate

import "github.com/AndreyAkinshin/stagebench/internal/model"

// Groups builds the chart series of every named group.
//
// A repeated test contributes a single bar, valued at its mean time, the first time
// one of its records is seen. Every single-run record contributes its own bar.
// Neither argument is modified.
func Groups(records []model.Record, reps model.RepetitionSet) *model.GroupSet {
	groups := model.NewGroupSet()
	emitted := make(map[int]bool)

	for _, rec := range records {
		group, ok := rec.Meta.Group()
		if !ok {
			continue
		}
		if eg, repeated := rec.Meta.ExecutionGroup(); repeated {
			if emitted[eg] {
				continue
			}
			emitted[eg] = true
		}

		rep, _ := reps.Lookup(rec.Meta)
		state := model.Classify(rep, rec.Completed, rec.Meta.ExecutionCount())

		value := rec.Micros()
		if rep != nil {
			value = rep.Mean()
		}

		groups.Append(group, value, model.Bar{Name: rec.Meta.Name(), State: state})
	}

	return groups
}
