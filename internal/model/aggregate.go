package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Run is one invocation of a repeated test.
type Run struct {
	Micros    float64
	Completed bool
}

// Repetition accumulates the runs of one execution group.
type Repetition struct {
	Runs      []Run
	Total     float64 // sum of Runs[i].Micros
	Completed int     // number of completed runs

	printed bool
}

// Add appends one run.
func (r *Repetition) Add(micros float64, completed bool) {
	r.Runs = append(r.Runs, Run{Micros: micros, Completed: completed})
	r.Total += micros
	if completed {
		r.Completed++
	}
}

// Mean returns the mean elapsed time in microseconds.
func (r *Repetition) Mean() float64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return r.Total / float64(len(r.Runs))
}

// StdDev returns the sample standard deviation of the elapsed times, or 0 with
// fewer than two runs.
func (r *Repetition) StdDev() float64 {
	if len(r.Runs) < 2 {
		return 0
	}
	return stat.StdDev(r.micros(), nil)
}

// Min returns the fastest run in microseconds.
func (r *Repetition) Min() float64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return floats.Min(r.micros())
}

// Max returns the slowest run in microseconds.
func (r *Repetition) Max() float64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return floats.Max(r.micros())
}

// MarkPrinted flags the repetition as reported. It returns false if it already was.
func (r *Repetition) MarkPrinted() bool {
	if r.printed {
		return false
	}
	r.printed = true
	return true
}

func (r *Repetition) micros() []float64 {
	xs := make([]float64, len(r.Runs))
	for i, run := range r.Runs {
		xs[i] = run.Micros
	}
	return xs
}

// RepetitionSet maps execution groups to their aggregates.
type RepetitionSet map[int]*Repetition

// Lookup returns the aggregate for the record's execution group, if any.
func (s RepetitionSet) Lookup(m *Metadata) (*Repetition, bool) {
	eg, ok := m.ExecutionGroup()
	if !ok {
		return nil, false
	}
	rep, ok := s[eg]
	return rep, ok
}

// SuccessState classifies one chart bar.
type SuccessState int

const (
	StateFailure SuccessState = -1
	StateMixed   SuccessState = 0
	StateSuccess SuccessState = 1
)

func (s SuccessState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateMixed:
		return "mixed"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Verdict returns the human-readable outcome used in reports.
func (s SuccessState) Verdict() string {
	switch s {
	case StateSuccess:
		return "Succeeded"
	case StateMixed:
		return "Mixed results"
	default:
		return "Failed"
	}
}

// Classify applies the success tie-break to a repetition aggregate.
// A nil aggregate classifies the single record by its own completion.
func Classify(rep *Repetition, completed bool, executionCount int) SuccessState {
	switch {
	case rep == nil:
		if completed {
			return StateSuccess
		}
		return StateFailure
	case rep.Completed == 0:
		return StateFailure
	case rep.Completed < executionCount:
		return StateMixed
	default:
		return StateSuccess
	}
}

// Bar describes one bar of a group chart.
type Bar struct {
	Name  string
	State SuccessState
}

// Series is the chart data of one group: parallel values (microseconds) and bars.
type Series struct {
	Values []float64
	Bars   []Bar
}

// GroupSet holds the series of every chart group in first-seen order.
type GroupSet struct {
	order  []string
	series map[string]*Series
}

// NewGroupSet creates an empty group set.
func NewGroupSet() *GroupSet {
	return &GroupSet{series: make(map[string]*Series)}
}

// Append adds one bar to the named group, creating the group if needed.
func (g *GroupSet) Append(group string, value float64, bar Bar) {
	s, ok := g.series[group]
	if !ok {
		s = &Series{}
		g.series[group] = s
		g.order = append(g.order, group)
	}
	s.Values = append(s.Values, value)
	s.Bars = append(s.Bars, bar)
}

// Get returns the series of a group.
func (g *GroupSet) Get(group string) (*Series, bool) {
	if g == nil {
		return nil, false
	}
	s, ok := g.series[group]
	return s, ok
}

// Names returns the group names in first-seen order.
func (g *GroupSet) Names() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// Len returns the number of groups.
func (g *GroupSet) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}
