// Package model provides shared data types used across multiple internal packages.
// This package exists to break import cycles between the engine in pkg/bench and the
// aggregation and report packages that consume its records.
package model

import (
	"time"
)

// NoName is the display name used for tests whose name is empty or anonymous.
const NoName = "(no name)"

// Metadata is the canonical, immutable description of one test registration.
// The same *Metadata is shared by every planned invocation of the registration.
type Metadata struct {
	name           string
	group          string
	hasGroup       bool
	executionCount int
	executionGroup int
}

// NewMetadata creates metadata for a registration. A nil group means the test is not
// charted. executionGroup is only kept when count > 1; counts below 1 become 1.
func NewMetadata(name string, group *string, count, executionGroup int) *Metadata {
	if count < 1 {
		count = 1
	}
	if name == "" {
		name = NoName
	}
	m := &Metadata{
		name:           name,
		executionCount: count,
	}
	if group != nil {
		m.group = *group
		m.hasGroup = true
	}
	if count > 1 {
		m.executionGroup = executionGroup
	}
	return m
}

// Name returns the display name.
func (m *Metadata) Name() string { return m.name }

// Group returns the chart group label and whether one is set.
func (m *Metadata) Group() (string, bool) { return m.group, m.hasGroup }

// ExecutionCount returns how many times the registration is invoked (always >= 1).
func (m *Metadata) ExecutionCount() int { return m.executionCount }

// ExecutionGroup returns the identity linking repeated invocations. It is only
// present when ExecutionCount() > 1.
func (m *Metadata) ExecutionGroup() (int, bool) {
	if m.executionCount > 1 {
		return m.executionGroup, true
	}
	return 0, false
}

// Record is the outcome of one test invocation.
type Record struct {
	Meta      *Metadata
	Async     bool          // the invocable returned a deferred result
	Completed bool          // finished without failing or panicking
	Elapsed   time.Duration // wall-clock time of the invocation
	Err       error         // failure cause when !Completed, informational only
}

// Micros returns the elapsed time in microseconds.
func (r Record) Micros() float64 {
	return Micros(r.Elapsed)
}

// Micros converts a duration to fractional microseconds.
func Micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}
