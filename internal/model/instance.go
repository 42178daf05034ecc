// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "strings"

// AxisValue is one axis=value pair of an assignment.
type AxisValue struct {
	Axis  string `json:"axis"`
	Value string `json:"value"`
}

// Assignment is the axis-value combination of a JobInstance, in declared
// axis order.
type Assignment []AxisValue

// Get returns the value assigned to axis.
func (a Assignment) Get(axis string) (string, bool) {
	for _, av := range a {
		if av.Axis == axis {
			return av.Value, true
		}
	}
	return "", false
}

// Values returns the assigned values in axis order.
func (a Assignment) Values() []string {
	out := make([]string, len(a))
	for i, av := range a {
		out[i] = av.Value
	}
	return out
}

// Matches reports whether every pair of ex is part of the assignment.
func (a Assignment) Matches(ex Exclusion) bool {
	for axis, want := range ex {
		if got, ok := a.Get(axis); !ok || got != want {
			return false
		}
	}
	return true
}

// String renders the assignment as "axis=value, axis=value".
func (a Assignment) String() string {
	parts := make([]string, len(a))
	for i, av := range a {
		parts[i] = av.Axis + "=" + av.Value
	}
	return strings.Join(parts, ", ")
}

// JobInstance is one concrete variant of a job.
type JobInstance struct {
	Job        string     `json:"job"`
	Index      int        `json:"index"`
	Platform   string     `json:"platform"`
	Assignment Assignment `json:"assignment"`
	FailFast   bool       `json:"fail_fast"`
}

// DisplayName returns the job name followed by the assigned values, the way
// CI runners label matrix variants, e.g. "test (ubuntu-latest, --lib)".
func (i JobInstance) DisplayName() string {
	if len(i.Assignment) == 0 {
		return i.Job
	}
	return i.Job + " (" + strings.Join(i.Assignment.Values(), ", ") + ")"
}
