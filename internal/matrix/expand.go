// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package matrix expands a job's matrix into concrete job instances.
//
// The expansion is the literal cross product of the declared axes, with the
// first axis varying slowest. Duplicate values are not collapsed. Exclusions
// are applied after the product is formed. Expand is a pure function of an
// already validated job and never fails.
package matrix

import (
	"math"

	"github.com/specialistvlad/burstmatrix/internal/model"
)

// Count returns the size of the cross product of the job's axes, ignoring
// exclusions. A job without a matrix counts as one. The result saturates at
// math.MaxInt instead of overflowing.
func Count(job model.Job) int {
	n := 1
	if job.Matrix == nil {
		return n
	}
	for _, axis := range job.Matrix.Axes {
		v := len(axis.Values)
		if v == 0 {
			return 0
		}
		if n > math.MaxInt/v {
			n = math.MaxInt
			continue
		}
		n *= v
	}
	return n
}

// Expand returns the job's instances in product order. A job without a
// matrix, or with a matrix of zero axes, expands to a single instance with an
// empty assignment.
func Expand(job model.Job) []model.JobInstance {
	var axes []model.Axis
	var exclude []model.Exclusion
	if job.Matrix != nil {
		axes = job.Matrix.Axes
		exclude = job.Matrix.Exclude
	}

	total := Count(job)
	instances := make([]model.JobInstance, 0, min(total, model.MaxMatrixInstances))
	if total == 0 {
		return instances
	}

	// idx is an odometer over the axes; the last position ticks fastest.
	idx := make([]int, len(axes))
	for range total {
		assignment := make(model.Assignment, len(axes))
		for i, axis := range axes {
			assignment[i] = model.AxisValue{Axis: axis.Name, Value: axis.Values[idx[i]]}
		}

		if !excluded(assignment, exclude) {
			instances = append(instances, model.JobInstance{
				Job:        job.Name,
				Index:      len(instances),
				Platform:   platformFor(job, assignment),
				Assignment: assignment,
				FailFast:   job.FailFast,
			})
		}

		for i := len(axes) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].Values) {
				break
			}
			idx[i] = 0
		}
	}

	return instances
}

func excluded(a model.Assignment, exclude []model.Exclusion) bool {
	for _, ex := range exclude {
		if len(ex) > 0 && a.Matches(ex) {
			return true
		}
	}
	return false
}

func platformFor(job model.Job, a model.Assignment) string {
	if job.PlatformAxis == "" {
		return job.Platform
	}
	if v, ok := a.Get(job.PlatformAxis); ok {
		return v
	}
	return job.Platform
}
