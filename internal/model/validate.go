// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the structural checks run by New. Each check appends to a
// shared ValidationErrors so that a single pass reports every problem.
package model

import (
	"fmt"
	"slices"
	"strings"
)

func validate(def Definition, o options) ValidationErrors {
	var errs ValidationErrors

	if err := checkRequiredVersion(def.RequiredVersion, o.engineVersion); err != nil {
		errs = append(errs, &ValidationError{Kind: ErrVersionConstraint, Msg: err.Error()})
	}

	seen := make(map[string]string, len(def.Jobs))
	for _, job := range def.Jobs {
		if job == nil {
			continue
		}
		if strings.TrimSpace(job.Name) == "" {
			errs = append(errs, &ValidationError{Kind: ErrEmptyJobName, Source: job.Source()})
			continue
		}
		if first, dup := seen[job.Name]; dup {
			msg := ""
			if first != "" {
				msg = "first declared in " + first
			}
			errs = append(errs, &ValidationError{Kind: ErrDuplicateJob, Job: job.Name, Source: job.Source(), Msg: msg})
		} else {
			seen[job.Name] = job.Source()
		}

		errs = append(errs, validateMatrix(job)...)
		errs = append(errs, validatePlatform(job, o.platforms)...)
	}

	return errs
}

func validateMatrix(job *Job) ValidationErrors {
	if job.Matrix == nil {
		return nil
	}
	var errs ValidationErrors
	verr := func(kind error, axis, msg string) {
		errs = append(errs, &ValidationError{Kind: kind, Job: job.Name, Axis: axis, Source: job.Source(), Msg: msg})
	}

	axes := make(map[string][]string, len(job.Matrix.Axes))
	product := 1
	for _, axis := range job.Matrix.Axes {
		if product <= MaxMatrixInstances {
			product *= len(axis.Values)
		}
		if axis.Name == "" {
			verr(ErrUnknownAxis, "", "axis name is empty")
			continue
		}
		if _, dup := axes[axis.Name]; dup {
			verr(ErrDuplicateAxis, axis.Name, "")
			continue
		}
		axes[axis.Name] = axis.Values
		if len(axis.Values) == 0 {
			verr(ErrEmptyAxis, axis.Name, "")
		}
	}

	if product > MaxMatrixInstances {
		verr(ErrMatrixTooLarge, "", fmt.Sprintf("cross product exceeds %d instances", MaxMatrixInstances))
	}

	for i, ex := range job.Matrix.Exclude {
		if len(ex) == 0 {
			verr(ErrInvalidExclude, "", fmt.Sprintf("exclude entry %d is empty", i))
			continue
		}
		for _, name := range sortedKeys(ex) {
			values, ok := axes[name]
			if !ok {
				verr(ErrInvalidExclude, name, fmt.Sprintf("exclude entry %d references an undeclared axis", i))
				continue
			}
			if !slices.Contains(values, ex[name]) {
				verr(ErrInvalidExclude, name, fmt.Sprintf("exclude entry %d: value %q is not declared", i, ex[name]))
			}
		}
	}

	return errs
}

func validatePlatform(job *Job, known Platforms) ValidationErrors {
	if job.PlatformAxis == "" {
		if !known.Has(job.Platform) {
			return ValidationErrors{{
				Kind:   ErrUnknownPlatform,
				Job:    job.Name,
				Source: job.Source(),
				Msg:    fmt.Sprintf("%q is not one of %s", job.Platform, strings.Join(known.Sorted(), ", ")),
			}}
		}
		return nil
	}

	axis, ok := job.Matrix.Axis(job.PlatformAxis)
	if !ok {
		return ValidationErrors{{
			Kind:   ErrUnknownAxis,
			Job:    job.Name,
			Axis:   job.PlatformAxis,
			Source: job.Source(),
			Msg:    "platform references an undeclared matrix axis",
		}}
	}
	var errs ValidationErrors
	for _, v := range axis.Values {
		if !known.Has(v) {
			errs = append(errs, &ValidationError{
				Kind:   ErrUnknownPlatform,
				Job:    job.Name,
				Axis:   axis.Name,
				Source: job.Source(),
				Msg:    fmt.Sprintf("%q is not a known platform", v),
			})
		}
	}
	return errs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
