// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the validation error types returned by New.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failure kinds. A *ValidationError unwraps to exactly one of these.
var (
	ErrEmptyJobName      = errors.New("job name is empty")
	ErrDuplicateJob      = errors.New("duplicate job name")
	ErrUnknownPlatform   = errors.New("unknown platform")
	ErrDuplicateAxis     = errors.New("duplicate matrix axis")
	ErrEmptyAxis         = errors.New("matrix axis has no values")
	ErrInvalidExclude    = errors.New("invalid matrix exclude")
	ErrUnknownAxis       = errors.New("unknown matrix axis")
	ErrVersionConstraint = errors.New("required version not satisfied")
	ErrMatrixTooLarge    = errors.New("matrix too large")
)

// MaxMatrixInstances bounds the cross product of a single job's matrix,
// counted before exclusions.
const MaxMatrixInstances = 256

// ValidationError describes one broken invariant of a workflow declaration.
type ValidationError struct {
	Kind error
	// Job and Axis name the offending declaration, when applicable.
	Job    string
	Axis   string
	Source string
	Msg    string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Job != "" {
		fmt.Fprintf(&b, ": job %q", e.Job)
	}
	if e.Axis != "" {
		fmt.Fprintf(&b, ", axis %q", e.Axis)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, " (%s)", e.Source)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// ValidationErrors is the set of violations found in one declaration.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 1 {
		return "invalid workflow: " + es[0].Error()
	}
	lines := make([]string, 0, len(es)+1)
	lines = append(lines, fmt.Sprintf("invalid workflow: %d problems", len(es)))
	for _, e := range es {
		lines = append(lines, "  - "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes every violation to errors.Is and errors.As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
