// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Workflow, the validated and read-only root of the
// model. A Workflow can only be obtained from New, so holding one means every
// invariant checked in validate.go holds.
package model

// Workflow is a validated workflow declaration.
type Workflow struct {
	name            string
	requiredVersion string
	jobs            []*Job
	platforms       Platforms
}

// Option configures validation in New.
type Option func(*options)

type options struct {
	platforms     Platforms
	engineVersion string
}

// WithPlatforms replaces the set of known platforms.
func WithPlatforms(ids ...string) Option {
	return func(o *options) {
		o.platforms = NewPlatforms(ids...)
	}
}

// WithEngineVersion overrides the version required_version is checked against.
func WithEngineVersion(v string) Option {
	return func(o *options) {
		o.engineVersion = v
	}
}

// New validates def and returns the resulting Workflow. The definition is
// deep-copied, so later changes to def do not leak into the Workflow.
func New(def Definition, opts ...Option) (*Workflow, error) {
	o := options{
		platforms:     NewPlatforms(DefaultPlatforms...),
		engineVersion: EngineVersion,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if errs := validate(def, o); len(errs) > 0 {
		return nil, errs
	}

	jobs := make([]*Job, 0, len(def.Jobs))
	for _, j := range def.Jobs {
		if j == nil {
			continue
		}
		jobs = append(jobs, j.clone())
	}

	return &Workflow{
		name:            def.Name,
		requiredVersion: def.RequiredVersion,
		jobs:            jobs,
		platforms:       o.platforms,
	}, nil
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// RequiredVersion returns the declared engine version constraint, if any.
func (w *Workflow) RequiredVersion() string { return w.requiredVersion }

// Len returns the number of jobs.
func (w *Workflow) Len() int { return len(w.jobs) }

// Jobs returns copies of the jobs in declaration order.
func (w *Workflow) Jobs() []Job {
	out := make([]Job, len(w.jobs))
	for i, j := range w.jobs {
		out[i] = *j.clone()
	}
	return out
}

// Job returns a copy of the named job.
func (w *Workflow) Job(name string) (Job, bool) {
	for _, j := range w.jobs {
		if j.Name == name {
			return *j.clone(), true
		}
	}
	return Job{}, false
}
