// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the declaration types a loader fills in before
// validation. They are plain data and carry no behaviour beyond cloning.
package model

import (
	"maps"
	"slices"
)

// Definition is the unvalidated declaration of a workflow, as produced by a
// configuration loader.
type Definition struct {
	Name string
	// RequiredVersion is an optional semver constraint on the engine version.
	RequiredVersion string
	Jobs            []*Job
}

// Job is a single job declaration.
type Job struct {
	Name string
	// Platform is the runner platform identifier. It is empty when
	// PlatformAxis is set.
	Platform string
	// PlatformAxis names a matrix axis whose values are used as the platform
	// of each instance.
	PlatformAxis string
	Matrix       *Matrix
	Steps        []Step
	Env          map[string]string
	FailFast     bool
	Cache        *Cache

	FSInformation *FSInfo
}

// Step is an opaque step declaration. The engine never interprets it.
type Step struct {
	Name string            `json:"name,omitempty"`
	Run  string            `json:"run,omitempty"`
	Uses string            `json:"uses,omitempty"`
	With map[string]string `json:"with,omitempty"`
	Env  map[string]string `json:"env,omitempty"`
}

// Matrix is an ordered set of axes plus optional exclusions.
type Matrix struct {
	Axes    []Axis
	Exclude []Exclusion
}

// Axis is a named dimension of a matrix.
type Axis struct {
	Name   string
	Values []string
}

// Exclusion is a partial assignment. A combination matching every pair of
// the exclusion is dropped from the expansion.
type Exclusion map[string]string

// Cache describes the cache a job wants restored and saved. Paths are opaque
// per-platform strings handed to the external cache store.
type Cache struct {
	Key   string
	Paths []string
}

// FSInfo links a declaration back to the file it was read from.
type FSInfo struct {
	FilePath string
}

// NewFSInfo creates an FSInfo for the given path.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{FilePath: filePath}
}

// Axis returns the axis with the given name.
func (m *Matrix) Axis(name string) (Axis, bool) {
	if m == nil {
		return Axis{}, false
	}
	for _, a := range m.Axes {
		if a.Name == name {
			return a, true
		}
	}
	return Axis{}, false
}

func (m *Matrix) clone() *Matrix {
	if m == nil {
		return nil
	}
	out := &Matrix{}
	for _, a := range m.Axes {
		out.Axes = append(out.Axes, Axis{Name: a.Name, Values: slices.Clone(a.Values)})
	}
	for _, e := range m.Exclude {
		out.Exclude = append(out.Exclude, maps.Clone(e))
	}
	return out
}

func (c *Cache) clone() *Cache {
	if c == nil {
		return nil
	}
	return &Cache{Key: c.Key, Paths: slices.Clone(c.Paths)}
}

func (s Step) clone() Step {
	s.With = maps.Clone(s.With)
	s.Env = maps.Clone(s.Env)
	return s
}

// clone returns a deep copy of the job.
func (j *Job) clone() *Job {
	out := *j
	out.Matrix = j.Matrix.clone()
	out.Cache = j.Cache.clone()
	out.Env = maps.Clone(j.Env)
	out.Steps = slices.Clone(j.Steps)
	for i := range out.Steps {
		out.Steps[i] = out.Steps[i].clone()
	}
	if j.FSInformation != nil {
		fs := *j.FSInformation
		out.FSInformation = &fs
	}
	return &out
}

// Source returns the file the job was declared in, or an empty string.
func (j *Job) Source() string {
	if j.FSInformation == nil {
		return ""
	}
	return j.FSInformation.FilePath
}
