// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of a CI workflow
// declaration. It is format-agnostic: loaders for HCL and YAML translate their
// files into a Definition, and New turns a Definition into a validated,
// read-only Workflow.
//
// # Core Concepts
//
//   - Workflow: the root container. It owns an ordered sequence of jobs whose
//     names are unique.
//
//   - Job: a unit of scheduling bound to a runner platform. A job may carry a
//     Matrix, an environment mapping, an ordered list of opaque steps and a
//     fail-fast flag that is passed through to the external runner.
//
//   - Matrix: ordered axes, each with an ordered list of values. The cross
//     product of the axes defines the job's variants.
//
//   - JobInstance: one concrete variant of a job, produced by the matrix
//     package. It carries the resolved platform and the axis-value assignment
//     in declared axis order.
//
// Validation happens once, in New. Every violation is collected and returned
// as ValidationErrors, so a user sees all problems of a declaration at once.
// After construction nothing in a Workflow is mutated; accessors hand out
// copies.
package model
