// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"slices"
	"strings"
)

// DefaultPlatforms lists the runner platforms known without configuration.
var DefaultPlatforms = []string{
	"linux", "windows", "macos",
	"ubuntu-latest", "ubuntu-24.04", "ubuntu-22.04",
	"windows-latest", "windows-2025", "windows-2022",
	"macos-latest", "macos-15", "macos-14", "macos-13",
}

// Platforms is a set of known runner platform identifiers.
type Platforms map[string]struct{}

// NewPlatforms builds a set from the given identifiers. Blank entries are
// ignored and surrounding whitespace is trimmed.
func NewPlatforms(ids ...string) Platforms {
	p := make(Platforms, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			p[id] = struct{}{}
		}
	}
	return p
}

// Has reports whether id is a known platform.
func (p Platforms) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// Sorted returns the identifiers in lexical order.
func (p Platforms) Sorted() []string {
	out := make([]string, 0, len(p))
	for id := range p {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
