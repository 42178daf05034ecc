// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// EngineVersion is the version workflows' required_version constraints are
// checked against.
const EngineVersion = "0.4.0"

// checkRequiredVersion reports whether engineVersion satisfies constraint.
// An empty constraint is always satisfied.
func checkRequiredVersion(constraint, engineVersion string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version %q: %w", engineVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("engine version %s does not satisfy %q", v, constraint)
	}
	return nil
}
