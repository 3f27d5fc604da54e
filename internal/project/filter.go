// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Filter is a pure predicate over a Project. Filters must not mutate the
// project or any discovery state.
type Filter func(Project) bool

// ErrBadPattern is returned when a name pattern cannot be compiled.
var ErrBadPattern = fmt.Errorf("malformed name pattern")

// Python matches projects carrying a Python package manifest.
func Python() Filter {
	return func(p Project) bool { return p.IsPython() }
}

// NonPython matches projects without a Python package manifest.
func NonPython() Filter {
	return func(p Project) bool { return !p.IsPython() }
}

// Copier matches copier-managed projects.
func Copier() Filter {
	return func(p Project) bool { return p.IsCopier() }
}

// Git matches version-control roots.
func Git() Filter {
	return func(p Project) bool { return p.IsGit() }
}

// Name matches the project name against a shell glob pattern ("*", "?"),
// case-sensitively. A malformed pattern is a setup-time error.
func Name(pattern string) (Filter, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	return func(p Project) bool {
		ok, _ := path.Match(pattern, p.Name)
		return ok
	}, nil
}

// HasFile matches projects containing the given path relative to the
// project root. The check is evaluated live against the filesystem, so it
// reflects current state even if discovery ran earlier.
func HasFile(fsys afero.Fs, rel string) Filter {
	return func(p Project) bool {
		ok, err := afero.Exists(fsys, filepath.Join(p.Path, rel))
		return err == nil && ok
	}
}

// And combines filters with logical AND. An empty filter set passes every
// project.
func And(filters ...Filter) Filter {
	return func(p Project) bool {
		for _, f := range filters {
			if !f(p) {
				return false
			}
		}

		return true
	}
}

// Apply returns the ordered subset of projects passing all filters.
func Apply(projects []Project, filters ...Filter) []Project {
	combined := And(filters...)

	out := make([]Project, 0, len(projects))

	for _, p := range projects {
		if combined(p) {
			out = append(out, p)
		}
	}

	return out
}
