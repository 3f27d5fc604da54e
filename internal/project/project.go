// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package project defines the in-memory model of a discovered project
// directory and the composable filter predicates over it.
package project

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Marker identifies a file or directory that classifies a directory as a
// project of a given kind.
type Marker string

// The closed set of recognized markers.
const (
	MarkerGit    Marker = ".git"
	MarkerPython Marker = "pyproject.toml"
	MarkerNode   Marker = "package.json"
	MarkerRust   Marker = "Cargo.toml"
	MarkerGo     Marker = "go.mod"
	MarkerMaven  Marker = "pom.xml"
	MarkerGradle Marker = "build.gradle"
	MarkerCopier Marker = ".copier-answers.yml"
)

// AllMarkers lists every recognized marker in probe order.
var AllMarkers = []Marker{
	MarkerGit,
	MarkerPython,
	MarkerNode,
	MarkerRust,
	MarkerGo,
	MarkerMaven,
	MarkerGradle,
	MarkerCopier,
}

// Project is an immutable snapshot of a discovered project directory.
// A Project is only constructed for a directory containing at least one
// recognized marker.
type Project struct {
	// Path is the absolute directory path and the project's identity key.
	Path string
	// Name is the final path segment, used for pattern filters.
	Name string
	// Markers is the set of marker kinds found directly under Path.
	Markers map[Marker]struct{}
	// Copier holds template metadata, present only for copier-managed projects.
	Copier *CopierInfo
}

// HasMarker reports whether the project carries the given marker.
func (p Project) HasMarker(m Marker) bool {
	_, ok := p.Markers[m]
	return ok
}

// IsPython reports whether the project carries a Python package manifest.
func (p Project) IsPython() bool { return p.HasMarker(MarkerPython) }

// IsGit reports whether the project is a version-control root.
func (p Project) IsGit() bool { return p.HasMarker(MarkerGit) }

// IsCopier reports whether the project tracks a scaffolding template.
func (p Project) IsCopier() bool { return p.HasMarker(MarkerCopier) }

// FromPath probes path for recognized markers and builds a Project.
// It returns false when no marker is present. Probe errors (for example
// permission denied) are treated as marker absence.
func FromPath(fsys afero.Fs, path string) (Project, bool) {
	markers := make(map[Marker]struct{})

	for _, m := range AllMarkers {
		ok, err := afero.Exists(fsys, filepath.Join(path, string(m)))
		if err != nil || !ok {
			continue
		}

		markers[m] = struct{}{}
	}

	if len(markers) == 0 {
		return Project{}, false
	}

	p := Project{
		Path:    path,
		Name:    filepath.Base(path),
		Markers: markers,
	}

	if p.IsCopier() {
		info := ReadCopierInfo(fsys, filepath.Join(path, string(MarkerCopier)))
		p.Copier = &info
	}

	return p, true
}
