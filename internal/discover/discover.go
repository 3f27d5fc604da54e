// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discover walks a root directory and classifies candidate
// directories as projects by marker presence.
package discover

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/spf13/afero"
)

// DefaultMaxDepth is the default number of directory levels searched below
// the root (the root itself is depth 0).
const DefaultMaxDepth = 2

// DefaultExclude lists directory names that are never entered nor yielded.
// These are VCS internals, virtual environments and build outputs.
var DefaultExclude = []string{
	".git",
	".venv",
	"venv",
	"node_modules",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	".tox",
	"dist",
	"build",
	"target",
	".idea",
	".vscode",
}

// ErrInvalidRoot is returned when the discovery root does not exist or is
// not a directory. This is a setup-time error, fatal for the invocation.
var ErrInvalidRoot = errors.New("invalid discovery root")

// Options controls a discovery run.
type Options struct {
	// MaxDepth is the maximum directory depth searched below root.
	// Zero means DefaultMaxDepth; the root itself is depth 0.
	MaxDepth int
	// Exclude is the set of directory names to skip. Nil means
	// DefaultExclude.
	Exclude []string
}

// Discover walks root up to opts.MaxDepth levels and returns one Project
// per directory containing at least one recognized marker, ordered
// lexicographically by path. A directory recognized as a project is a leaf
// for discovery purposes: its subtree is never searched for nested
// projects. Unreadable directories are skipped and do not abort the walk.
func Discover(ctx context.Context, fsys afero.Fs, root string, opts Options) ([]project.Project, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}

	root = filepath.Clean(root)

	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = struct{}{}
	}

	var projects []project.Project

	var walk func(dir string, depth int) error

	walk = func(dir string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if p, ok := project.FromPath(fsys, dir); ok {
			projects = append(projects, p)
			// A project directory is a leaf: nested projects are not
			// separately reported.
			return nil
		}

		if depth >= opts.MaxDepth {
			return nil
		}

		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			ctxlog.Debug(ctx, "skipping unreadable directory", "dir", dir, "error", err)
			return nil
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			name := entry.Name()
			if _, ok := excluded[name]; ok {
				continue
			}

			if strings.HasPrefix(name, ".") {
				continue
			}

			if err := walk(filepath.Join(dir, name), depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(root, 0); err != nil {
		return nil, err
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Path < projects[j].Path
	})

	return projects, nil
}
