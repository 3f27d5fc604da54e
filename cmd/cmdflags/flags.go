// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdflags holds the discovery and filter flags shared by every
// subcommand, and the helper that turns them into a filtered project
// selection.
package cmdflags

import (
	"context"
	"os"
	"path/filepath"

	"github.com/repobatch/repobatch/internal/discover"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Shared flag names.
const (
	RootFlag      = "root"
	MaxDepthFlag  = "max-depth"
	PythonFlag    = "python"
	NonPythonFlag = "non-python"
	CopierFlag    = "copier"
	GitFlag       = "git"
	NameFlag      = "name"
	HasFileFlag   = "has-file"
	TimeoutFlag   = "timeout"
	WorkersFlag   = "max-workers"
	VerboseFlag   = "verbose"
)

// FsFactory returns the filesystem used for discovery and filters.
// Overridable in tests.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Discovery returns the flags controlling the discovery walk.
func Discovery() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     RootFlag,
			Aliases:  []string{"r"},
			Usage:    "Root directory to search for projects",
			Value:    ".",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     MaxDepthFlag,
			Usage:    "Maximum directory depth to search below the root",
			Value:    discover.DefaultMaxDepth,
			OnlyOnce: true,
		},
	}
}

// Filters returns the flags selecting which discovered projects to act on.
func Filters() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     PythonFlag,
			Usage:    "Only Python projects",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     NonPythonFlag,
			Usage:    "Only non-Python projects",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     CopierFlag,
			Usage:    "Only copier-managed projects",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     GitFlag,
			Usage:    "Only git repositories",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     NameFlag,
			Usage:    "Only projects whose name matches this shell glob pattern",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      HasFileFlag,
			Usage:     "Only projects containing this file (relative to the project root)",
			TakesFile: true,
			OnlyOnce:  true,
		},
	}
}

// All returns the discovery and filter flags combined.
func All() []cli.Flag {
	return append(Discovery(), Filters()...)
}

// BuildFilters turns the filter flags into predicates. A malformed name
// pattern is a setup-time error. Extra filters are appended, letting a
// subcommand force a predicate (for example copier-only for update).
func BuildFilters(cmd *cli.Command, fsys afero.Fs, extra ...project.Filter) ([]project.Filter, error) {
	filters := append([]project.Filter{}, extra...)

	if cmd.Bool(PythonFlag) {
		filters = append(filters, project.Python())
	}

	if cmd.Bool(NonPythonFlag) {
		filters = append(filters, project.NonPython())
	}

	if cmd.Bool(CopierFlag) {
		filters = append(filters, project.Copier())
	}

	if cmd.Bool(GitFlag) {
		filters = append(filters, project.Git())
	}

	if pattern := cmd.String(NameFlag); pattern != "" {
		f, err := project.Name(pattern)
		if err != nil {
			return nil, err
		}

		filters = append(filters, f)
	}

	if rel := cmd.String(HasFileFlag); rel != "" {
		filters = append(filters, project.HasFile(fsys, rel))
	}

	return filters, nil
}

// Select discovers projects under the --root flag and applies the filter
// flags plus any extra predicates.
func Select(ctx context.Context, cmd *cli.Command, extra ...project.Filter) ([]project.Project, error) {
	fsys := FsFactory()

	root := cmd.String(RootFlag)
	if root == "" || root == "." {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}

		root = wd
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	filters, err := BuildFilters(cmd, fsys, extra...)
	if err != nil {
		return nil, err
	}

	projects, err := discover.Discover(ctx, fsys, root, discover.Options{
		MaxDepth: cmd.Int(MaxDepthFlag),
	})
	if err != nil {
		return nil, err
	}

	return project.Apply(projects, filters...), nil
}
