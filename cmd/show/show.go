// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the subcommand printing one file from every
// matching project.
package show

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/color"
	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const fileArg = "file"

// ErrNoFile is returned when no file argument is given.
var ErrNoFile = errors.New("no file path given")

// ShowCmd prints the given file from every project that has it.
var ShowCmd = &cli.Command{
	Name:      "show",
	Usage:     "Show a file across projects",
	ArgsUsage: "<file>",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: fileArg,
		},
	},
	Description: `Print the contents of the given relative file path from every matching project, making it easy to compare configuration across the tree.`,
	Flags:       cmdflags.All(),
	Action:      actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	rel := cmd.StringArg(fileArg)
	if rel == "" {
		return ErrNoFile
	}

	fsys := cmdflags.FsFactory()

	projects, err := cmdflags.Select(ctx, cmd)
	if err != nil {
		return err
	}

	shown := 0

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	for _, p := range projects {
		data, err := afero.ReadFile(fsys, filepath.Join(p.Path, rel))
		if err != nil {
			ctxlog.Debug(ctx, "skipping project without file", "project", p.Name, "file", rel)
			continue
		}

		rule := color.Colorize(strings.Repeat("=", 60), color.FgCyan)

		fmt.Fprintln(cmd.Writer, rule)                                                                                                 //nolint:errcheck
		fmt.Fprintf(cmd.Writer, "%s - %s\n", color.Colorize(p.Name, color.Bold, color.FgCyan), filepath.Join(p.Path, rel))             //nolint:errcheck
		fmt.Fprintln(cmd.Writer, rule)                                                                                                 //nolint:errcheck
		fmt.Fprintln(cmd.Writer, strings.TrimRight(string(data), "\n"))                                                                //nolint:errcheck
		fmt.Fprintln(cmd.Writer)                                                                                                       //nolint:errcheck

		shown++
	}

	if shown == 0 {
		fmt.Fprintf(cmd.Writer, "No projects found with file: %s\n", rel) //nolint:errcheck
	}

	return nil
}
