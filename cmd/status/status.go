// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package status implements the subcommand reporting git status across
// projects.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/color"
	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
	"github.com/repobatch/repobatch/internal/workflow"
	"github.com/urfave/cli/v3"
)

const (
	uncommittedFlag       = "uncommitted"
	timeoutSecondsDefault = 60
)

// StatusCmd shows the working-tree state of every git project.
var StatusCmd = &cli.Command{
	Name:        "status",
	Usage:       "Show git status across projects",
	Description: `Check every git project for uncommitted changes and report a clean/dirty state per project.`,
	Flags: append(cmdflags.All(),
		&cli.BoolFlag{
			Name:     uncommittedFlag,
			Usage:    "Only show projects with uncommitted changes",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.TimeoutFlag,
			Usage:    "Per-project timeout in seconds",
			Value:    timeoutSecondsDefault,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.WorkersFlag,
			Aliases:  []string{"j"},
			Usage:    "Maximum number of projects checked in parallel",
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	projects, err := cmdflags.Select(ctx, cmd, project.Git())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No git repositories found") //nolint:errcheck
		return nil
	}

	outcomes := runbatch.Run(ctx, projects, workflow.Status(gitrepo.New()), runbatch.Options{
		Timeout:    time.Duration(cmd.Int(cmdflags.TimeoutFlag)) * time.Second,
		MaxWorkers: cmd.Int(cmdflags.WorkersFlag),
	})

	uncommittedOnly := cmd.Bool(uncommittedFlag)

	dirty := 0

	for _, o := range outcomes {
		isDirty := o.Detail == "dirty"
		if isDirty {
			dirty++
		}

		if uncommittedOnly && !isDirty {
			continue
		}

		switch {
		case !o.Success():
			fmt.Fprintf(cmd.Writer, "%s %s (%s)\n", color.Colorize("✗", color.FgRed), o.Project.Name, o.Detail) //nolint:errcheck
		case isDirty:
			fmt.Fprintf(cmd.Writer, "%s %s\n", color.Colorize("dirty", color.FgYellow), o.Project.Name) //nolint:errcheck
		default:
			fmt.Fprintf(cmd.Writer, "%s %s\n", color.Colorize("clean", color.FgGreen), o.Project.Name) //nolint:errcheck
		}
	}

	fmt.Fprintf(cmd.Writer, "\nProjects with changes: %d\n", dirty) //nolint:errcheck

	return runbatch.Aggregate(outcomes).Err()
}
