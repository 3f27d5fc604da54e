// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the subcommand executing an arbitrary shell
// command in every project.
package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/runbatch"
	"github.com/repobatch/repobatch/internal/workflow"
	"github.com/urfave/cli/v3"
)

const (
	commandArg            = "command"
	timeoutSecondsDefault = 300
)

// ErrNoCommand is returned when no command argument is given.
var ErrNoCommand = errors.New("no command given")

// RunCmd runs a shell command in every matching project.
var RunCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run a shell command in every matching project",
	ArgsUsage: "<command>",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: commandArg,
		},
	},
	Description: `Execute the given shell command with each project directory as the working directory. Failures are isolated per project and reported together at the end; the exit code is non-zero when any project failed.`,
	Flags: append(cmdflags.All(),
		&cli.IntFlag{
			Name:     cmdflags.TimeoutFlag,
			Usage:    "Per-project command timeout in seconds",
			Value:    timeoutSecondsDefault,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.WorkersFlag,
			Aliases:  []string{"j"},
			Usage:    "Maximum number of projects run in parallel. Defaults to the number of CPU cores.",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     cmdflags.VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Show command output for successful projects too",
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cmdline := cmd.StringArg(commandArg)
	if cmdline == "" {
		return ErrNoCommand
	}

	projects, err := cmdflags.Select(ctx, cmd)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No projects found") //nolint:errcheck
		return nil
	}

	fmt.Fprintf(cmd.Writer, "Running command in %d projects: %s\n\n", len(projects), cmdline) //nolint:errcheck

	outcomes := runbatch.Run(ctx, projects, workflow.RunCommand(cmdline), runbatch.Options{
		Timeout:    time.Duration(cmd.Int(cmdflags.TimeoutFlag)) * time.Second,
		MaxWorkers: cmd.Int(cmdflags.WorkersFlag),
	})

	options := runbatch.DefaultOutputOptions()
	options.IncludeStdout = true
	options.ShowSuccessDetails = cmd.Bool(cmdflags.VerboseFlag)

	if err := runbatch.WriteOutcomes(cmd.Writer, outcomes, options); err != nil {
		return err
	}

	summary := runbatch.Aggregate(outcomes)

	if err := runbatch.WriteSummary(cmd.Writer, summary); err != nil {
		return err
	}

	return summary.Err()
}
