// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package test implements the subcommand running test suites across
// projects.
package test

import (
	"context"
	"fmt"
	"time"

	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
	"github.com/repobatch/repobatch/internal/workflow"
	"github.com/urfave/cli/v3"
)

const timeoutSecondsDefault = 600

// TestCmd runs the test suite of every matching Python project.
var TestCmd = &cli.Command{
	Name:        "test",
	Usage:       "Run tests across projects",
	Description: `Run pytest in every matching Python project. Each project gets its own timeout and a failing suite never stops the others.`,
	Flags: append(cmdflags.All(),
		&cli.IntFlag{
			Name:     cmdflags.TimeoutFlag,
			Usage:    "Per-project test timeout in seconds",
			Value:    timeoutSecondsDefault,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.WorkersFlag,
			Aliases:  []string{"j"},
			Usage:    "Maximum number of projects tested in parallel. Defaults to the number of CPU cores.",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     cmdflags.VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Show test output for passing projects too",
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	projects, err := cmdflags.Select(ctx, cmd, project.Python())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No Python projects found") //nolint:errcheck
		return nil
	}

	fmt.Fprintf(cmd.Writer, "Running tests in %d projects\n\n", len(projects)) //nolint:errcheck

	outcomes := runbatch.Run(ctx, projects, workflow.Test(), runbatch.Options{
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
