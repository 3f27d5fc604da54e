// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package update implements the subcommand synchronizing copier-managed
// projects with their template.
package update

import (
	"context"
	"fmt"
	"time"

	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
	"github.com/repobatch/repobatch/internal/workflow"
	"github.com/urfave/cli/v3"
)

const (
	dryRunFlag            = "dry-run"
	timeoutSecondsDefault = 900
)

// UpdateCmd updates every copier-managed project from its template,
// stashing and restoring local changes around the update.
var UpdateCmd = &cli.Command{
	Name:  "update",
	Usage: "Update all copier-managed projects from their template",
	Description: `Run a non-interactive copier update in every copier-managed project.
Uncommitted changes are stashed first and restored afterwards, unless the
update fails or leaves merge conflicts, in which case the stash is kept so
no local work is lost. All failures are collected and reported together.`,
	Flags: append(cmdflags.All(),
		&cli.BoolFlag{
			Name:     dryRunFlag,
			Usage:    "Show what would be done without changing any project",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.TimeoutFlag,
			Usage:    "Per-project update timeout in seconds",
			Value:    timeoutSecondsDefault,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     cmdflags.WorkersFlag,
			Aliases:  []string{"j"},
			Usage:    "Maximum number of projects updated in parallel",
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	projects, err := cmdflags.Select(ctx, cmd, project.Copier())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No copier-managed projects found") //nolint:errcheck
		return nil
	}

	dryRun := cmd.Bool(dryRunFlag)

	fmt.Fprintf(cmd.Writer, "Updating %d copier projects\n", len(projects)) //nolint:errcheck

	if dryRun {
		fmt.Fprintln(cmd.Writer, "DRY RUN - no changes will be made") //nolint:errcheck
	}

	fmt.Fprintln(cmd.Writer) //nolint:errcheck

	unit := workflow.Update(gitrepo.New(), workflow.CopierUpdater, workflow.UpdateOptions{
		DryRun: dryRun,
	})

	outcomes := runbatch.Run(ctx, projects, unit, runbatch.Options{
		Timeout:    time.Duration(cmd.Int(cmdflags.TimeoutFlag)) * time.Second,
		MaxWorkers: cmd.Int(cmdflags.WorkersFlag),
	})

	if err := runbatch.WriteOutcomes(cmd.Writer, outcomes, nil); err != nil {
		return err
	}

	summary := runbatch.Aggregate(outcomes)

	if err := runbatch.WriteSummary(cmd.Writer, summary); err != nil {
		return err
	}

	return summary.Err()
}
