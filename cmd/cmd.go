// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/repobatch/repobatch/cmd/list"
	"github.com/repobatch/repobatch/cmd/run"
	"github.com/repobatch/repobatch/cmd/show"
	"github.com/repobatch/repobatch/cmd/status"
	"github.com/repobatch/repobatch/cmd/test"
	"github.com/repobatch/repobatch/cmd/update"
	"github.com/repobatch/repobatch/cmd/versions"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		list.ListCmd,
		versions.VersionsCmd,
		status.StatusCmd,
		test.TestCmd,
		run.RunCmd,
		update.UpdateCmd,
		show.ShowCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "repobatch",
	Description: `Repobatch discovers the project directories under a root path and runs
the same action across all of them: status checks, test runs, arbitrary
shell commands or copier template updates. Results are aggregated into a
single report and the exit code reflects whether every project succeeded.`,
	Usage:                 "repobatch run 'git fetch' --root ~/src",
	EnableShellCompletion: true,
}
