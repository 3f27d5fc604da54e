// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workflow defines the unit-of-work closures the CLI hands to the
// batch executor: status checks, test runs, arbitrary commands and the
// template update state machine.
package workflow

import (
	"context"

	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
)

// RunCommand returns a unit executing an arbitrary shell command in each
// project directory.
func RunCommand(cmdline string) runbatch.Unit {
	return func(ctx context.Context, p project.Project) runbatch.Outcome {
		return runbatch.Shell(ctx, p, cmdline)
	}
}

// Test returns a unit running the project's test suite via pytest.
func Test() runbatch.Unit {
	return func(ctx context.Context, p project.Project) runbatch.Outcome {
		return runbatch.Command(ctx, p, "pytest")
	}
}

// Status returns a unit reporting the version-control state of each
// project. A dirty working tree is still a successful outcome; the state
// lands in Outcome.Detail.
func Status(git *gitrepo.Git) runbatch.Unit {
	return func(ctx context.Context, p project.Project) runbatch.Outcome {
		dirty, err := git.HasChanges(ctx, p)
		if err != nil {
			return runbatch.Outcome{
				Status:   runbatch.StatusError,
				ExitCode: -1,
				Detail:   err.Error(),
			}
		}

		detail := "clean"
		if dirty {
			detail = "dirty"
		}

		return runbatch.Outcome{Status: runbatch.StatusSuccess, Detail: detail}
	}
}
