// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
)

// updateStep enumerates the sequential states of the per-project template
// update. Each step has exactly one forward transition; the only recovery
// transition is the unstash, taken solely when the update and conflict
// check both passed.
type updateStep int

const (
	stepDirtyCheck updateStep = iota
	stepStash
	stepUpdate
	stepConflictCheck
	stepUnstash
	stepDone
)

// Updater invokes the external template-update tool for one project.
type Updater func(ctx context.Context, p project.Project) runbatch.Outcome

// CopierUpdater runs copier non-interactively with trusted defaults.
func CopierUpdater(ctx context.Context, p project.Project) runbatch.Outcome {
	return runbatch.Command(ctx, p, "copier", "update", "--trust", "--defaults")
}

// UpdateOptions configures the update workflow.
type UpdateOptions struct {
	// DryRun reports what would happen without touching any project.
	DryRun bool
}

// Update returns the template synchronization unit. Per project it runs a
// sequential state machine: dirty check, stash, update, conflict check,
// unstash. Any step's failure is terminal for that project; a conflict
// leaves the stash intact so local changes are never applied onto a
// conflicted tree.
func Update(git *gitrepo.Git, update Updater, opts UpdateOptions) runbatch.Unit {
	return func(ctx context.Context, p project.Project) runbatch.Outcome {
		if !p.IsGit() {
			return errorOutcome(gitrepo.ErrNotGitRepository.Error())
		}

		if opts.DryRun {
			return dryRunOutcome(p)
		}

		logger := ctxlog.Logger(ctx).With("project", p.Name)

		var stashed bool

		for step := stepDirtyCheck; step != stepDone; {
			switch step {
			case stepDirtyCheck:
				dirty, err := git.HasChanges(ctx, p)
				if err != nil {
					return errorOutcome(err.Error())
				}

				if !dirty {
					step = stepUpdate
					continue
				}

				step = stepStash

			case stepStash:
				logger.Debug("stashing uncommitted changes")

				if err := git.StashPush(ctx, p); err != nil {
					return failureOutcome("stash failed: " + err.Error())
				}

				stashed = true
				step = stepUpdate

			case stepUpdate:
				logger.Debug("running template update")

				o := update(ctx, p)
				if !o.Success() {
					// The stash is left in place: restoring local changes
					// onto a tree in an unknown state risks losing them.
					o.Detail = "update failed: " + failDetail(o)

					return o
				}

				if hasConflictMarkers(o) {
					return conflictOutcome(o)
				}

				step = stepConflictCheck

			case stepConflictCheck:
				files, err := git.UnmergedFiles(ctx, p)
				if err != nil {
					return errorOutcome(err.Error())
				}

				if len(files) > 0 {
					return failureOutcome(fmt.Sprintf("merge conflict in %d file(s)", len(files)))
				}

				if !stashed {
					step = stepDone
					continue
				}

				step = stepUnstash

			case stepUnstash:
				logger.Debug("restoring stashed changes")

				if err := git.StashPop(ctx, p); err != nil {
					// Highest severity: the operator's local changes are
					// stranded in the stash.
					return failureOutcome("unstash failed, local changes remain stashed: " + err.Error())
				}

				step = stepDone
			}
		}

		return runbatch.Outcome{Status: runbatch.StatusSuccess, Detail: "updated"}
	}
}

func dryRunOutcome(p project.Project) runbatch.Outcome {
	detail := "would update"
	if p.Copier != nil && p.Copier.Version != "" {
		detail = fmt.Sprintf("would update (currently %s)", p.Copier.Version)
	}

	return runbatch.Outcome{Status: runbatch.StatusSuccess, Detail: detail}
}

// hasConflictMarkers scans the update tool's combined output for conflict
// indicators. The authoritative check is the git unmerged-file listing;
// this catches updaters that report conflicts but exit zero.
func hasConflictMarkers(o runbatch.Outcome) bool {
	combined := strings.ToLower(string(o.Stdout) + string(o.Stderr))
	return strings.Contains(combined, "conflict")
}

func conflictOutcome(o runbatch.Outcome) runbatch.Outcome {
	o.Status = runbatch.StatusFailure
	o.Detail = "merge conflict reported by updater"

	if o.ExitCode == 0 {
		o.ExitCode = -1
	}

	return o
}

func failureOutcome(detail string) runbatch.Outcome {
	return runbatch.Outcome{Status: runbatch.StatusFailure, ExitCode: -1, Detail: detail}
}

func errorOutcome(detail string) runbatch.Outcome {
	return runbatch.Outcome{Status: runbatch.StatusError, ExitCode: -1, Detail: detail}
}

func failDetail(o runbatch.Outcome) string {
	if o.Detail != "" {
		return o.Detail
	}

	if msg := strings.TrimSpace(string(o.Stderr)); msg != "" {
		return msg
	}

	return o.Status.String()
}
