// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gitrepo wraps the git operations the workflows need: dirty
// checks, stashing and conflict detection. Exit codes and stderr are the
// sole signal of success; no porcelain parsing beyond clean/dirty.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
)

// StashMessage marks stashes created by the update workflow.
const StashMessage = "repobatch: auto-stash before template update"

// ErrNotGitRepository is returned when an operation targets a project
// without a version-control root.
var ErrNotGitRepository = errors.New("not a git repository")

// Runner executes a command in a project directory. It exists so tests can
// substitute a fake for the real subprocess runner.
type Runner func(ctx context.Context, p project.Project, name string, args ...string) runbatch.Outcome

// Git performs version-control operations against projects.
type Git struct {
	run Runner
}

// New returns a Git backed by the real subprocess runner.
func New() *Git {
	return &Git{run: runbatch.Command}
}

// NewWithRunner returns a Git backed by the given runner.
func NewWithRunner(run Runner) *Git {
	return &Git{run: run}
}

// HasChanges reports whether the project has uncommitted changes,
// including untracked files.
func (g *Git) HasChanges(ctx context.Context, p project.Project) (bool, error) {
	if !p.IsGit() {
		return false, ErrNotGitRepository
	}

	o := g.run(ctx, p, "git", "status", "--porcelain")
	if !o.Success() {
		return false, outcomeErr("git status", o)
	}

	return len(strings.TrimSpace(string(o.Stdout))) > 0, nil
}

// StashPush stashes the working tree including untracked files.
func (g *Git) StashPush(ctx context.Context, p project.Project) error {
	o := g.run(ctx, p, "git", "stash", "push", "-u", "-m", StashMessage)
	if !o.Success() {
		return outcomeErr("git stash push", o)
	}

	return nil
}

// StashPop restores the most recent stash.
func (g *Git) StashPop(ctx context.Context, p project.Project) error {
	o := g.run(ctx, p, "git", "stash", "pop")
	if !o.Success() {
		return outcomeErr("git stash pop", o)
	}

	return nil
}

// UnmergedFiles returns the paths currently in a merge-conflicted state.
func (g *Git) UnmergedFiles(ctx context.Context, p project.Project) ([]string, error) {
	o := g.run(ctx, p, "git", "diff", "--name-only", "--diff-filter=U")
	if !o.Success() {
		return nil, outcomeErr("git diff", o)
	}

	var files []string

	for _, line := range strings.Split(string(o.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}

func outcomeErr(op string, o runbatch.Outcome) error {
	msg := strings.TrimSpace(string(o.Stderr))
	if msg == "" {
		msg = o.Detail
	}

	return fmt.Errorf("%s failed: %s", op, msg)
}
