// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workflow

import (
	"context"
	"testing"

	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/repobatch/repobatch/internal/runbatch"
	"github.com/stretchr/testify/assert"
)

func TestStatusCleanAndDirty(t *testing.T) {
	script := &scriptedGit{replies: map[string]runbatch.Outcome{
		gitStatusCall: dirtyReply(),
	}}
	unit := Status(gitrepo.NewWithRunner(script.run))

	o := unit(context.Background(), copierProject("x", project.MarkerGit))
	assert.Equal(t, runbatch.StatusSuccess, o.Status)
	assert.Equal(t, "dirty", o.Detail)

	clean := &scriptedGit{}
	unit = Status(gitrepo.NewWithRunner(clean.run))

	o = unit(context.Background(), copierProject("x", project.MarkerGit))
	assert.Equal(t, runbatch.StatusSuccess, o.Status)
	assert.Equal(t, "clean", o.Detail)
}

func TestStatusNonGit(t *testing.T) {
	unit := Status(gitrepo.NewWithRunner((&scriptedGit{}).run))

	o := unit(context.Background(), copierProject("x", project.MarkerPython))
	assert.Equal(t, runbatch.StatusError, o.Status)
	assert.Contains(t, o.Detail, "not a git repository")
}

func TestRunCommandUnit(t *testing.T) {
	p := project.Project{Path: t.TempDir(), Name: "x"}

	o := RunCommand("echo batch")(context.Background(), p)
	assert.Equal(t, runbatch.StatusSuccess, o.Status)
	assert.Equal(t, "batch\n", string(o.Stdout))
}
