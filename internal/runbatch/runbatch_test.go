// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/repobatch/repobatch/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func fakeProjects(names ...string) []project.Project {
	out := make([]project.Project, 0, len(names))
	for _, n := range names {
		out = append(out, project.Project{Path: "/repos/" + n, Name: n})
	}

	return out
}

func TestRunPositionalAlignment(t *testing.T) {
	defer goleak.VerifyNone(t)

	projects := fakeProjects("a", "b", "c", "d")

	// Later projects finish first; output order must still match input order.
	unit := func(ctx context.Context, p project.Project) Outcome {
		switch p.Name {
		case "a":
			time.Sleep(40 * time.Millisecond)
		case "b":
			time.Sleep(20 * time.Millisecond)
		}

		return Outcome{Status: StatusSuccess}
	}

	outcomes := Run(context.Background(), projects, unit, Options{MaxWorkers: 4})

	require.Len(t, outcomes, len(projects))

	for i, o := range outcomes {
		assert.Equal(t, projects[i].Path, o.Project.Path, "outcome %d misaligned", i)
	}
}

func TestRunIsolation(t *testing.T) {
	defer goleak.VerifyNone(t)

	projects := fakeProjects("ok1", "boom", "ok2")

	unit := func(ctx context.Context, p project.Project) Outcome {
		if p.Name == "boom" {
			panic("kaboom")
		}

		return Outcome{Status: StatusSuccess}
	}

	outcomes := Run(context.Background(), projects, unit, Options{MaxWorkers: 3})

	require.Len(t, outcomes, 3)
	assert.Equal(t, StatusSuccess, outcomes[0].Status)
	assert.Equal(t, StatusError, outcomes[1].Status)
	assert.Contains(t, outcomes[1].Detail, "panicked")
	assert.Equal(t, -1, outcomes[1].ExitCode)
	assert.Equal(t, StatusSuccess, outcomes[2].Status)
}

func TestRunTimeoutPropagatedToUnit(t *testing.T) {
	defer goleak.VerifyNone(t)

	projects := fakeProjects("slow")

	unit := func(ctx context.Context, p project.Project) Outcome {
		select {
		case <-ctx.Done():
			return Outcome{Status: StatusTimeout, ExitCode: -1, Detail: "timed out"}
		case <-time.After(5 * time.Second):
			return Outcome{Status: StatusSuccess}
		}
	}

	start := time.Now()
	outcomes := Run(context.Background(), projects, unit, Options{Timeout: 50 * time.Millisecond})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusTimeout, outcomes[0].Status)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.GreaterOrEqual(t, outcomes[0].Duration, 50*time.Millisecond)
}

func TestRunConcurrencyCap(t *testing.T) {
	defer goleak.VerifyNone(t)

	projects := fakeProjects("a", "b", "c", "d", "e", "f")

	var running, peak atomic.Int32

	unit := func(ctx context.Context, p project.Project) Outcome {
		n := running.Add(1)
		defer running.Add(-1)

		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}

		time.Sleep(20 * time.Millisecond)

		return Outcome{Status: StatusSuccess}
	}

	outcomes := Run(context.Background(), projects, unit, Options{MaxWorkers: 2})

	require.Len(t, outcomes, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2), "concurrency cap exceeded")
}

func TestRunEmptyProjects(t *testing.T) {
	defer goleak.VerifyNone(t)

	outcomes := Run(context.Background(), nil, func(context.Context, project.Project) Outcome {
		t.Fatal("unit must not be called")
		return Outcome{}
	}, Options{})

	assert.Empty(t, outcomes)
}

func TestRunSetsDuration(t *testing.T) {
	defer goleak.VerifyNone(t)

	projects := fakeProjects("a")

	unit := func(ctx context.Context, p project.Project) Outcome {
		time.Sleep(30 * time.Millisecond)
		return Outcome{Status: StatusSuccess}
	}

	outcomes := Run(context.Background(), projects, unit, Options{})
	require.Len(t, outcomes, 1)
	assert.GreaterOrEqual(t, outcomes[0].Duration, 30*time.Millisecond)
}
