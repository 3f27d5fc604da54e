// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch executes a unit of work against a set of projects with
// bounded parallelism, per-project timeouts and full failure isolation,
// and aggregates the per-project outcomes.
package runbatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/project"
)

// DefaultTimeout is the per-project wall-clock budget when none is given.
const DefaultTimeout = 300 * time.Second

// Unit is a workflow-specific unit of work executed once per project.
// Implementations must honour ctx so the executor can enforce timeouts.
type Unit func(ctx context.Context, p project.Project) Outcome

// Options controls a batch run.
type Options struct {
	// Timeout is the per-project wall-clock budget. Zero means
	// DefaultTimeout.
	Timeout time.Duration
	// MaxWorkers bounds concurrent units. Zero means runtime.NumCPU().
	MaxWorkers int
}

// Run executes unit against every project. The returned slice aligns
// positionally with projects regardless of scheduling or completion order,
// and always has the same length. One unit's failure, timeout or panic
// never affects a sibling's outcome.
func Run(ctx context.Context, projects []project.Project, unit Unit, opts Options) []Outcome {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}

	logger := ctxlog.Logger(ctx)
	logger.Debug("starting batch",
		"projects", len(projects),
		"timeout", opts.Timeout,
		"maxWorkers", opts.MaxWorkers)

	outcomes := make([]Outcome, len(projects))
	sem := make(chan struct{}, opts.MaxWorkers)

	wg := &sync.WaitGroup{}

	for i, p := range projects {
		wg.Add(1)

		go func(i int, p project.Project) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			o := runIsolated(ctx, p, unit, opts.Timeout)
			o.Project = p
			o.Duration = time.Since(start)
			outcomes[i] = o

			logger.Debug("unit finished",
				"project", p.Name,
				"status", o.Status.String(),
				"duration", o.Duration)
		}(i, p)
	}

	wg.Wait()

	return outcomes
}

// runIsolated applies the per-project timeout and converts a panicking
// unit into a StatusError outcome so one project cannot unwind into
// another's task.
func runIsolated(ctx context.Context, p project.Project, unit Unit, timeout time.Duration) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Status:   StatusError,
				ExitCode: -1,
				Detail:   fmt.Sprintf("unit of work panicked: %v", r),
			}
		}
	}()

	uctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return unit(uctx, p)
}
