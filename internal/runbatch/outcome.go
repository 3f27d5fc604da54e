// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/repobatch/repobatch/internal/project"
)

// Status is the terminal state of one unit of work against one project.
type Status int

const (
	// StatusSuccess means the unit completed with a successful exit.
	StatusSuccess Status = iota
	// StatusFailure means the unit ran to completion but reported failure,
	// for example a non-zero exit code.
	StatusFailure
	// StatusTimeout means the unit exceeded its wall-clock budget and its
	// subprocess was terminated.
	StatusTimeout
	// StatusError means the unit could not run to completion, for example
	// the command was not found or the unit panicked.
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	}

	return "unknown"
}

// Outcome is the result of running one unit of work against one project.
type Outcome struct {
	// Project is the project the unit ran against.
	Project project.Project
	// Status is the terminal state.
	Status Status
	// ExitCode is the subprocess exit code, or -1 when no exit status was
	// produced.
	ExitCode int
	// Stdout is the captured standard output, capped at maxBufferSize.
	Stdout []byte
	// Stderr is the captured standard error, capped at maxBufferSize.
	Stderr []byte
	// Duration is the wall-clock time from task start to terminal state.
	Duration time.Duration
	// Detail is a human-readable cause for Failure, Timeout or Error.
	Detail string
}

// Success reports whether the outcome is a success.
func (o Outcome) Success() bool {
	return o.Status == StatusSuccess
}

// Summary aggregates an ordered sequence of outcomes.
type Summary struct {
	// Total is the number of outcomes.
	Total int
	// Successful counts outcomes with StatusSuccess.
	Successful int
	// Failed counts everything else (Failure, Timeout, Error).
	Failed int
	// Failing lists the non-successful outcomes preserving input order.
	Failing []Outcome
}

// Aggregate folds outcomes into a Summary. It is total over any sequence,
// including the empty one.
func Aggregate(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}

	for _, o := range outcomes {
		if o.Success() {
			s.Successful++
			continue
		}

		s.Failing = append(s.Failing, o)
	}

	s.Failed = s.Total - s.Successful

	return s
}

// Err returns nil when every outcome succeeded, otherwise one error per
// failing project, in input order, so callers report every failure at once
// rather than stopping at the first.
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}

	var result *multierror.Error

	for _, o := range s.Failing {
		detail := o.Detail
		if detail == "" {
			detail = o.Status.String()
		}

		result = multierror.Append(result, fmt.Errorf("%s: %s", o.Project.Name, detail))
	}

	return result.ErrorOrNil()
}
