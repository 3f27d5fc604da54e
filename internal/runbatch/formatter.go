// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/repobatch/repobatch/internal/color"
)

// OutputOptions controls what is included in the outcome report.
type OutputOptions struct {
	IncludeStdout      bool // Whether to include stdout for each outcome
	IncludeStderr      bool // Whether to include stderr for failing outcomes
	ShowSuccessDetails bool // Whether to show output for successful outcomes too
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdout:      false,
		IncludeStderr:      true,
		ShowSuccessDetails: false,
	}
}

// WriteOutcomes writes a per-project report to w.
func WriteOutcomes(w io.Writer, outcomes []Outcome, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, o := range outcomes {
		if err := writeOutcome(w, o, options); err != nil {
			return err
		}
	}

	return nil
}

func writeOutcome(w io.Writer, o Outcome, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch o.Status {
	case StatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	case StatusTimeout:
		statusStr = color.Colorize("⏱", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
	default:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	}

	if _, err := fmt.Fprintf(w, "%s %s%s%s", statusStr, labelPrefix, o.Project.Name, color.ControlString(color.Reset)); err != nil {
		return err
	}

	if o.ExitCode != 0 {
		fmt.Fprintf(w, " (exit code: %d)", o.ExitCode) //nolint:errcheck
	}

	if o.Detail != "" && !o.Success() {
		fmt.Fprintf(w, " %s", color.Colorize(o.Detail, color.Faint)) //nolint:errcheck
	}

	fmt.Fprintln(w) //nolint:errcheck

	showDetails := !o.Success() || options.ShowSuccessDetails

	if showDetails && options.IncludeStdout && len(o.Stdout) > 0 {
		writeIndented(w, o.Stdout)
	}

	if showDetails && options.IncludeStderr && len(o.Stderr) > 0 {
		writeIndented(w, o.Stderr)
	}

	return nil
}

func writeIndented(w io.Writer, data []byte) {
	for line := range strings.Lines(strings.TrimRight(string(data), "\n")) {
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\n")) //nolint:errcheck
	}
}

// WriteSummary writes the aggregate counts and the full failing list to w.
func WriteSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "\nTotal: %d\n%s: %d\n%s: %d\n",
		s.Total,
		color.Colorize("Successful", color.FgGreen), s.Successful,
		color.Colorize("Failed", color.FgRed), s.Failed,
	); err != nil {
		return err
	}

	if len(s.Failing) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n%s\n", color.Colorize("Failing projects:", color.Bold, color.FgRed)) //nolint:errcheck

	for _, o := range s.Failing {
		detail := o.Detail
		if detail == "" {
			detail = o.Status.String()
		}

		fmt.Fprintf(w, "  %s %s (%s)\n", color.Colorize("✗", color.FgRed), o.Project.Name, detail) //nolint:errcheck
	}

	return nil
}
