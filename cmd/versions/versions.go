// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package versions implements the subcommand showing copier template
// versions across projects.
package versions

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/urfave/cli/v3"
)

// VersionsCmd shows the template version of every copier-managed project.
var VersionsCmd = &cli.Command{
	Name:        "versions",
	Usage:       "Show copier template versions across projects",
	Description: `List every copier-managed project with the template version recorded in its answers file, making version drift across the tree visible at a glance.`,
	Flags:       cmdflags.All(),
	Action:      actionFunc,
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

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	headerStyle := lipgloss.NewStyle().Bold(true)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Project", "Version", "Template")

	for _, p := range projects {
		version, template := "unknown", "unknown"

		if p.Copier != nil {
			if p.Copier.Version != "" {
				version = p.Copier.Version
			}

			if p.Copier.TemplateURL != "" {
				template = p.Copier.TemplateURL
			}
		}

		tbl.Row(p.Name, version, template)
	}

	fmt.Fprintln(cmd.Writer, tbl)                                   //nolint:errcheck
	fmt.Fprintf(cmd.Writer, "\nTotal projects: %d\n", len(projects)) //nolint:errcheck

	return nil
}
