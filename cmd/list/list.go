// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the subcommand that lists discovered projects.
package list

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/repobatch/repobatch/cmd/cmdflags"
	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/gitrepo"
	"github.com/repobatch/repobatch/internal/project"
	"github.com/urfave/cli/v3"
)

// ListCmd lists all discovered projects with their kind and state.
var ListCmd = &cli.Command{
	Name:        "list",
	Usage:       "List all discovered projects",
	Description: `Discover the projects under the root directory and print a table of their name, path, kind, git state and copier template version.`,
	Flags:       cmdflags.All(),
	Action:      actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	projects, err := cmdflags.Select(ctx, cmd)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No projects found") //nolint:errcheck
		return nil
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	git := gitrepo.New()

	headerStyle := lipgloss.NewStyle().Bold(true)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Name", "Path", "Type", "Git", "Copier", "Template")

	for _, p := range projects {
		tbl.Row(
			p.Name,
			p.Path,
			kind(p),
			gitState(ctx, git, p),
			copierVersion(p),
			templateURL(p),
		)
	}

	fmt.Fprintln(cmd.Writer, tbl)                                   //nolint:errcheck
	fmt.Fprintf(cmd.Writer, "\nTotal projects: %d\n", len(projects)) //nolint:errcheck

	return nil
}

func kind(p project.Project) string {
	switch {
	case p.IsPython():
		return "Python"
	case p.HasMarker(project.MarkerNode):
		return "Node"
	case p.HasMarker(project.MarkerRust):
		return "Rust"
	case p.HasMarker(project.MarkerGo):
		return "Go"
	case p.HasMarker(project.MarkerMaven), p.HasMarker(project.MarkerGradle):
		return "JVM"
	default:
		return "Other"
	}
}

func gitState(ctx context.Context, git *gitrepo.Git, p project.Project) string {
	if !p.IsGit() {
		return "-"
	}

	dirty, err := git.HasChanges(ctx, p)
	if err != nil {
		ctxlog.Debug(ctx, "git state check failed", "project", p.Name, "error", err)
		return "?"
	}

	if dirty {
		return "dirty"
	}

	return "clean"
}

func copierVersion(p project.Project) string {
	if p.Copier == nil || p.Copier.Version == "" {
		return "-"
	}

	return p.Copier.Version
}

func templateURL(p project.Project) string {
	if p.Copier == nil || p.Copier.TemplateURL == "" {
		return "-"
	}

	return p.Copier.TemplateURL
}
