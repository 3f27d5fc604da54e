// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdflags

import (
	"context"
	"testing"

	"github.com/repobatch/repobatch/internal/project"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func withMemFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()

	old := FsFactory
	FsFactory = func() afero.Fs { return fsys }

	t.Cleanup(func() { FsFactory = old })

	return fsys
}

func runSelect(t *testing.T, args []string, extra ...project.Filter) ([]project.Project, error) {
	t.Helper()

	var (
		selected []project.Project
		selErr   error
	)

	app := &cli.Command{
		Name:  "repobatch-test",
		Flags: All(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			selected, selErr = Select(ctx, cmd, extra...)
			return selErr
		},
	}

	err := app.Run(context.Background(), append([]string{"repobatch-test"}, args...))

	return selected, err
}

func TestSelectAppliesFilterFlags(t *testing.T) {
	fsys := withMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/repos/api/pyproject.toml", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/site/package.json", []byte{}, 0o644))

	selected, err := runSelect(t, []string{"--root", "/repos", "--python"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "api", selected[0].Name)
}

func TestSelectNamePattern(t *testing.T) {
	fsys := withMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/repos/api-one/go.mod", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/api-two/go.mod", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/other/go.mod", []byte{}, 0o644))

	selected, err := runSelect(t, []string{"--root", "/repos", "--name", "api-*"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "api-one", selected[0].Name)
	assert.Equal(t, "api-two", selected[1].Name)
}

func TestSelectMalformedPatternIsFatal(t *testing.T) {
	fsys := withMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/repos/a/go.mod", []byte{}, 0o644))

	_, err := runSelect(t, []string{"--root", "/repos", "--name", "[oops"})
	require.ErrorIs(t, err, project.ErrBadPattern)
}

func TestSelectHasFile(t *testing.T) {
	fsys := withMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/repos/a/go.mod", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/a/Makefile", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/b/go.mod", []byte{}, 0o644))

	selected, err := runSelect(t, []string{"--root", "/repos", "--has-file", "Makefile"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "a", selected[0].Name)
}

func TestSelectExtraFilterForced(t *testing.T) {
	fsys := withMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/repos/plain/go.mod", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repos/managed/.copier-answers.yml", []byte("_commit: v1\n"), 0o644))

	selected, err := runSelect(t, []string{"--root", "/repos"}, project.Copier())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "managed", selected[0].Name)
}

func TestSelectInvalidRoot(t *testing.T) {
	withMemFs(t)

	_, err := runSelect(t, []string{"--root", "/nowhere"})
	require.Error(t, err)
}
