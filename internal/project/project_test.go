// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPathNoMarkers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/repos/empty", 0o755))

	_, ok := FromPath(fsys, "/repos/empty")
	assert.False(t, ok, "directory without markers must not become a project")
}

func TestFromPathPythonGit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/repos/api/.git", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/repos/api/pyproject.toml", []byte("[project]\nname = \"api\"\n"), 0o644))

	p, ok := FromPath(fsys, "/repos/api")
	require.True(t, ok)

	assert.Equal(t, "/repos/api", p.Path)
	assert.Equal(t, "api", p.Name)
	assert.True(t, p.IsPython())
	assert.True(t, p.IsGit())
	assert.False(t, p.IsCopier())
	assert.Nil(t, p.Copier)
}

func TestFromPathCopier(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(
		fsys,
		"/repos/svc/.copier-answers.yml",
		[]byte("_commit: v1.2.3\n_src_path: https://github.com/acme/template.git\nproject_name: svc\n"),
		0o644,
	))

	p, ok := FromPath(fsys, "/repos/svc")
	require.True(t, ok)
	require.True(t, p.IsCopier())
	require.NotNil(t, p.Copier)

	assert.Equal(t, "v1.2.3", p.Copier.Version)
	assert.Equal(t, "https://github.com/acme/template.git", p.Copier.TemplateURL)
}

func TestReadCopierInfoMissingKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a/.copier-answers.yml", []byte("project_name: a\n"), 0o644))

	info := ReadCopierInfo(fsys, "/a/.copier-answers.yml")
	assert.Empty(t, info.Version)
	assert.Empty(t, info.TemplateURL)
}

func TestReadCopierInfoMalformedYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/a/.copier-answers.yml", []byte(":\n\t- not yaml"), 0o644))

	info := ReadCopierInfo(fsys, "/a/.copier-answers.yml")
	assert.Equal(t, CopierInfo{}, info)
}

func TestReadCopierInfoUnreadable(t *testing.T) {
	fsys := afero.NewMemMapFs()

	info := ReadCopierInfo(fsys, "/nope/.copier-answers.yml")
	assert.Equal(t, CopierInfo{}, info)
}

func TestMarkerKinds(t *testing.T) {
	cases := []struct {
		marker Marker
		file   string
	}{
		{MarkerNode, "package.json"},
		{MarkerRust, "Cargo.toml"},
		{MarkerGo, "go.mod"},
		{MarkerMaven, "pom.xml"},
		{MarkerGradle, "build.gradle"},
	}

	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/p/"+tc.file, []byte("x"), 0o644))

			p, ok := FromPath(fsys, "/p")
			require.True(t, ok)
			assert.True(t, p.HasMarker(tc.marker))
			assert.False(t, p.IsPython())
		})
	}
}
