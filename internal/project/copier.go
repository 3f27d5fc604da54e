// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// CopierInfo holds the template metadata recorded in a copier answers file.
type CopierInfo struct {
	// Version is the template tag the project was last updated to. May be
	// empty when the answers file does not record one.
	Version string
	// TemplateURL is the source location of the scaffolding template.
	TemplateURL string
}

// answersFile models the subset of the copier answers file we consume.
// Copier records its own bookkeeping under underscore-prefixed keys.
type answersFile struct {
	Commit  string `yaml:"_commit"`
	SrcPath string `yaml:"_src_path"`
}

// ReadCopierInfo parses the answers file at path. Missing keys yield empty
// strings and an unreadable or malformed file yields a zero CopierInfo;
// reading the answers file never fails discovery.
func ReadCopierInfo(fsys afero.Fs, path string) CopierInfo {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return CopierInfo{}
	}

	var answers answersFile
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return CopierInfo{}
	}

	return CopierInfo{
		Version:     answers.Commit,
		TemplateURL: answers.SrcPath,
	}
}
