// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeEnabled(t *testing.T) {
	old := Enabled()
	defer SetEnabled(old)

	SetEnabled(true)
	assert.Equal(t, "\033[31mboom\033[0m", Colorize("boom", FgRed))
}

func TestColorizeDisabled(t *testing.T) {
	old := Enabled()
	defer SetEnabled(old)

	SetEnabled(false)
	assert.Equal(t, "boom", Colorize("boom", FgRed))
	assert.Empty(t, ControlString(Bold, FgGreen))
}

func TestControlStringMultipleCodes(t *testing.T) {
	old := Enabled()
	defer SetEnabled(old)

	SetEnabled(true)
	assert.Equal(t, "\033[1;32m", ControlString(Bold, FgGreen))
}
