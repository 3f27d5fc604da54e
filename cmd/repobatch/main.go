// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the repobatch command-line application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/repobatch/repobatch"
	"github.com/repobatch/repobatch/cmd"
	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", repobatch.Version, repobatch.Commit)

	err := cmd.RootCmd.Run(ctx, os.Args)

	if ctx.Err() != nil {
		ctxlog.Error(ctx, "command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)
		os.Exit(1)
	}
}
