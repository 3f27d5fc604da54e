// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/repobatch/repobatch/internal/ctxlog"
)

// Watch monitors the signal channel. The first signal of a given type is a
// no-op, allowing in-flight work to drain; the second signal of the same
// type cancels the context.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Info(ctx, "received second signal, cancelling", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		seen[sig] = struct{}{}

		ctxlog.Info(ctx, "received signal, waiting for running tasks", "signal", sig.String())
	}
}
