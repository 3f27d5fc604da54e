// Copyright (c) The repobatch authors 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/repobatch/repobatch/internal/ctxlog"
	"github.com/repobatch/repobatch/internal/project"
)

const maxBufferSize = 8 * 1024 * 1024 // 8MB

var (
	// ErrCommandNotFound is returned when the executable cannot be resolved in PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when an operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
)

// Command resolves name in PATH and runs it with args in the project
// directory, capturing output. The process is killed when ctx ends; a
// deadline produces StatusTimeout, any other cancellation StatusError.
func Command(ctx context.Context, p project.Project, name string, args ...string) Outcome {
	path, err := exec.LookPath(name)
	if err != nil {
		return Outcome{
			Status:   StatusError,
			ExitCode: -1,
			Detail:   fmt.Sprintf("%v: %s", ErrCommandNotFound, name),
		}
	}

	return start(ctx, p, path, args)
}

// Shell runs cmdline through the user's shell in the project directory.
// On Windows this is cmd.exe /C, elsewhere $SHELL (or /bin/sh) -c.
func Shell(ctx context.Context, p project.Project, cmdline string) Outcome {
	if runtime.GOOS == "windows" {
		systemRoot := os.Getenv("SystemRoot")
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return start(ctx, p, filepath.Join(systemRoot, "System32", "cmd.exe"), []string{"/C", cmdline})
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	return start(ctx, p, shell, []string{"-c", cmdline})
}

// start launches the resolved executable with pipes for stdout and stderr
// and a watchdog goroutine that kills the process when the context ends.
func start(ctx context.Context, p project.Project, path string, args []string) Outcome {
	logger := ctxlog.Logger(ctx).With("project", p.Name)
	logger.Debug("command info", "path", path, "cwd", p.Path, "args", args)

	out := Outcome{ExitCode: -1}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		out.Status = StatusError
		out.Detail = errors.Join(ErrFailedToCreatePipe, err).Error()

		return out
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		closeAll(rOut, wOut)

		out.Status = StatusError
		out.Detail = errors.Join(ErrFailedToCreatePipe, err).Error()

		return out
	}

	execName := filepath.Base(path)
	argv := slices.Concat([]string{execName}, args)

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir:   p.Path,
		Env:   os.Environ(),
		Files: []*os.File{nil, wOut, wErr},
	})
	if err != nil {
		closeAll(rOut, wOut, rErr, wErr)

		out.Status = StatusError
		out.Detail = errors.Join(ErrCouldNotStartProcess, err).Error()

		return out
	}

	logger.Debug("process started", "pid", ps.Pid)

	// Drain the pipes while the process runs so a chatty child never
	// blocks on a full pipe.
	outCh := readAsync(ctx, rOut)
	errCh := readAsync(ctx, rErr)

	// Watchdog kills the process when the context ends before the process does.
	done := make(chan struct{})
	wasKilled := make(chan error, 1)

	go func() {
		select {
		case <-ctx.Done():
			logger.Debug("context done, killing process", "pid", ps.Pid)
			// Record the reason before the kill so the main goroutine can
			// never observe the death without it.
			wasKilled <- ctx.Err()
			killPs(ctx, ps)
		case <-done:
		}
	}()

	state, psErr := ps.Wait()
	close(done)

	// The child's copies are gone once it exits; closing ours lets the
	// readers hit EOF.
	_ = wOut.Close()
	_ = wErr.Close()

	stdout := <-outCh
	stderr := <-errCh
	out.Stdout = stdout.data
	out.Stderr = stderr.data

	out.ExitCode = state.ExitCode()

	select {
	case killErr := <-wasKilled:
		out.ExitCode = -1

		if errors.Is(killErr, context.DeadlineExceeded) {
			out.Status = StatusTimeout
			out.Detail = "timed out"
		} else {
			out.Status = StatusError
			out.Detail = "cancelled"
		}

		return out
	default:
	}

	switch {
	case psErr != nil:
		out.Status = StatusError
		out.ExitCode = -1
		out.Detail = psErr.Error()
	case stdout.err != nil || stderr.err != nil:
		out.Status = StatusError
		out.Detail = errors.Join(stdout.err, stderr.err).Error()
	case out.ExitCode == 0:
		out.Status = StatusSuccess
	default:
		out.Status = StatusFailure
		out.Detail = fmt.Sprintf("exit status %d", out.ExitCode)
	}

	logger.Debug("process finished", "exitCode", out.ExitCode, "status", out.Status.String())

	return out
}

type pipeRead struct {
	data []byte
	err  error
}

func readAsync(ctx context.Context, r *os.File) <-chan pipeRead {
	ch := make(chan pipeRead, 1)

	go func() {
		defer r.Close() //nolint:errcheck

		data, err := readAllUpToMax(ctx, r, maxBufferSize)
		ch <- pipeRead{data: data, err: err}
	}()

	return ch
}

func readAllUpToMax(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, limit+1)
	if err != nil && err != io.EOF {
		return buf.Bytes(), err
	}

	if n > limit {
		ctxlog.Debug(ctx, "output buffer overflow", "bytesRead", n, "maxBytes", limit)

		// Discard the remainder so the child is never blocked on a full pipe.
		_, _ = io.Copy(io.Discard, r)

		return buf.Bytes()[:limit], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Debug(ctx, "process killed", "pid", ps.Pid)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
