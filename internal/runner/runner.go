// Package runner runs a single external command to completion and
// captures its output, with an optional timeout and output size cap.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// waitDelay bounds how long Run keeps reading output after the context
// ends. A grandchild holding the stdout pipe would otherwise keep Run
// blocked until it exits.
const waitDelay = time.Second

// Runner executes one command at a time. The zero value runs with no
// timeout and no output cap in the current working directory.
type Runner struct {
	Dir       string        // working directory; empty means inherit
	Timeout   time.Duration // zero means no timeout
	MaxOutput int           // bytes per stream; zero means unlimited
}

// Run executes a command with the given argv. The first element is the
// binary name (resolved via PATH), and the rest are arguments.
//
// A non-zero exit status is not an error: it is reported in
// Result.ExitCode. Failing to start the binary, or the context ending
// before the process exits, is returned as an error.
func (r *Runner) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	if ctx.Done() != nil {
		cmd.WaitDelay = waitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = r.writer(&stdout)
	cmd.Stderr = r.writer(&stderr)

	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("executing %s: %w", argv[0], ctxErr)
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Binary not found or other exec error.
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
	}

	truncated := r.MaxOutput > 0 && (stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput)

	return &Result{
		RunID:     runID,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: truncated,
	}, nil
}

func (r *Runner) writer(buf *bytes.Buffer) io.Writer {
	if r.MaxOutput <= 0 {
		return buf
	}
	return &limitWriter{buf: buf, limit: r.MaxOutput}
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
