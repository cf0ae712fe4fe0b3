// Package hosttriple reports the host triple of the installed Rust
// toolchain (e.g. x86_64-pc-windows-msvc) by running `rustc -vV` and
// reading the line that starts with "host: ".
//
// It relies on rustc being present on PATH, so it suits build steps
// and code generators that run on the compilation host. The output of
// `rustc -vV` looks like:
//
//	rustc 1.66.0 (69f9c33d7 2022-12-12)
//	binary: rustc
//	commit-hash: 69f9c33d71c871fc16ac445211281c6e7a340943
//	commit-date: 2022-12-12
//	host: x86_64-pc-windows-msvc
//	release: 1.66.0
//	LLVM version: 15.0.2
//
// Only the host line is required; everything else is ignored.
package hosttriple

import (
	"context"
	"strings"
	"time"

	"github.com/deixis/hosttriple/internal/runner"
)

// Default command used to query the toolchain.
const (
	DefaultCommand = "rustc"
	DefaultArg     = "-vV"
)

// FromCLI returns the host triple of the rustc found on PATH.
// It blocks until rustc exits and imposes no timeout.
func FromCLI() (string, error) {
	return Query(context.Background())
}

// Option configures a Query.
type Option func(*options)

type options struct {
	argv     []string
	dir      string
	timeout  time.Duration
	maxOut   int
	strategy Strategy
}

// WithCommand replaces `rustc -vV` with another command.
func WithCommand(name string, args ...string) Option {
	return func(o *options) {
		o.argv = append([]string{name}, args...)
	}
}

// WithDir sets the working directory of the child process.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithTimeout bounds how long the child may run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxOutput caps the captured stdout in bytes. Zero means no limit.
func WithMaxOutput(n int) Option {
	return func(o *options) { o.maxOut = n }
}

// WithStrategy selects the parsing strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// Query runs the toolchain's version command once and returns the host
// triple. The exit status of the command is not inspected; only its
// stdout matters.
func Query(ctx context.Context, opts ...Option) (string, error) {
	o := options{argv: []string{DefaultCommand, DefaultArg}}
	for _, opt := range opts {
		opt(&o)
	}
	command := strings.Join(o.argv, " ")

	r := &runner.Runner{
		Dir:       o.dir,
		Timeout:   o.timeout,
		MaxOutput: o.maxOut,
	}
	res, err := r.Run(ctx, o.argv)
	if err != nil {
		return "", &Error{Kind: ProcessIO, Command: command, Err: err}
	}

	host, err := Parse(res.Stdout, o.strategy)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Command = command
		}
		return "", err
	}
	return host, nil
}
