// Package pkgquery asks the host package manager which engine version is
// installed.
package pkgquery

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

// CommandFunc runs a command and returns its stdout.
type CommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Executor runs package manager commands with a timeout.
type Executor struct {
	run      CommandFunc
	lookPath func(string) (string, error)
	timeout  time.Duration
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the timeout applied to every command.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithCommand replaces process execution, mostly for tests.
func WithCommand(run CommandFunc) ExecutorOption {
	return func(e *Executor) { e.run = run }
}

// WithLookPath replaces the PATH lookup, mostly for tests.
func WithLookPath(lookPath func(string) (string, error)) ExecutorOption {
	return func(e *Executor) { e.lookPath = lookPath }
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		run:      runCommand,
		lookPath: exec.LookPath,
		timeout:  15 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether name is on PATH.
func (e *Executor) Available(name string) bool {
	_, err := e.lookPath(name)
	return err == nil
}

// Output runs name with args and returns stdout.
func (e *Executor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctxWithTimeout := ctx
	cancel := func() {}
	if e.timeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	out, err := e.run(ctxWithTimeout, name, args...)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "pkgquery." + name,
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return out, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
