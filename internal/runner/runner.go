// Package runner abstracts external process execution so that callers which
// probe or install embedding models can be tested without spawning real
// processes.
package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Runner executes external commands on behalf of the model-management layer.
type Runner interface {
	// Look reports whether an executable is present on PATH.
	Look(name string) bool
	// Output runs a command and returns its combined output. The error is
	// non-nil when the command cannot start or exits non-zero.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Run runs a command, streaming output to the configured writers.
	Run(ctx context.Context, name string, args ...string) error
}

// System is the production Runner. Every call is bounded by Timeout; a zero
// Timeout means the caller's context is the only bound.
type System struct {
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

func (s System) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s System) Look(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (s System) Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("cannot run %s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s System) Run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = s.Stdout
	c.Stderr = s.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("cannot run %s: %w", name, err)
	}
	return nil
}
