// Package actions executes the assistant's side effects on the desktop:
// opening websites, launching and closing applications, and driving
// input-level verbs like volume and scrolling. Everything goes through a
// Runner so a session can be tested without touching the host.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Runner executes a local command.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands on the host.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a Runner executing on the host.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger}
}

// Run executes argv and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("actions: empty command")
	}
	r.logger.Debug("running command", "command", argv[0])

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("actions: %s failed: %w: %s", argv[0], err, string(out))
	}
	return nil
}

var _ Runner = (*ExecRunner)(nil)

// StartRunner launches commands without waiting for them to exit, for
// long-lived programs like browsers and editors.
type StartRunner struct {
	logger *slog.Logger
}

// NewStartRunner creates a Runner that detaches from the started command.
func NewStartRunner(logger *slog.Logger) *StartRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &StartRunner{logger: logger}
}

// Run starts argv and returns without waiting. The command keeps running
// after the session moves on.
func (r *StartRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("actions: empty command")
	}
	r.logger.Debug("starting command", "command", argv[0])

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("actions: start %s: %w", argv[0], err)
	}
	// Reap the child when it eventually exits.
	go cmd.Wait()
	return nil
}

var _ Runner = (*StartRunner)(nil)
