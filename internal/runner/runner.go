// Package runner executes the external tools a project relies on: the
// package manager, git and direnv.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fulmenhq/nazna/pkg/logger"
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs external commands. Implementations must be safe for stubbing in
// tests.
type Runner interface {
	// Run executes name with args inside dir. A command that cannot start or
	// exits non-zero yields a *ProcessError.
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
	// LookPath resolves name on PATH.
	LookPath(name string) (string, error)
}

// ProcessError reports a subprocess that failed to start or exited non-zero.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (e *ProcessError) Kind() string { return "process_error" }

func (e *ProcessError) Detail() any {
	return map[string]any{"command": e.Command, "exit_code": e.ExitCode}
}

// Exec is the os/exec backed Runner.
type Exec struct{}

// New returns the production runner.
func New() *Exec { return &Exec{} }

func (*Exec) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	command := strings.Join(append([]string{name}, args...), " ")
	logger.Debug("Running command", logger.String("command", command), logger.String("dir", dir))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		// Binary not found, ctx canceled or io failure
		res.ExitCode = -1
	}
	return res, &ProcessError{Command: command, ExitCode: res.ExitCode, Stderr: res.Stderr, Err: err}
}

func (*Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
