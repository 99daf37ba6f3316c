// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cmdrunner runs the external tools the harness drives (juju,
// charmcraft) and turns their failures into errors carrying stderr.
package cmdrunner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/juju/errors"
	"github.com/kballard/go-shellquote"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/runner_mock.go github.com/canonical/superset-k8s-upgrade/internal/cmdrunner Runner

// Command describes a single invocation of an external tool.
type Command struct {
	// Name is the executable, looked up in PATH.
	Name string
	// Args are passed verbatim, without shell interpretation.
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string
}

// String returns the command as it could be pasted into a shell.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Runner runs commands and returns what they wrote to stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Error implements error.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// AsExitError returns the *ExitError at the root of err, if any.
func AsExitError(err error) (*ExitError, bool) {
	exitErr, ok := errors.Cause(err).(*ExitError)
	return exitErr, ok
}

type execRunner struct {
	logger logger.Logger
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(logger logger.Logger) Runner {
	return &execRunner{logger: logger}
}

// Run implements Runner.
func (r *execRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	r.logger.Debugf("running %s", cmd)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if ctx.Err() != nil {
		return nil, errors.Annotatef(ctx.Err(), "running %s", cmd.Name)
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return nil, errors.Trace(&ExitError{
			Command:  cmd.String(),
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		})
	} else if err != nil {
		return nil, errors.Annotatef(err, "running %s", cmd.Name)
	}
	if r.logger.IsTraceEnabled() {
		r.logger.Tracef("%s output:\n%s", cmd.Name, stdout.String())
	}
	return stdout.Bytes(), nil
}
