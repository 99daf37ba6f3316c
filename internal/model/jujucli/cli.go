// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package jujucli implements model.Model by driving the juju client.
// Every operation is a single juju invocation; output is requested as
// YAML where the command offers it.
package jujucli

import (
	"context"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/version/v2"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/internal/cmdrunner"
)

// DefaultBinary is the client looked up in PATH when none is configured.
const DefaultBinary = "juju"

// integrateVersion is the first client release with "juju integrate",
// "--no-prompt" and key=value pairs for "juju refresh --config".
var integrateVersion = version.MustParse("3.0.0")

// Config holds what is needed to talk to a controller through the
// juju client.
type Config struct {
	Runner cmdrunner.Runner
	Logger logger.Logger

	// Binary is the juju client executable.
	Binary string

	// Controller qualifies model names. Empty uses the client's current
	// controller.
	Controller string
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

type client struct {
	runner     cmdrunner.Runner
	logger     logger.Logger
	binary     string
	controller string

	mu      sync.Mutex
	version *version.Number
}

func newClient(config Config) *client {
	binary := config.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	return &client{
		runner:     config.Runner,
		logger:     config.Logger,
		binary:     binary,
		controller: config.Controller,
	}
}

func (c *client) run(ctx context.Context, args ...string) ([]byte, error) {
	out, err := c.runner.Run(ctx, cmdrunner.Command{
		Name: c.binary,
		Args: args,
	})
	return out, errors.Trace(err)
}

// qualify returns the model name as accepted by -m.
func (c *client) qualify(model string) string {
	if c.controller == "" || strings.Contains(model, ":") {
		return model
	}
	return c.controller + ":" + model
}

// clientVersion returns the juju client version, asking the client once.
func (c *client) clientVersion(ctx context.Context) (version.Number, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != nil {
		return *c.version, nil
	}

	out, err := c.run(ctx, "version")
	if err != nil {
		return version.Zero, errors.Annotate(err, "querying juju client version")
	}
	binary, err := version.ParseBinary(strings.TrimSpace(string(out)))
	if err != nil {
		return version.Zero, errors.Annotatef(err, "parsing juju client version %q", strings.TrimSpace(string(out)))
	}
	c.logger.Debugf("using juju client %s", binary)
	c.version = &binary.Number
	return binary.Number, nil
}

// hasIntegrate reports whether the client uses the 3.x command set.
func (c *client) hasIntegrate(ctx context.Context) (bool, error) {
	v, err := c.clientVersion(ctx)
	if err != nil {
		return false, errors.Trace(err)
	}
	return v.Compare(integrateVersion) >= 0, nil
}

// hasRefreshConfig reports whether "juju refresh" takes config values.
func (c *client) hasRefreshConfig(ctx context.Context) (bool, error) {
	return c.hasIntegrate(ctx)
}
