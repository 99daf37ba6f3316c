// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jujucli

import (
	"context"

	"github.com/juju/errors"
)

// Controller creates and removes the temporary models a run deploys
// into.
type Controller struct {
	config Config
	client *client
}

// NewController returns a Controller for config.Controller, or the
// client's current controller when that is empty.
func NewController(config Config) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Controller{
		config: config,
		client: newClient(config),
	}, nil
}

// AddModel creates a model and returns a Model for it.
func (c *Controller) AddModel(ctx context.Context, name string) (*Model, error) {
	args := []string{"add-model", name}
	if c.client.controller != "" {
		args = append(args, "-c", c.client.controller)
	}
	c.client.logger.Infof("adding model %q", name)
	if _, err := c.client.run(ctx, args...); err != nil {
		return nil, errors.Annotatef(err, "adding model %q", name)
	}
	return c.OpenModel(name)
}

// OpenModel returns a Model for an existing model.
func (c *Controller) OpenModel(name string) (*Model, error) {
	m, err := NewModel(c.config, name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Share the client so the version lookup happens once.
	m.client = c.client
	return m, nil
}

// DestroyModel removes a model along with its storage without waiting
// for the teardown to finish.
func (c *Controller) DestroyModel(ctx context.Context, name string) error {
	v3, err := c.client.hasIntegrate(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	args := []string{"destroy-model", c.client.qualify(name), "--destroy-storage", "--force", "--no-wait"}
	if v3 {
		args = append(args, "--no-prompt")
	} else {
		args = append(args, "-y")
	}
	c.client.logger.Infof("destroying model %q", name)
	if _, err := c.client.run(ctx, args...); err != nil {
		return errors.Annotatef(err, "destroying model %q", name)
	}
	return nil
}
