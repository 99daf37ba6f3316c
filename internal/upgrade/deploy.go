// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import (
	"context"

	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"

	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

// Deployed reports whether the application under test already exists
// in the model.
func (h *Harness) Deployed(ctx context.Context) (bool, error) {
	st, err := h.model.Status(ctx)
	if err != nil {
		return false, errors.Trace(err)
	}
	if _, err := st.Application(h.config.Application); errors.Is(err, errors.NotFound) {
		return false, nil
	} else if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

// Setup deploys and integrates the topology under a shortened
// update-status interval, unless the application under test is already
// deployed. It reports whether anything was deployed.
func (h *Harness) Setup(ctx context.Context) (_ bool, err error) {
	deployed, err := h.Deployed(ctx)
	if err != nil {
		return false, errors.Trace(err)
	}
	if deployed {
		h.logger.Infof("%q already deployed in model %q, skipping deployment", h.config.Application, h.model.Name())
		return false, nil
	}

	restore, err := model.FastForward(ctx, h.model, h.config.FastForwardInterval)
	if err != nil {
		return false, errors.Trace(err)
	}
	defer func() {
		if restoreErr := restore(context.WithoutCancel(ctx)); restoreErr != nil {
			h.logger.Warningf("%v", restoreErr)
			if err == nil {
				err = errors.Trace(restoreErr)
			}
		}
	}()

	if err := h.step(ctx, StepDeploy, h.deploy); err != nil {
		return false, errors.Trace(err)
	}
	if err := h.step(ctx, StepIntegrate, h.integrate); err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

// Deploy runs the deployment step alone.
func (h *Harness) Deploy(ctx context.Context) error {
	return h.step(ctx, StepDeploy, h.deploy)
}

// Integrate runs the integration step alone.
func (h *Harness) Integrate(ctx context.Context) error {
	return h.step(ctx, StepIntegrate, h.integrate)
}

// deploy requests the database and cache concurrently, waits for both
// to be active and then deploys the application under test from its
// stable channel with example data loaded.
func (h *Harness) deploy(ctx context.Context) error {
	dependencies := []model.DeployArgs{{
		CharmName: PostgreSQLCharm,
		Channel:   h.config.PostgreSQLChannel,
		Trust:     true,
	}, {
		CharmName: RedisCharm,
		Channel:   h.config.RedisChannel,
		Trust:     true,
	}}

	// Both requests are always made; the first failure is reported
	// once both have returned.
	var g errgroup.Group
	for _, args := range dependencies {
		g.Go(func() error {
			return h.model.Deploy(ctx, args)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Trace(err)
	}

	if err := h.waitActive(ctx, h.config.DeployTimeout, PostgreSQLCharm, RedisCharm); err != nil {
		return errors.Trace(err)
	}

	return errors.Trace(h.model.Deploy(ctx, model.DeployArgs{
		CharmName:       h.config.Charm,
		ApplicationName: h.config.Application,
		Channel:         h.config.Channel,
		Config: map[string]string{
			SecretKeyOption:    h.config.SecretKey,
			LoadExamplesOption: "True",
		},
	}))
}

// integrate relates the application under test to the database and the
// cache and waits for it to become active.
func (h *Harness) integrate(ctx context.Context) error {
	app := h.config.Application
	for _, relation := range [][2]string{
		{app + ":postgresql_db", PostgreSQLCharm + ":database"},
		{app + ":redis", RedisCharm},
	} {
		if err := h.model.Integrate(ctx, relation[0], relation[1]); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(h.waitActive(ctx, h.config.DeployTimeout, app))
}
