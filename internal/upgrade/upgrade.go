// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import (
	"context"

	"github.com/juju/errors"

	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

// Upgrade builds the charm in charmDir and refreshes the deployed
// application to it in place, along with its workload image and with
// example loading turned off. Unit 0 must be active afterwards.
func (h *Harness) Upgrade(ctx context.Context, charmDir string) (path string, err error) {
	err = h.step(ctx, StepUpgrade, func(ctx context.Context) error {
		path, err = h.upgrade(ctx, charmDir)
		return err
	})
	return path, err
}

func (h *Harness) upgrade(ctx context.Context, charmDir string) (string, error) {
	archive, err := h.builder.Build(ctx, charmDir)
	if err != nil {
		return "", errors.Annotatef(err, "building charm in %q", charmDir)
	}
	image, err := archive.Meta().UpstreamSource(h.config.ImageResource)
	if err != nil {
		return "", errors.Trace(err)
	}

	app := h.config.Application
	if err := h.waitActive(ctx, h.config.UpgradeTimeout, app); err != nil {
		return "", errors.Annotate(err, "before refresh")
	}
	if err := h.model.Refresh(ctx, model.RefreshArgs{
		ApplicationName: app,
		Path:            archive.Path,
		Resources: map[string]string{
			h.config.ImageResource: image,
		},
		Config: map[string]string{
			SecretKeyOption:    h.config.SecretKey,
			LoadExamplesOption: "False",
		},
	}); err != nil {
		return "", errors.Trace(err)
	}
	if err := h.waitActive(ctx, h.config.UpgradeTimeout, app); err != nil {
		return "", errors.Annotate(err, "after refresh")
	}

	st, err := h.model.Status(ctx)
	if err != nil {
		return "", errors.Trace(err)
	}
	unit, err := st.Unit(app, 0)
	if err != nil {
		return "", errors.Trace(err)
	}
	if unit.WorkloadStatus.Status != status.Active {
		return "", errors.Annotatef(ErrNotActive, "unit %s/0 is %s", app, unit.WorkloadStatus.Status)
	}
	return archive.Path, nil
}
