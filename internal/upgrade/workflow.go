// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import (
	"context"

	"github.com/juju/errors"
)

// Report summarises a complete run.
type Report struct {
	Model    string
	Deployed bool
	Charm    string
	Validation
}

// Run performs every step in order: setup, upgrade of the charm built
// from charmDir, then validation. The first failure ends the run.
func (h *Harness) Run(ctx context.Context, charmDir string) (Report, error) {
	report := Report{Model: h.model.Name()}

	deployed, err := h.Setup(ctx)
	if err != nil {
		return report, errors.Trace(err)
	}
	report.Deployed = deployed

	if report.Charm, err = h.Upgrade(ctx, charmDir); err != nil {
		return report, errors.Trace(err)
	}
	if report.Validation, err = h.Validate(ctx); err != nil {
		return report, errors.Trace(err)
	}
	return report, nil
}
