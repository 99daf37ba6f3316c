// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model

import (
	"context"
	"time"

	"github.com/juju/errors"
)

// UpdateStatusHookInterval is the model config key controlling how often
// update-status runs on every unit.
const UpdateStatusHookInterval = "update-status-hook-interval"

// FastForward shortens the model's update-status interval so that units
// report settled states sooner. The returned func restores the previous
// interval and must be called once the caller is done waiting.
func FastForward(ctx context.Context, m Model, interval time.Duration) (func(context.Context) error, error) {
	if interval <= 0 {
		return nil, errors.NotValidf("update-status interval %v", interval)
	}
	previous, err := m.ModelConfig(ctx, UpdateStatusHookInterval)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", UpdateStatusHookInterval)
	}
	if err := m.SetModelConfig(ctx, map[string]string{
		UpdateStatusHookInterval: interval.String(),
	}); err != nil {
		return nil, errors.Annotatef(err, "setting %s", UpdateStatusHookInterval)
	}
	return func(ctx context.Context) error {
		if previous == "" {
			return nil
		}
		err := m.SetModelConfig(ctx, map[string]string{
			UpdateStatusHookInterval: previous,
		})
		return errors.Annotatef(err, "restoring %s", UpdateStatusHookInterval)
	}, nil
}
