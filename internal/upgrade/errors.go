// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import "github.com/juju/errors"

const (
	// ErrNotActive is returned when a unit is not active once its
	// application has settled.
	ErrNotActive = errors.ConstError("superset not active")

	// ErrUnhealthy is returned when the web server does not answer
	// its root with 200.
	ErrUnhealthy = errors.ConstError("superset unhealthy")

	// ErrNoCharts is returned when the chart listing is empty.
	ErrNoCharts = errors.ConstError("no charts found")
)
