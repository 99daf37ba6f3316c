// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the release of the upgrade harness.
package version

import (
	"fmt"

	"github.com/juju/version/v2"
)

// Current is the version of the harness being built.
var Current = version.MustParse("1.0.0")

// UserAgent returns the User-Agent sent with HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("superset-upgrade/%s", Current)
}
