// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/canonical/superset-k8s-upgrade/cmd/superset-upgrade/commands"
)

func main() {
	commands.Main(os.Args)
}
