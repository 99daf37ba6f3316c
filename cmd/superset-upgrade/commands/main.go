// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"

	jujucmd "github.com/canonical/superset-k8s-upgrade/cmd"
)

var supersetUpgradeDoc = `
superset-upgrade checks that the Superset charm upgrades cleanly from its
released revision to one built from local source, on a Kubernetes model
of a bootstrapped Juju controller.

The juju and charmcraft clients must be on the PATH.
`

// Main registers subcommands for the superset-upgrade executable and
// hands over control to the cmd package.
func Main(args []string) {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(cmd.Main(NewSupersetUpgradeCommand(), ctx, args[1:]))
}

// NewSupersetUpgradeCommand returns the super command with every
// harness command registered.
func NewSupersetUpgradeCommand() cmd.Command {
	return newSupersetUpgradeCommand(defaultEnviron())
}

func newSupersetUpgradeCommand(env environ) *cmd.SuperCommand {
	super := jujucmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "superset-upgrade",
		Purpose: "Test upgrades of the Superset charm.",
		Doc:     supersetUpgradeDoc,
	})
	super.Register(newDeployCommand(env))
	super.Register(newUpgradeCommand(env))
	super.Register(newValidateCommand(env))
	super.Register(newRunCommand(env))
	super.Register(newStatusCommand(env))
	return super
}
