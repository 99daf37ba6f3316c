// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

const upgradeDoc = `
Packs the charm in --charm-dir with charmcraft and refreshes the
deployed Superset application to it, along with the workload image
named by the charm metadata. The application must be active before the
refresh and again after it.
`

func newUpgradeCommand(env environ) *upgradeCommand {
	return &upgradeCommand{harnessCommand: harnessCommand{
		env:    env,
		policy: requireModel,
	}}
}

type upgradeCommand struct {
	harnessCommand
}

// Info implements cmd.Command.
func (c *upgradeCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "upgrade",
		Purpose: "Refresh the deployed application to a locally built charm.",
		Doc:     upgradeDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *upgradeCommand) SetFlags(f *gnuflag.FlagSet) {
	c.harnessCommand.SetFlags(f)
	c.setCharmFlags(f)
}

// Run implements cmd.Command.
func (c *upgradeCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx, func(stdctx context.Context, s *session) error {
		path, err := s.harness.Upgrade(stdctx, ctx.AbsPath(c.charmDir))
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Fprintf(ctx.Stdout, "%s refreshed to %s\n", s.harness.Config().Application, path)
		return nil
	})
}
