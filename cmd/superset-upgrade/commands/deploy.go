// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
)

const deployDoc = `
Deploys postgresql-k8s and redis-k8s, waits for both to be active, then
deploys the released Superset charm with example data and relates it to
them. Nothing is deployed when the model already holds the Superset
application.

Without -m a new model is added and left in place for the other
commands.
`

func newDeployCommand(env environ) *deployCommand {
	return &deployCommand{harnessCommand: harnessCommand{
		env:    env,
		policy: createModel,
	}}
}

type deployCommand struct {
	harnessCommand
}

// Info implements cmd.Command.
func (c *deployCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "deploy",
		Purpose: "Deploy the released charm with its database and cache.",
		Doc:     deployDoc,
	}
}

// Run implements cmd.Command.
func (c *deployCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx, func(stdctx context.Context, s *session) error {
		deployed, err := s.harness.Setup(stdctx)
		if err != nil {
			return errors.Trace(err)
		}
		app := s.harness.Config().Application
		if deployed {
			fmt.Fprintf(ctx.Stdout, "%s deployed in model %s\n", app, s.model.Name())
		} else {
			fmt.Fprintf(ctx.Stdout, "%s already deployed in model %s\n", app, s.model.Name())
		}
		return nil
	})
}
