// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
)

const validateDoc = `
Checks that unit 0 of the Superset application answers on its web port,
then logs in and requires at least one chart to be listed.
`

func newValidateCommand(env environ) *validateCommand {
	return &validateCommand{harnessCommand: harnessCommand{
		env:    env,
		policy: requireModel,
	}}
}

type validateCommand struct {
	harnessCommand
}

// Info implements cmd.Command.
func (c *validateCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "validate",
		Purpose: "Check that Superset is up and serves its charts.",
		Doc:     validateDoc,
	}
}

// Run implements cmd.Command.
func (c *validateCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx, func(stdctx context.Context, s *session) error {
		result, err := s.harness.Validate(stdctx)
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Fprintf(ctx.Stdout, "%s serves %d charts\n", result.URL, result.Charts)
		return nil
	})
}
