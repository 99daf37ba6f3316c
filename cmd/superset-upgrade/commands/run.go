// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

const runDoc = `
Runs every step of the upgrade test in order: deploy the released charm
next to its database and cache, refresh it to the charm packed from
--charm-dir, then check that Superset still serves its example charts.

Without -m the run happens in a new model which is destroyed afterwards,
unless --keep-model is given.
`

func newRunCommand(env environ) *runCommand {
	return &runCommand{harnessCommand: harnessCommand{
		env:    env,
		policy: temporaryModel,
	}}
}

type runCommand struct {
	harnessCommand
	out cmd.Output
}

// runResult is the formatted outcome of a run.
type runResult struct {
	Model    string `yaml:"model" json:"model"`
	Deployed bool   `yaml:"deployed" json:"deployed"`
	Charm    string `yaml:"charm,omitempty" json:"charm,omitempty"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Charts   int    `yaml:"charts" json:"charts"`
}

// Info implements cmd.Command.
func (c *runCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "run",
		Purpose: "Deploy, upgrade and validate Superset.",
		Doc:     runDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *runCommand) SetFlags(f *gnuflag.FlagSet) {
	c.harnessCommand.SetFlags(f)
	c.setCharmFlags(f)
	c.out.AddFlags(f, "yaml", map[string]cmd.Formatter{
		"yaml": cmd.FormatYaml,
		"json": cmd.FormatJson,
	})
}

// Run implements cmd.Command.
func (c *runCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx, func(stdctx context.Context, s *session) error {
		report, err := s.harness.Run(stdctx, ctx.AbsPath(c.charmDir))
		if err != nil {
			return errors.Trace(err)
		}
		return c.out.Write(ctx, runResult{
			Model:    report.Model,
			Deployed: report.Deployed,
			Charm:    report.Charm,
			URL:      report.URL,
			Charts:   report.Charts,
		})
	})
}
