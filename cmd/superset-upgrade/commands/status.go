// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

const statusDoc = `
Shows the applications and units of the model as the harness sees them
while waiting: workload and agent status, address and leadership.
`

func newStatusCommand(env environ) *statusCommand {
	return &statusCommand{harnessCommand: harnessCommand{
		env:    env,
		policy: requireModel,
	}}
}

type statusCommand struct {
	harnessCommand
	out cmd.Output
}

// Info implements cmd.Command.
func (c *statusCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "status",
		Purpose: "Show the status of the applications in the model.",
		Doc:     statusDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	c.harnessCommand.SetFlags(f)
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatStatusTabular,
	})
}

// Run implements cmd.Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx, func(stdctx context.Context, s *session) error {
		st, err := s.model.Status(stdctx)
		if err != nil {
			return errors.Trace(err)
		}
		return c.out.Write(ctx, formatStatus(st))
	})
}

type formattedStatus struct {
	Model        string                          `yaml:"model" json:"model"`
	Type         string                          `yaml:"type,omitempty" json:"type,omitempty"`
	Applications map[string]formattedApplication `yaml:"applications" json:"applications"`
}

type formattedApplication struct {
	Charm    string                   `yaml:"charm" json:"charm"`
	Channel  string                   `yaml:"channel,omitempty" json:"channel,omitempty"`
	Revision int                      `yaml:"revision,omitempty" json:"revision,omitempty"`
	Scale    int                      `yaml:"scale,omitempty" json:"scale,omitempty"`
	Status   string                   `yaml:"status" json:"status"`
	Message  string                   `yaml:"message,omitempty" json:"message,omitempty"`
	Units    map[string]formattedUnit `yaml:"units,omitempty" json:"units,omitempty"`
}

type formattedUnit struct {
	Workload string `yaml:"workload" json:"workload"`
	Agent    string `yaml:"agent" json:"agent"`
	Address  string `yaml:"address,omitempty" json:"address,omitempty"`
	Leader   bool   `yaml:"leader,omitempty" json:"leader,omitempty"`
	Message  string `yaml:"message,omitempty" json:"message,omitempty"`
}

func formatStatus(st *model.ModelStatus) formattedStatus {
	result := formattedStatus{
		Model:        st.Name,
		Type:         st.Type,
		Applications: make(map[string]formattedApplication, len(st.Applications)),
	}
	for name, app := range st.Applications {
		formatted := formattedApplication{
			Charm:    app.Charm,
			Channel:  app.CharmChannel,
			Revision: app.CharmRev,
			Scale:    app.Scale,
			Status:   string(app.Status.Status),
			Message:  app.Status.Message,
		}
		if len(app.Units) > 0 {
			formatted.Units = make(map[string]formattedUnit, len(app.Units))
		}
		for unitName, unit := range app.Units {
			formatted.Units[unitName] = formattedUnit{
				Workload: string(unit.WorkloadStatus.Status),
				Agent:    string(unit.AgentStatus.Status),
				Address:  unit.Address,
				Leader:   unit.Leader,
				Message:  unit.WorkloadStatus.Message,
			}
		}
		result.Applications[name] = formatted
	}
	return result
}
