// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"

	"github.com/juju/errors"

	jujucmd "github.com/canonical/superset-k8s-upgrade/cmd"
	"github.com/canonical/superset-k8s-upgrade/core/status"
)

// formatStatusTabular writes an application table followed by a unit
// table.
func formatStatusTabular(writer io.Writer, value interface{}) error {
	st, ok := value.(formattedStatus)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", st, value)
	}
	tw := jujucmd.TabWriter(writer)
	w := jujucmd.Wrapper{TabWriter: tw}

	w.PrintHeaders("Model", "Type")
	w.Println(st.Model, st.Type)
	w.Println()

	appNames := sortedKeys(st.Applications)
	if len(appNames) == 0 {
		fmt.Fprintln(w, "Model has no applications.")
		return errors.Trace(tw.Flush())
	}

	w.PrintHeaders("App", "Charm", "Channel", "Rev", "Scale", "Status", "Message")
	for _, name := range appNames {
		app := st.Applications[name]
		w.Print(name, app.Charm, app.Channel, app.Revision, app.Scale)
		w.PrintStatus(status.Status(app.Status))
		w.Println(app.Message)
	}
	w.Println()

	w.PrintHeaders("Unit", "Workload", "Agent", "Address", "Message")
	for _, name := range appNames {
		app := st.Applications[name]
		for _, unitName := range sortedKeys(app.Units) {
			unit := app.Units[unitName]
			if unit.Leader {
				unitName += "*"
			}
			w.Print(unitName)
			w.PrintStatus(status.Status(unit.Workload))
			w.PrintStatus(status.Status(unit.Agent))
			w.Print(unit.Address)
			w.Println(unit.Message)
		}
	}
	return errors.Trace(tw.Flush())
}
