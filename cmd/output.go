// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"io"

	"github.com/juju/ansiterm"

	"github.com/canonical/superset-k8s-upgrade/core/status"
)

var (
	// GoodHighlight is used for settled statuses.
	GoodHighlight = ansiterm.Foreground(ansiterm.Green)
	// WarningHighlight is used for statuses still in progress.
	WarningHighlight = ansiterm.Foreground(ansiterm.Yellow)
	// ErrorHighlight is used for statuses that need attention.
	ErrorHighlight = ansiterm.Foreground(ansiterm.BrightRed)
	// EmphasisHighlight is used for headers.
	EmphasisHighlight = ansiterm.Styles(ansiterm.Bold)
)

var statusColors = map[status.Status]*ansiterm.Context{
	status.Active:      GoodHighlight,
	status.Idle:        GoodHighlight,
	status.Waiting:     WarningHighlight,
	status.Maintenance: WarningHighlight,
	status.Executing:   WarningHighlight,
	status.Allocating:  WarningHighlight,
	status.Blocked:     ErrorHighlight,
	status.Error:       ErrorHighlight,
	status.Failed:      ErrorHighlight,
	status.Lost:        ErrorHighlight,
	status.Terminated:  ErrorHighlight,
}

// TabWriter returns a new tab writer with the common tabular layout.
func TabWriter(writer io.Writer) *ansiterm.TabWriter {
	const (
		minwidth = 0
		tabwidth = 1
		padding  = 2
		padchar  = ' '
		flags    = 0
	)
	return ansiterm.NewTabWriter(writer, minwidth, tabwidth, padding, padchar, flags)
}

// Wrapper prints tab separated values, optionally in colour.
type Wrapper struct {
	*ansiterm.TabWriter
}

// Print writes each value followed by a tab.
func (w *Wrapper) Print(values ...interface{}) {
	for _, v := range values {
		fmt.Fprintf(w, "%v\t", v)
	}
}

// Printf writes the formatted value followed by a tab.
func (w *Wrapper) Printf(format string, values ...interface{}) {
	fmt.Fprintf(w, format+"\t", values...)
}

// Println writes each value tab separated and ends the line.
func (w *Wrapper) Println(values ...interface{}) {
	for i, v := range values {
		if i != len(values)-1 {
			fmt.Fprintf(w, "%v\t", v)
		} else {
			fmt.Fprintf(w, "%v", v)
		}
	}
	fmt.Fprintln(w)
}

// PrintColor writes the value in the given colour followed by a tab.
func (w *Wrapper) PrintColor(ctx *ansiterm.Context, value interface{}) {
	if ctx != nil {
		ctx.Fprintf(w.TabWriter, "%v\t", value)
	} else {
		fmt.Fprintf(w, "%v\t", value)
	}
}

// PrintStatus writes the status in the colour matching its severity.
func (w *Wrapper) PrintStatus(s status.Status) {
	if s == "" {
		w.Print("-")
		return
	}
	w.PrintColor(statusColors[s], s)
}

// PrintHeaders writes emphasised column headers and ends the line.
func (w *Wrapper) PrintHeaders(headers ...interface{}) {
	for i, h := range headers {
		if i != len(headers)-1 {
			w.PrintColor(EmphasisHighlight, h)
		} else {
			EmphasisHighlight.Fprintf(w.TabWriter, "%v", h)
		}
	}
	fmt.Fprintln(w)
}
