// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cmd holds what the harness commands share on top of
// github.com/juju/cmd/v3.
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/juju/cmd/v3"

	corelogger "github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/version"
)

// LoggingConfigEnvKey names the environment variable holding the
// default logging configuration.
const LoggingConfigEnvKey = "SUPERSET_UPGRADE_LOGGING_CONFIG"

func init() {
	// An empty specification leaves the loggers alone.
	if err := corelogger.Configure(os.Getenv(LoggingConfigEnvKey)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR parsing %s: %s\n\n", LoggingConfigEnvKey, err)
	}
}

var logger = corelogger.GetLogger("cmd")

// NewSuperCommand is like cmd.NewSuperCommand but it sets the version
// to the harness version and logs a message when a command runs.
func NewSuperCommand(p cmd.SuperCommandParams) *cmd.SuperCommand {
	p.Version = version.Current.String()
	p.NotifyRun = runNotifier
	return cmd.NewSuperCommand(p)
}

func runNotifier(name string) {
	logger.Infof("running %s [%s %s %s]", name, version.Current, runtime.Compiler, runtime.Version())
}
