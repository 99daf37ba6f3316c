// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"fmt"

	"github.com/juju/loggo/v2"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
)

// NoopLogger is a logger.Logger that does nothing.
type NoopLogger struct{}

var _ logger.Logger = NoopLogger{}

func (NoopLogger) Criticalf(string, ...any) {}
func (NoopLogger) Errorf(string, ...any)    {}
func (NoopLogger) Warningf(string, ...any)  {}
func (NoopLogger) Infof(string, ...any)     {}
func (NoopLogger) Debugf(string, ...any)    {}
func (NoopLogger) Tracef(string, ...any)    {}

func (NoopLogger) IsDebugEnabled() bool { return false }
func (NoopLogger) IsTraceEnabled() bool { return false }

// CheckLog is an interface that can be used to log messages to a
// *testing.T or *check.C.
type CheckLog interface {
	Logf(string, ...any)
}

// CheckLogger is a logger.Logger that logs to a *testing.T or *check.C.
type CheckLogger struct {
	Log CheckLog
}

var _ logger.Logger = CheckLogger{}

// NewCheckLogger returns a CheckLogger that logs to the given CheckLog.
func NewCheckLogger(log CheckLog) CheckLogger {
	return CheckLogger{Log: log}
}

func (c CheckLogger) Criticalf(msg string, args ...any) { c.logf(loggo.CRITICAL, msg, args...) }
func (c CheckLogger) Errorf(msg string, args ...any)    { c.logf(loggo.ERROR, msg, args...) }
func (c CheckLogger) Warningf(msg string, args ...any)  { c.logf(loggo.WARNING, msg, args...) }
func (c CheckLogger) Infof(msg string, args ...any)     { c.logf(loggo.INFO, msg, args...) }
func (c CheckLogger) Debugf(msg string, args ...any)    { c.logf(loggo.DEBUG, msg, args...) }
func (c CheckLogger) Tracef(msg string, args ...any)    { c.logf(loggo.TRACE, msg, args...) }

func (c CheckLogger) IsDebugEnabled() bool { return true }
func (c CheckLogger) IsTraceEnabled() bool { return true }

func (c CheckLogger) logf(level loggo.Level, msg string, args ...any) {
	c.Log.Logf("%s: %s", level.String(), fmt.Sprintf(msg, args...))
}
