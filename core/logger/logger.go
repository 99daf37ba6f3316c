// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package logger holds the logging interface consumed across the harness.
// A loggo.Logger satisfies it, as does the check logger used in tests.
package logger

import (
	"io"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/lumberjack/v2"
)

// Logger represents the logging methods called.
type Logger interface {
	Criticalf(message string, args ...any)
	Errorf(message string, args ...any)
	Warningf(message string, args ...any)
	Infof(message string, args ...any)
	Debugf(message string, args ...any)
	Tracef(message string, args ...any)

	IsDebugEnabled() bool
	IsTraceEnabled() bool
}

// GetLogger returns the module logger for name, rooted under the
// harness' logging namespace.
func GetLogger(name string) loggo.Logger {
	return loggo.GetLogger("superset.upgrade." + name)
}

// Configure applies a loggo configuration specification such as
// "<root>=INFO;superset.upgrade.wait=TRACE".
func Configure(spec string) error {
	if spec == "" {
		return nil
	}
	return loggo.ConfigureLoggers(spec)
}

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 2
)

// LogToFile sends log output to a rotating file at path in place of
// stderr. Closing the returned value restores the previous writer.
func LogToFile(path string) (io.Closer, error) {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
	}
	previous, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(file, loggo.DefaultFormatter))
	if err != nil {
		return nil, errors.Annotate(err, "replacing log writer")
	}
	return &fileWriter{file: file, previous: previous}, nil
}

type fileWriter struct {
	file     *lumberjack.Logger
	previous loggo.Writer
}

// Close implements io.Closer.
func (w *fileWriter) Close() error {
	if _, err := loggo.ReplaceDefaultWriter(w.previous); err != nil {
		return errors.Trace(err)
	}
	return w.file.Close()
}
