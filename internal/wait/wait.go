// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package wait blocks until applications in a model settle into a
// workload status.
package wait

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"github.com/kr/pretty"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

const (
	// DefaultDelay is the time between two status polls.
	DefaultDelay = time.Second

	// DefaultIdlePeriod is how long a unit agent must have been idle.
	DefaultIdlePeriod = 15 * time.Second
)

// PollCounter counts status polls.
type PollCounter interface {
	Inc()
}

// Config describes what to wait for.
type Config struct {
	Model        model.Model
	Applications []string

	// Status is the workload status every unit must report. Defaults
	// to active.
	Status status.Status

	Timeout    time.Duration
	IdlePeriod time.Duration

	// RaiseOnBlocked fails the wait as soon as a unit is blocked.
	RaiseOnBlocked bool
	// RaiseOnError fails the wait as soon as a unit or its agent is
	// in error.
	RaiseOnError bool

	Delay  time.Duration
	Clock  clock.Clock
	Logger logger.Logger

	// Polls is optional.
	Polls PollCounter
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Model == nil {
		return errors.NotValidf("nil Model")
	}
	if len(c.Applications) == 0 {
		return errors.NotValidf("empty Applications")
	}
	if c.Status != "" && !status.ValidWorkloadStatus(c.Status) {
		return errors.NotValidf("target status %q", c.Status)
	}
	if c.Timeout <= 0 {
		return errors.NotValidf("timeout %v", c.Timeout)
	}
	if c.IdlePeriod < 0 {
		return errors.NotValidf("idle period %v", c.IdlePeriod)
	}
	if c.Delay < 0 {
		return errors.NotValidf("delay %v", c.Delay)
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Status == "" {
		c.Status = status.Active
	}
	if c.Delay == 0 {
		c.Delay = DefaultDelay
	}
	if c.Clock == nil {
		c.Clock = clock.WallClock
	}
	return c
}

// UnitError reports a unit in a state the caller asked to fail on.
type UnitError struct {
	Unit    string
	Status  status.Status
	Message string
}

// Error implements error.
func (e *UnitError) Error() string {
	msg := fmt.Sprintf("unit %s is %s", e.Unit, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// notSettled is returned by a poll that should be retried.
type notSettled struct {
	reason string
}

func (e *notSettled) Error() string {
	return e.reason
}

func notSettledf(format string, args ...any) error {
	return &notSettled{reason: fmt.Sprintf(format, args...)}
}

// IsUnitError reports whether err was caused by a unit in a failing
// state.
func IsUnitError(err error) bool {
	_, ok := errors.Cause(err).(*UnitError)
	return ok
}

// ForIdle polls the model until every configured application has at
// least one unit, each unit reports the target workload status and each
// unit agent has been idle for the idle period. An already settled
// model returns after a single poll.
func ForIdle(ctx context.Context, config Config) error {
	if err := config.Validate(); err != nil {
		return errors.Trace(err)
	}
	config = config.withDefaults()
	applications := set.NewStrings(config.Applications...).SortedValues()
	desc := strings.Join(applications, ", ")

	config.Logger.Infof("waiting up to %v for %s to be %s", config.Timeout, desc, config.Status)
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if config.Polls != nil {
				config.Polls.Inc()
			}
			st, err := config.Model.Status(ctx)
			if err != nil {
				return notSettledf("reading status: %v", err)
			}
			if config.Logger.IsTraceEnabled() {
				config.Logger.Tracef("model status: %s", pretty.Sprint(st))
			}
			return check(config, st, applications, config.Clock.Now())
		},
		IsFatalError: func(err error) bool {
			_, ok := err.(*notSettled)
			return !ok
		},
		NotifyFunc: func(lastError error, attempt int) {
			config.Logger.Debugf("%s not settled (attempt %d): %v", desc, attempt, lastError)
		},
		Delay:       config.Delay,
		MaxDuration: config.Timeout,
		Clock:       config.Clock,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		config.Logger.Infof("%s settled as %s", desc, config.Status)
		return nil
	case retry.IsDurationExceeded(err):
		return errors.Annotatef(
			errors.Timeoutf("waiting %v", config.Timeout),
			"%s not %s: %v", desc, config.Status, retry.LastError(err),
		)
	case retry.IsRetryStopped(err):
		return errors.Annotatef(ctx.Err(), "waiting for %s", desc)
	default:
		return errors.Annotatef(err, "waiting for %s", desc)
	}
}

// check returns nil when every application has settled, a notSettled
// error when polling should continue and any other error when the wait
// must stop.
func check(config Config, st *model.ModelStatus, applications []string, now time.Time) error {
	var pending error
	for _, name := range applications {
		app, ok := st.Applications[name]
		if !ok {
			if pending == nil {
				pending = notSettledf("application %s not in model", name)
			}
			continue
		}
		if len(app.Units) == 0 {
			if pending == nil {
				pending = notSettledf("application %s has no units", name)
			}
			continue
		}
		for _, unitName := range app.UnitNames() {
			err := checkUnit(config, unitName, app.Units[unitName], now)
			if err == nil {
				continue
			}
			if _, ok := err.(*notSettled); !ok {
				return err
			}
			if pending == nil {
				pending = err
			}
		}
	}
	return pending
}

func checkUnit(config Config, name string, unit model.UnitStatus, now time.Time) error {
	workload, agent := unit.WorkloadStatus, unit.AgentStatus
	if config.RaiseOnError {
		if workload.Status == status.Error {
			return &UnitError{Unit: name, Status: workload.Status, Message: workload.Message}
		}
		if agent.Status == status.Error || agent.Status == status.Failed {
			return &UnitError{Unit: name, Status: agent.Status, Message: agent.Message}
		}
	}
	if config.RaiseOnBlocked && workload.Status == status.Blocked {
		return &UnitError{Unit: name, Status: workload.Status, Message: workload.Message}
	}
	if workload.Status != config.Status {
		return notSettledf("unit %s workload is %s, want %s", name, workload.Status, config.Status)
	}
	if agent.Status != status.Idle {
		return notSettledf("unit %s agent is %s", name, agent.Status)
	}
	if idle := agent.SettledFor(now); idle < config.IdlePeriod {
		return notSettledf("unit %s agent idle for %v of %v", name, idle, config.IdlePeriod)
	}
	return nil
}
