// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package upgrade deploys the Superset charm next to its database and
// cache, refreshes it to a locally built revision and checks that it
// still serves its seeded charts.
package upgrade

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/canonical/superset-k8s-upgrade/charm"
	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/metrics"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
	"github.com/canonical/superset-k8s-upgrade/internal/superset"
	"github.com/canonical/superset-k8s-upgrade/internal/tracing"
	"github.com/canonical/superset-k8s-upgrade/internal/wait"
)

// Step names, as used in logs, spans and metrics.
const (
	StepDeploy    = "deploy"
	StepIntegrate = "integrate"
	StepUpgrade   = "upgrade"
	StepValidate  = "validate"
)

// Builder packs a charm from source.
type Builder interface {
	Build(ctx context.Context, dir string) (*charm.Archive, error)
}

// SupersetClient is the subset of the Superset API used for
// validation.
type SupersetClient interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, creds superset.Credentials) (superset.Token, error)
	ChartCount(ctx context.Context, token superset.Token) (int, error)
}

// NewSupersetClientFunc returns a client for the server at url.
type NewSupersetClientFunc func(url string) (SupersetClient, error)

// Deps holds the collaborators of a Harness.
type Deps struct {
	Model             model.Model
	Builder           Builder
	NewSupersetClient NewSupersetClientFunc
	Logger            logger.Logger

	// Clock defaults to the wall clock.
	Clock clock.Clock
	// Metrics and Tracer are optional.
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
}

// Validate validates the dependencies.
func (d Deps) Validate() error {
	if d.Model == nil {
		return errors.NotValidf("nil Model")
	}
	if d.Builder == nil {
		return errors.NotValidf("nil Builder")
	}
	if d.NewSupersetClient == nil {
		return errors.NotValidf("nil NewSupersetClient")
	}
	if d.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Harness runs the steps of an upgrade test against one model.
type Harness struct {
	config            Config
	model             model.Model
	builder           Builder
	newSupersetClient NewSupersetClientFunc
	logger            logger.Logger
	clock             clock.Clock
	metrics           *metrics.Collector
	tracer            *tracing.Tracer
}

// NewHarness returns a Harness.
func NewHarness(config Config, deps Deps) (*Harness, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := deps.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	h := &Harness{
		config:            config,
		model:             deps.Model,
		builder:           deps.Builder,
		newSupersetClient: deps.NewSupersetClient,
		logger:            deps.Logger,
		clock:             deps.Clock,
		metrics:           deps.Metrics,
		tracer:            deps.Tracer,
	}
	if h.clock == nil {
		h.clock = clock.WallClock
	}
	if h.tracer == nil {
		h.tracer = tracing.Noop(deps.Logger)
	}
	return h, nil
}

// Config returns the configuration the harness runs with.
func (h *Harness) Config() Config {
	return h.config
}

// step runs f as the named step, recording its duration and outcome.
func (h *Harness) step(ctx context.Context, name string, f func(context.Context) error) error {
	start := h.clock.Now()
	ctx, span := h.tracer.Start(ctx, name,
		attribute.String("model", h.model.Name()),
		attribute.String("application", h.config.Application),
	)
	h.logger.Infof("%s: started", name)

	err := f(ctx)

	elapsed := h.clock.Now().Sub(start)
	span.End(err)
	if h.metrics != nil {
		h.metrics.ObserveStep(name, elapsed, err)
	}
	if err != nil {
		h.logger.Errorf("%s: failed after %v: %v", name, elapsed.Round(time.Millisecond), err)
		return errors.Annotate(err, name)
	}
	h.logger.Infof("%s: done in %v", name, elapsed.Round(time.Millisecond))
	return nil
}

// waitActive waits for the applications to settle as active. Blocked
// units are tolerated; units in error fail the wait.
func (h *Harness) waitActive(ctx context.Context, timeout time.Duration, applications ...string) error {
	config := wait.Config{
		Model:          h.model,
		Applications:   applications,
		Status:         status.Active,
		Timeout:        timeout,
		IdlePeriod:     h.config.IdlePeriod,
		RaiseOnBlocked: false,
		RaiseOnError:   true,
		Delay:          h.config.PollDelay,
		Clock:          h.clock,
		Logger:         h.logger,
	}
	if h.metrics != nil {
		config.Polls = h.metrics.WaitPolls()
	}
	return errors.Trace(wait.ForIdle(ctx, config))
}
