// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package upgrade

import (
	"context"

	"github.com/juju/errors"

	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
	"github.com/canonical/superset-k8s-upgrade/internal/superset"
)

// SupersetClients returns a NewSupersetClientFunc whose clients send
// their requests through transport.
func SupersetClients(transport superset.Transport, logger logger.Logger) NewSupersetClientFunc {
	return func(url string) (SupersetClient, error) {
		client, err := superset.NewClient(superset.Config{
			URL:       url,
			Transport: transport,
			Logger:    logger,
		})
		if err != nil {
			return nil, errors.Trace(err)
		}
		return client, nil
	}
}

// Validation is what a successful validation observed.
type Validation struct {
	URL    string
	Charts int
}

// Validate checks that unit 0 of the application serves its web root
// and that an authenticated user can list at least one chart.
func (h *Harness) Validate(ctx context.Context) (result Validation, err error) {
	err = h.step(ctx, StepValidate, func(ctx context.Context) error {
		result, err = h.validate(ctx)
		return err
	})
	return result, err
}

func (h *Harness) validate(ctx context.Context) (Validation, error) {
	st, err := h.model.Status(ctx)
	if err != nil {
		return Validation{}, errors.Trace(err)
	}
	url, err := model.UnitURL(st, h.config.Application, 0, h.config.Port)
	if err != nil {
		return Validation{}, errors.Trace(err)
	}
	h.logger.Infof("checking Superset at %s", url)

	client, err := h.newSupersetClient(url)
	if err != nil {
		return Validation{}, errors.Trace(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, h.config.HTTPTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return Validation{}, errors.Annotate(errors.WithType(err, ErrUnhealthy), ErrUnhealthy.Error())
	}

	apiCtx, cancel := context.WithTimeout(ctx, h.config.HTTPTimeout)
	defer cancel()
	token, err := client.Login(apiCtx, h.config.Credentials)
	if err != nil {
		return Validation{}, errors.Trace(err)
	}
	count, err := client.ChartCount(apiCtx, token)
	if err != nil {
		return Validation{}, errors.Trace(err)
	}
	if count == 0 {
		return Validation{}, errors.Annotatef(ErrNoCharts, "%s", url)
	}
	h.logger.Infof("found %d charts at %s", count, url)
	return Validation{URL: url, Charts: count}, nil
}
