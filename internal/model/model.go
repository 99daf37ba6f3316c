// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package model describes the parts of a Juju model that the upgrade
// harness drives: deploying and refreshing applications, relating them
// and reading back their status. The platform owns all of this state;
// the types here are requests and read-only snapshots.
package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/canonical/superset-k8s-upgrade/core/status"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/model_mock.go github.com/canonical/superset-k8s-upgrade/internal/model Model

// Model is a Juju model the harness can deploy into.
type Model interface {
	// Name returns the model name, as understood by the controller.
	Name() string

	// Deploy requests a new application. It returns once the platform
	// has accepted the request, not when the application is ready.
	Deploy(ctx context.Context, args DeployArgs) error

	// Refresh upgrades an existing application in place.
	Refresh(ctx context.Context, args RefreshArgs) error

	// Integrate relates two endpoints. Each endpoint is either an
	// application name or "application:endpoint".
	Integrate(ctx context.Context, endpoint1, endpoint2 string) error

	// SetConfig changes application config values.
	SetConfig(ctx context.Context, application string, config map[string]string) error

	// Status returns a snapshot of the model.
	Status(ctx context.Context) (*ModelStatus, error)

	// ModelConfig returns the value of a single model config key.
	ModelConfig(ctx context.Context, key string) (string, error)

	// SetModelConfig changes model config values.
	SetModelConfig(ctx context.Context, config map[string]string) error
}

// DeployArgs describes an application to deploy.
type DeployArgs struct {
	// CharmName is the charm to deploy from Charmhub, or a path to a
	// local charm archive.
	CharmName string

	// ApplicationName defaults to the charm name.
	ApplicationName string

	Channel   string
	Revision  int
	NumUnits  int
	Trust     bool
	Config    map[string]string
	Resources map[string]string
}

// Application returns the name the application will be deployed as.
func (a DeployArgs) Application() string {
	if a.ApplicationName != "" {
		return a.ApplicationName
	}
	return a.CharmName
}

// Validate returns an error if the arguments cannot describe a
// deployment.
func (a DeployArgs) Validate() error {
	if a.CharmName == "" {
		return errors.NotValidf("empty charm name")
	}
	if !names.IsValidApplication(a.Application()) {
		return errors.NotValidf("application name %q", a.Application())
	}
	if a.NumUnits < 0 {
		return errors.NotValidf("negative unit count %d", a.NumUnits)
	}
	if a.Revision < 0 {
		return errors.NotValidf("negative revision %d", a.Revision)
	}
	return nil
}

// RefreshArgs describes an in-place upgrade of an application.
type RefreshArgs struct {
	ApplicationName string

	// Path is a local charm archive. When empty the application is
	// refreshed from Channel.
	Path    string
	Channel string

	Resources map[string]string
	Config    map[string]string
}

// Validate returns an error if the arguments cannot describe a refresh.
func (a RefreshArgs) Validate() error {
	if !names.IsValidApplication(a.ApplicationName) {
		return errors.NotValidf("application name %q", a.ApplicationName)
	}
	if a.Path == "" && a.Channel == "" && len(a.Resources) == 0 {
		return errors.NotValidf("refresh of %q without path, channel or resources", a.ApplicationName)
	}
	return nil
}

// ModelStatus is a snapshot of the model as reported by the controller.
type ModelStatus struct {
	Name         string
	Type         string
	Applications map[string]ApplicationStatus
}

// ApplicationStatus is the reported state of a single application.
type ApplicationStatus struct {
	Charm        string
	CharmChannel string
	CharmRev     int
	Scale        int
	Status       status.StatusInfo
	Units        map[string]UnitStatus
	Relations    map[string][]string
}

// UnitStatus is the reported state of a single unit.
type UnitStatus struct {
	WorkloadStatus status.StatusInfo
	AgentStatus    status.StatusInfo
	Address        string
	Leader         bool
}

// Application returns the named application or a NotFound error.
func (s *ModelStatus) Application(name string) (ApplicationStatus, error) {
	app, ok := s.Applications[name]
	if !ok {
		return ApplicationStatus{}, errors.NotFoundf("application %q in model %q", name, s.Name)
	}
	return app, nil
}

// Unit returns the unit with the given number of the named application.
func (s *ModelStatus) Unit(application string, number int) (UnitStatus, error) {
	app, err := s.Application(application)
	if err != nil {
		return UnitStatus{}, errors.Trace(err)
	}
	unitName := fmt.Sprintf("%s/%d", application, number)
	if !names.IsValidUnit(unitName) {
		return UnitStatus{}, errors.NotValidf("unit name %q", unitName)
	}
	unit, ok := app.Units[unitName]
	if !ok {
		return UnitStatus{}, errors.NotFoundf("unit %q", unitName)
	}
	return unit, nil
}

// UnitNames returns the application's unit names in order.
func (a ApplicationStatus) UnitNames() []string {
	result := make([]string, 0, len(a.Units))
	for name := range a.Units {
		result = append(result, name)
	}
	sort.Slice(result, func(i, j int) bool {
		return unitNumber(result[i]) < unitNumber(result[j])
	})
	return result
}

func unitNumber(unitName string) int {
	if !names.IsValidUnit(unitName) {
		return -1
	}
	return names.NewUnitTag(unitName).Number()
}

// UnitURL returns the HTTP URL of a unit's workload on port, using the
// address reported in model status.
func UnitURL(st *ModelStatus, application string, number, port int) (string, error) {
	unit, err := st.Unit(application, number)
	if err != nil {
		return "", errors.Trace(err)
	}
	if unit.Address == "" {
		return "", errors.NotFoundf("address of unit %s/%d", application, number)
	}
	return fmt.Sprintf("http://%s:%d", unit.Address, port), nil
}
