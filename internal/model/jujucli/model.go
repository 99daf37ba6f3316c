// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jujucli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

// Model is a model.Model backed by the juju client.
type Model struct {
	client *client
	name   string
}

var _ model.Model = (*Model)(nil)

// NewModel returns a Model operating on an existing model.
func NewModel(config Config, name string) (*Model, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if name == "" {
		return nil, errors.NotValidf("empty model name")
	}
	return &Model{
		client: newClient(config),
		name:   name,
	}, nil
}

// Name is part of the model.Model interface.
func (m *Model) Name() string {
	return m.name
}

func (m *Model) run(ctx context.Context, command string, args ...string) ([]byte, error) {
	full := append([]string{command, "-m", m.client.qualify(m.name)}, args...)
	return m.client.run(ctx, full...)
}

// Deploy is part of the model.Model interface.
func (m *Model) Deploy(ctx context.Context, args model.DeployArgs) error {
	if err := args.Validate(); err != nil {
		return errors.Trace(err)
	}
	cmdArgs := []string{args.CharmName}
	if args.ApplicationName != "" && args.ApplicationName != args.CharmName {
		cmdArgs = append(cmdArgs, args.ApplicationName)
	}
	if args.Channel != "" {
		cmdArgs = append(cmdArgs, "--channel", args.Channel)
	}
	if args.Revision > 0 {
		cmdArgs = append(cmdArgs, "--revision", strconv.Itoa(args.Revision))
	}
	if args.NumUnits > 0 {
		cmdArgs = append(cmdArgs, "-n", strconv.Itoa(args.NumUnits))
	}
	if args.Trust {
		cmdArgs = append(cmdArgs, "--trust")
	}
	cmdArgs = append(cmdArgs, keyValueFlags("--config", args.Config)...)
	cmdArgs = append(cmdArgs, keyValueFlags("--resource", args.Resources)...)

	m.client.logger.Infof("deploying %s as %q in model %q", args.CharmName, args.Application(), m.name)
	if _, err := m.run(ctx, "deploy", cmdArgs...); err != nil {
		return errors.Annotatef(err, "deploying %q", args.Application())
	}
	return nil
}

// Refresh is part of the model.Model interface. Config values are sent
// with the refresh itself; 2.x clients set them once the refresh has
// been accepted.
func (m *Model) Refresh(ctx context.Context, args model.RefreshArgs) error {
	if err := args.Validate(); err != nil {
		return errors.Trace(err)
	}
	cmdArgs := []string{args.ApplicationName}
	if args.Path != "" {
		cmdArgs = append(cmdArgs, "--path", args.Path)
	} else if args.Channel != "" {
		cmdArgs = append(cmdArgs, "--channel", args.Channel)
	}
	cmdArgs = append(cmdArgs, keyValueFlags("--resource", args.Resources)...)

	configAfter := false
	if len(args.Config) > 0 {
		withConfig, err := m.client.hasRefreshConfig(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		if withConfig {
			cmdArgs = append(cmdArgs, keyValueFlags("--config", args.Config)...)
		} else {
			configAfter = true
		}
	}

	m.client.logger.Infof("refreshing %q in model %q", args.ApplicationName, m.name)
	if _, err := m.run(ctx, "refresh", cmdArgs...); err != nil {
		return errors.Annotatef(err, "refreshing %q", args.ApplicationName)
	}
	if !configAfter {
		return nil
	}
	return errors.Trace(m.SetConfig(ctx, args.ApplicationName, args.Config))
}

// Integrate is part of the model.Model interface.
func (m *Model) Integrate(ctx context.Context, endpoint1, endpoint2 string) error {
	integrate, err := m.client.hasIntegrate(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	command := "relate"
	if integrate {
		command = "integrate"
	}
	m.client.logger.Infof("integrating %s with %s", endpoint1, endpoint2)
	if _, err := m.run(ctx, command, endpoint1, endpoint2); err != nil {
		return errors.Annotatef(err, "integrating %s with %s", endpoint1, endpoint2)
	}
	return nil
}

// SetConfig is part of the model.Model interface.
func (m *Model) SetConfig(ctx context.Context, application string, config map[string]string) error {
	if len(config) == 0 {
		return nil
	}
	args := append([]string{application}, keyValues(config)...)
	if _, err := m.run(ctx, "config", args...); err != nil {
		return errors.Annotatef(err, "configuring %q", application)
	}
	return nil
}

// Status is part of the model.Model interface.
func (m *Model) Status(ctx context.Context) (*model.ModelStatus, error) {
	out, err := m.run(ctx, "status", "--format", "yaml", "--utc")
	if err != nil {
		return nil, errors.Annotatef(err, "getting status of model %q", m.name)
	}
	st, err := parseStatus(out)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing status of model %q", m.name)
	}
	if st.Name == "" {
		st.Name = m.name
	}
	return st, nil
}

// ModelConfig is part of the model.Model interface.
func (m *Model) ModelConfig(ctx context.Context, key string) (string, error) {
	out, err := m.run(ctx, "model-config", key)
	if err != nil {
		return "", errors.Annotatef(err, "reading model config %q", key)
	}
	return strings.TrimSpace(string(out)), nil
}

// SetModelConfig is part of the model.Model interface.
func (m *Model) SetModelConfig(ctx context.Context, config map[string]string) error {
	if len(config) == 0 {
		return nil
	}
	if _, err := m.run(ctx, "model-config", keyValues(config)...); err != nil {
		return errors.Annotate(err, "setting model config")
	}
	return nil
}

// keyValues renders a map as sorted key=value arguments.
func keyValues(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, len(keys))
	for i, k := range keys {
		result[i] = fmt.Sprintf("%s=%s", k, values[k])
	}
	return result
}

// keyValueFlags renders a map as a repeated flag, one per sorted key.
func keyValueFlags(flag string, values map[string]string) []string {
	var result []string
	for _, kv := range keyValues(values) {
		result = append(result, flag, kv)
	}
	return result
}
