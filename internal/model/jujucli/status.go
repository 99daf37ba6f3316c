// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jujucli

import (
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
)

// sinceLayout is how the client renders timestamps with --utc.
const sinceLayout = "02 Jan 2006 15:04:05Z07:00"

// formattedStatus mirrors the subset of "juju status --format yaml"
// the harness reads.
type formattedStatus struct {
	Model struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"model"`
	Applications map[string]applicationStatus `yaml:"applications"`
}

type applicationStatus struct {
	Charm        string                `yaml:"charm"`
	CharmName    string                `yaml:"charm-name"`
	CharmChannel string                `yaml:"charm-channel"`
	CharmRev     int                   `yaml:"charm-rev"`
	Scale        int                   `yaml:"scale"`
	Status       statusInfo            `yaml:"application-status"`
	Relations    map[string]yaml.Node  `yaml:"relations"`
	Units        map[string]unitStatus `yaml:"units"`
}

type unitStatus struct {
	WorkloadStatus statusInfo `yaml:"workload-status"`
	AgentStatus    statusInfo `yaml:"juju-status"`
	Leader         bool       `yaml:"leader"`
	Address        string     `yaml:"address"`
}

type statusInfo struct {
	Current string `yaml:"current"`
	Message string `yaml:"message"`
	Since   string `yaml:"since"`
}

func (s statusInfo) info() status.StatusInfo {
	info := status.StatusInfo{
		Status:  status.Status(s.Current),
		Message: s.Message,
	}
	if t, err := time.Parse(sinceLayout, s.Since); err == nil {
		info.Since = &t
	}
	return info
}

// relatedApplications accepts both relation layouts: a list of
// application names (2.x) and a list of mappings carrying
// "related-application" (3.x).
func relatedApplications(node yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, errors.NotValidf("relation of kind %v", node.Kind)
	}
	var result []string
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			result = append(result, item.Value)
		case yaml.MappingNode:
			var rel struct {
				RelatedApplication string `yaml:"related-application"`
			}
			if err := item.Decode(&rel); err != nil {
				return nil, errors.Trace(err)
			}
			result = append(result, rel.RelatedApplication)
		default:
			return nil, errors.NotValidf("relation entry of kind %v", item.Kind)
		}
	}
	return result, nil
}

func parseStatus(data []byte) (*model.ModelStatus, error) {
	var formatted formattedStatus
	if err := yaml.Unmarshal(data, &formatted); err != nil {
		return nil, errors.Trace(err)
	}
	result := &model.ModelStatus{
		Name:         formatted.Model.Name,
		Type:         formatted.Model.Type,
		Applications: make(map[string]model.ApplicationStatus, len(formatted.Applications)),
	}
	for name, app := range formatted.Applications {
		charm := app.CharmName
		if charm == "" {
			charm = app.Charm
		}
		appStatus := model.ApplicationStatus{
			Charm:        charm,
			CharmChannel: app.CharmChannel,
			CharmRev:     app.CharmRev,
			Scale:        app.Scale,
			Status:       app.Status.info(),
			Units:        make(map[string]model.UnitStatus, len(app.Units)),
		}
		if len(app.Relations) > 0 {
			appStatus.Relations = make(map[string][]string, len(app.Relations))
			for endpoint, node := range app.Relations {
				related, err := relatedApplications(node)
				if err != nil {
					return nil, errors.Annotatef(err, "application %q endpoint %q", name, endpoint)
				}
				appStatus.Relations[endpoint] = related
			}
		}
		for unitName, unit := range app.Units {
			parsed, err := parseUnit(unit)
			if err != nil {
				return nil, errors.Annotatef(err, "unit %q", unitName)
			}
			appStatus.Units[unitName] = parsed
		}
		result.Applications[name] = appStatus
	}
	return result, nil
}

func parseUnit(unit unitStatus) (model.UnitStatus, error) {
	workload := unit.WorkloadStatus.info()
	agent := unit.AgentStatus.info()
	var err error
	if workload.Status, err = status.ParseWorkloadStatus(unit.WorkloadStatus.Current); err != nil {
		return model.UnitStatus{}, errors.Trace(err)
	}
	if agent.Status, err = status.ParseAgentStatus(unit.AgentStatus.Current); err != nil {
		return model.UnitStatus{}, errors.Trace(err)
	}
	return model.UnitStatus{
		WorkloadStatus: workload,
		AgentStatus:    agent,
		Leader:         unit.Leader,
		Address:        unit.Address,
	}, nil
}
