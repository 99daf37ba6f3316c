// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm reads the parts of charm metadata the upgrade harness
// needs: the charm name, its relation endpoints and the images behind
// its workload containers.
package charm

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v2"
)

const (
	ScopeGlobal    = "global"
	ScopeContainer = "container"
)

// Metadata files, in the order they are looked up in a charm directory.
var metadataFiles = []string{"metadata.yaml", "charmcraft.yaml"}

// Relation is a single relation endpoint.
type Relation struct {
	Interface string
	Optional  bool
	Limit     int
	Scope     string
}

// Container is a workload container of a Kubernetes charm.
type Container struct {
	// Resource names the oci-image resource the container runs.
	Resource       string
	UpstreamSource string
}

// Resource is a charm resource.
type Resource struct {
	Type           string
	Description    string
	Filename       string
	UpstreamSource string
}

// Meta is the known content of a charm's metadata.
type Meta struct {
	Name        string
	Summary     string
	Description string
	Provides    map[string]Relation
	Requires    map[string]Relation
	Peers       map[string]Relation
	Containers  map[string]Container
	Resources   map[string]Resource
}

// ReadMeta reads metadata.yaml (or the equivalent top level of
// charmcraft.yaml) and returns its representation.
func ReadMeta(r io.Reader) (*Meta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	raw := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(data, raw); err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	v, err := charmSchema.Coerce(raw, nil)
	if err != nil {
		return nil, errors.Annotate(err, "metadata")
	}
	m := v.(map[string]interface{})
	meta := &Meta{
		Name:        m["name"].(string),
		Summary:     stringValue(m["summary"]),
		Description: stringValue(m["description"]),
		Provides:    parseRelations(m["provides"]),
		Requires:    parseRelations(m["requires"]),
		Peers:       parseRelations(m["peers"]),
		Containers:  parseContainers(m["containers"]),
		Resources:   parseResources(m["resources"]),
	}
	for name, container := range meta.Containers {
		if container.Resource == "" {
			continue
		}
		if _, ok := meta.Resources[container.Resource]; !ok {
			return nil, errors.NotValidf("container %q using undeclared resource %q", name, container.Resource)
		}
	}
	return meta, nil
}

// ReadMetaDir reads the metadata of the charm source tree in dir.
func ReadMetaDir(dir string) (*Meta, error) {
	for _, name := range metadataFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		meta, err := ReadMeta(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.Annotatef(err, "reading %s", filepath.Join(dir, name))
		}
		return meta, nil
	}
	return nil, errors.NotFoundf("charm metadata in %q", dir)
}

// UpstreamSource returns the image reference for the named container or
// oci-image resource. A container without its own upstream-source
// resolves through the resource it runs.
func (m *Meta) UpstreamSource(name string) (string, error) {
	if container, ok := m.Containers[name]; ok {
		if container.UpstreamSource != "" {
			return container.UpstreamSource, nil
		}
		if container.Resource != "" {
			name = container.Resource
		}
	}
	resource, ok := m.Resources[name]
	if !ok || resource.UpstreamSource == "" {
		return "", errors.NotFoundf("upstream-source for %q in charm %q", name, m.Name)
	}
	return resource.UpstreamSource, nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func parseRelations(relations interface{}) map[string]Relation {
	if relations == nil {
		return nil
	}
	result := make(map[string]Relation)
	for name, rel := range relations.(map[interface{}]interface{}) {
		relMap := rel.(map[string]interface{})
		relation := Relation{
			Interface: relMap["interface"].(string),
			Optional:  relMap["optional"].(bool),
			Scope:     relMap["scope"].(string),
		}
		if limit := relMap["limit"]; limit != nil {
			relation.Limit = int(limit.(int64))
		}
		result[name.(string)] = relation
	}
	return result
}

func parseContainers(containers interface{}) map[string]Container {
	if containers == nil {
		return nil
	}
	result := make(map[string]Container)
	for name, c := range containers.(map[interface{}]interface{}) {
		cMap := c.(map[string]interface{})
		result[name.(string)] = Container{
			Resource:       stringValue(cMap["resource"]),
			UpstreamSource: stringValue(cMap["upstream-source"]),
		}
	}
	return result
}

func parseResources(resources interface{}) map[string]Resource {
	if resources == nil {
		return nil
	}
	result := make(map[string]Resource)
	for name, r := range resources.(map[interface{}]interface{}) {
		rMap := r.(map[string]interface{})
		result[name.(string)] = Resource{
			Type:           rMap["type"].(string),
			Description:    stringValue(rMap["description"]),
			Filename:       stringValue(rMap["filename"]),
			UpstreamSource: stringValue(rMap["upstream-source"]),
		}
	}
	return result
}

// ifaceExpander coerces both relation notations into the fully
// specified one:
//
//	requires:
//	  redis: redis
//	  postgresql_db:
//	    interface: postgresql_client
//	    limit: 1
func ifaceExpander(limit interface{}) schema.Checker {
	return ifaceExpC{limit}
}

type ifaceExpC struct {
	limit interface{}
}

var (
	stringC = schema.String()
	mapC    = schema.StringMap(schema.Any())
)

func (c ifaceExpC) Coerce(v interface{}, path []string) (interface{}, error) {
	if s, err := stringC.Coerce(v, path); err == nil {
		return ifaceSchema.Coerce(map[string]interface{}{
			"interface": s,
			"limit":     c.limit,
		}, path)
	}
	v, err := mapC.Coerce(v, path)
	if err != nil {
		return nil, err
	}
	m := v.(map[string]interface{})
	if _, ok := m["limit"]; !ok {
		m["limit"] = c.limit
	}
	return ifaceSchema.Coerce(m, path)
}

var ifaceSchema = schema.FieldMap(
	schema.Fields{
		"interface": schema.String(),
		"limit":     schema.OneOf(schema.Const(nil), schema.Int()),
		"scope":     schema.OneOf(schema.Const(ScopeGlobal), schema.Const(ScopeContainer)),
		"optional":  schema.Bool(),
	},
	schema.Defaults{
		"scope":    ScopeGlobal,
		"optional": false,
	},
)

var containerSchema = schema.FieldMap(
	schema.Fields{
		"resource":        schema.String(),
		"upstream-source": schema.String(),
	},
	schema.Defaults{
		"resource":        schema.Omit,
		"upstream-source": schema.Omit,
	},
)

var resourceSchema = schema.FieldMap(
	schema.Fields{
		"type":            schema.OneOf(schema.Const("oci-image"), schema.Const("file")),
		"description":     schema.String(),
		"filename":        schema.String(),
		"upstream-source": schema.String(),
	},
	schema.Defaults{
		"type":            "file",
		"description":     schema.Omit,
		"filename":        schema.Omit,
		"upstream-source": schema.Omit,
	},
)

var charmSchema = schema.FieldMap(
	schema.Fields{
		"name":        schema.String(),
		"summary":     schema.String(),
		"description": schema.String(),
		"peers":       schema.Map(schema.String(), ifaceExpander(int64(1))),
		"provides":    schema.Map(schema.String(), ifaceExpander(nil)),
		"requires":    schema.Map(schema.String(), ifaceExpander(int64(1))),
		"containers":  schema.Map(schema.String(), containerSchema),
		"resources":   schema.Map(schema.String(), resourceSchema),
	},
	schema.Defaults{
		"summary":     schema.Omit,
		"description": schema.Omit,
		"peers":       schema.Omit,
		"provides":    schema.Omit,
		"requires":    schema.Omit,
		"containers":  schema.Omit,
		"resources":   schema.Omit,
	},
)
