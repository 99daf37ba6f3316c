// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm_test

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/superset-k8s-upgrade/charm"
	coretesting "github.com/canonical/superset-k8s-upgrade/testing"
)

const supersetMeta = `
name: superset-k8s
display-name: Superset
summary: Kubernetes operator for Apache Superset
description: |
  Superset is a modern data exploration and visualization platform.
containers:
  superset:
    resource: superset-image
resources:
  superset-image:
    type: oci-image
    description: OCI image for Superset
    upstream-source: ghcr.io/canonical/charmed-superset-rock:3.0.1-22.04-edge
requires:
  postgresql_db:
    interface: postgresql_client
    limit: 1
  redis: redis
  ingress:
    interface: ingress
    optional: true
peers:
  peer:
    interface: superset
`

type metaSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&metaSuite{})

func (s *metaSuite) TestReadMeta(c *gc.C) {
	meta, err := charm.ReadMeta(strings.NewReader(supersetMeta))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(meta.Name, gc.Equals, "superset-k8s")
	c.Check(meta.Summary, gc.Equals, "Kubernetes operator for Apache Superset")
	c.Check(meta.Requires, jc.DeepEquals, map[string]charm.Relation{
		"postgresql_db": {Interface: "postgresql_client", Limit: 1, Scope: charm.ScopeGlobal},
		"redis":         {Interface: "redis", Limit: 1, Scope: charm.ScopeGlobal},
		"ingress":       {Interface: "ingress", Optional: true, Limit: 1, Scope: charm.ScopeGlobal},
	})
	c.Check(meta.Peers, jc.DeepEquals, map[string]charm.Relation{
		"peer": {Interface: "superset", Limit: 1, Scope: charm.ScopeGlobal},
	})
	c.Check(meta.Provides, gc.IsNil)
	c.Check(meta.Containers, jc.DeepEquals, map[string]charm.Container{
		"superset": {Resource: "superset-image"},
	})
	c.Check(meta.Resources["superset-image"].Type, gc.Equals, "oci-image")
}

func (s *metaSuite) TestReadMetaRelationLimits(c *gc.C) {
	meta, err := charm.ReadMeta(strings.NewReader(`
name: superset-k8s
requires:
  redis: redis
  catalog:
    interface: trino_client
  postgresql_db:
    interface: postgresql_client
    limit: 3
provides:
  metrics-endpoint: prometheus_scrape
peers:
  peer: superset
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(meta.Requires, jc.DeepEquals, map[string]charm.Relation{
		"redis":         {Interface: "redis", Limit: 1, Scope: charm.ScopeGlobal},
		"catalog":       {Interface: "trino_client", Limit: 1, Scope: charm.ScopeGlobal},
		"postgresql_db": {Interface: "postgresql_client", Limit: 3, Scope: charm.ScopeGlobal},
	})
	c.Check(meta.Peers, jc.DeepEquals, map[string]charm.Relation{
		"peer": {Interface: "superset", Limit: 1, Scope: charm.ScopeGlobal},
	})
	c.Check(meta.Provides, jc.DeepEquals, map[string]charm.Relation{
		"metrics-endpoint": {Interface: "prometheus_scrape", Scope: charm.ScopeGlobal},
	})
}

func (s *metaSuite) TestUpstreamSource(c *gc.C) {
	meta, err := charm.ReadMeta(strings.NewReader(supersetMeta))
	c.Assert(err, jc.ErrorIsNil)

	image := "ghcr.io/canonical/charmed-superset-rock:3.0.1-22.04-edge"
	source, err := meta.UpstreamSource("superset-image")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(source, gc.Equals, image)

	source, err = meta.UpstreamSource("superset")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(source, gc.Equals, image)

	_, err = meta.UpstreamSource("statsd-exporter")
	c.Check(err, jc.Satisfies, errors.IsNotFound)
	c.Check(err, gc.ErrorMatches, `upstream-source for "statsd-exporter" in charm "superset-k8s" not found`)
}

func (s *metaSuite) TestContainerUpstreamSource(c *gc.C) {
	meta, err := charm.ReadMeta(strings.NewReader(`
name: superset-k8s
containers:
  superset-image:
    upstream-source: apache/superset:3.0.1
`))
	c.Assert(err, jc.ErrorIsNil)
	source, err := meta.UpstreamSource("superset-image")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(source, gc.Equals, "apache/superset:3.0.1")
}

func (s *metaSuite) TestReadMetaErrors(c *gc.C) {
	for _, test := range []struct {
		yaml string
		err  string
	}{{
		yaml: "summary: no name\n",
		err:  `metadata: name: expected string, got .*`,
	}, {
		yaml: "name: [\n",
		err:  `metadata: yaml: .*`,
	}, {
		yaml: "name: x\nrequires:\n  db:\n    interface: pg\n    scope: nowhere\n",
		err:  `metadata: requires.*db.*scope: .*`,
	}, {
		yaml: "name: x\ncontainers:\n  app:\n    resource: image\n",
		err:  `container "app" using undeclared resource "image" not valid`,
	}, {
		yaml: "name: x\nresources:\n  image:\n    type: tarball\n",
		err:  `metadata: resources.*image.*type: .*`,
	}} {
		c.Logf("yaml: %s", test.yaml)
		_, err := charm.ReadMeta(strings.NewReader(test.yaml))
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *metaSuite) TestReadMetaDir(c *gc.C) {
	dir := c.MkDir()
	_, err := charm.ReadMetaDir(dir)
	c.Check(err, jc.Satisfies, errors.IsNotFound)

	err = os.WriteFile(filepath.Join(dir, "charmcraft.yaml"), []byte("type: charm\nname: from-charmcraft\n"), 0644)
	c.Assert(err, jc.ErrorIsNil)
	meta, err := charm.ReadMetaDir(dir)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(meta.Name, gc.Equals, "from-charmcraft")

	err = os.WriteFile(filepath.Join(dir, "metadata.yaml"), []byte(supersetMeta), 0644)
	c.Assert(err, jc.ErrorIsNil)
	meta, err = charm.ReadMetaDir(dir)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(meta.Name, gc.Equals, "superset-k8s")
}

func (s *metaSuite) TestReadMetaDirInvalid(c *gc.C) {
	dir := c.MkDir()
	err := os.WriteFile(filepath.Join(dir, "metadata.yaml"), []byte("summary: x\n"), 0644)
	c.Assert(err, jc.ErrorIsNil)
	_, err = charm.ReadMetaDir(dir)
	c.Check(err, gc.ErrorMatches, `reading .*metadata.yaml: metadata: name: .*`)
}

func (s *metaSuite) TestReadArchive(c *gc.C) {
	path := filepath.Join(c.MkDir(), "superset-k8s_ubuntu-22.04-amd64.charm")
	coretesting.WriteCharmArchive(c, path, map[string]string{
		"metadata.yaml":    supersetMeta,
		"src/charm.py":     "#!/usr/bin/env python3\n",
		"manifest.yaml":    "analysis: {}\n",
		"dispatch":         "#!/bin/sh\n",
		"config.yaml":      "options: {}\n",
		"actions.yaml":     "{}\n",
		"requirements.txt": "ops\n",
	})

	archive, err := charm.ReadArchive(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(archive.Path, gc.Equals, path)
	c.Check(archive.Size > 0, jc.IsTrue)
	c.Check(archive.Meta().Name, gc.Equals, "superset-k8s")
}

func (s *metaSuite) TestReadArchiveWithoutMetadata(c *gc.C) {
	path := filepath.Join(c.MkDir(), "broken.charm")
	coretesting.WriteCharmArchive(c, path, map[string]string{"dispatch": "#!/bin/sh\n"})

	_, err := charm.ReadArchive(path)
	c.Check(err, gc.ErrorMatches, `charm archive ".*broken.charm": metadata not found`)
}

func (s *metaSuite) TestReadArchiveNotZip(c *gc.C) {
	path := filepath.Join(c.MkDir(), "plain.charm")
	c.Assert(os.WriteFile(path, []byte("not a zip"), 0644), jc.ErrorIsNil)

	_, err := charm.ReadArchive(path)
	c.Check(err, gc.ErrorMatches, `opening charm archive ".*plain.charm": .*`)
}
