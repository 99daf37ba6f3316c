// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charmbuild packs a charm from its source tree with
// charmcraft.
package charmbuild

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"

	"github.com/canonical/superset-k8s-upgrade/charm"
	"github.com/canonical/superset-k8s-upgrade/core/logger"
	"github.com/canonical/superset-k8s-upgrade/internal/cmdrunner"
)

// DefaultBinary is the charmcraft executable looked up in PATH.
const DefaultBinary = "charmcraft"

// Config configures a Builder.
type Config struct {
	Runner cmdrunner.Runner
	Logger logger.Logger

	// Binary defaults to DefaultBinary.
	Binary string

	// DestructiveMode packs on the host instead of in a build
	// container.
	DestructiveMode bool
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Builder packs charms.
type Builder struct {
	config Config
}

// NewBuilder returns a Builder.
func NewBuilder(config Config) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Binary == "" {
		config.Binary = DefaultBinary
	}
	return &Builder{config: config}, nil
}

// Build packs the charm whose source is in dir and returns the newest
// archive for it.
func (b *Builder) Build(ctx context.Context, dir string) (*charm.Archive, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	meta, err := charm.ReadMetaDir(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}

	args := []string{"pack"}
	if b.config.DestructiveMode {
		args = append(args, "--destructive-mode")
	}
	b.config.Logger.Infof("building charm %q in %s", meta.Name, dir)
	if _, err := b.config.Runner.Run(ctx, cmdrunner.Command{
		Name: b.config.Binary,
		Args: args,
		Dir:  dir,
	}); err != nil {
		return nil, errors.Annotatef(err, "packing charm %q", meta.Name)
	}

	path, err := newestArchive(dir, meta.Name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	archive, err := charm.ReadArchive(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if archive.Meta().Name != meta.Name {
		return nil, errors.NotValidf("archive %q containing charm %q, expected %q", path, archive.Meta().Name, meta.Name)
	}
	b.config.Logger.Infof("built %s (%s)", filepath.Base(path), humanize.Bytes(uint64(archive.Size)))
	return archive, nil
}

// newestArchive returns the most recently modified archive of the named
// charm in dir. charmcraft writes one archive per base.
func newestArchive(dir, name string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, name+"_*.charm"))
	if err != nil {
		return "", errors.Trace(err)
	}
	var (
		newest string
		latest os.FileInfo
	)
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return "", errors.Trace(err)
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			newest, latest = match, info
		}
	}
	if newest == "" {
		return "", errors.NotFoundf("archive for charm %q in %q", name, dir)
	}
	return newest, nil
}
