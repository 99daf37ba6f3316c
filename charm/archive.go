// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"archive/zip"
	"os"

	"github.com/juju/errors"
)

// Archive is a packed .charm file.
type Archive struct {
	Path string
	Size int64
	meta *Meta
}

// ReadArchive opens the charm archive at path and reads its metadata.
func ReadArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Trace(err)
	}
	zipr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return nil, errors.Annotatef(err, "opening charm archive %q", path)
	}
	meta, err := readArchiveMeta(zipr)
	if err != nil {
		return nil, errors.Annotatef(err, "charm archive %q", path)
	}
	return &Archive{
		Path: path,
		Size: fi.Size(),
		meta: meta,
	}, nil
}

// Meta returns the metadata packed in the archive.
func (a *Archive) Meta() *Meta {
	return a.meta
}

func readArchiveMeta(zipr *zip.Reader) (*Meta, error) {
	for _, name := range metadataFiles {
		for _, fh := range zipr.File {
			if fh.Name != name {
				continue
			}
			r, err := fh.Open()
			if err != nil {
				return nil, errors.Trace(err)
			}
			meta, err := ReadMeta(r)
			_ = r.Close()
			return meta, errors.Trace(err)
		}
	}
	return nil, errors.NotFoundf("metadata")
}
