// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"archive/zip"
	"os"
	"sort"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

// WriteCharmArchive writes a zip file at path holding the given files,
// keyed by their path inside the archive. Entries are written in name
// order so the archive bytes are stable.
func WriteCharmArchive(c *gc.C, path string, files map[string]string) {
	f, err := os.Create(path)
	c.Assert(err, jc.ErrorIsNil)
	defer f.Close()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	w := zip.NewWriter(f)
	for _, name := range names {
		fw, err := w.Create(name)
		c.Assert(err, jc.ErrorIsNil)
		_, err = fw.Write([]byte(files[name]))
		c.Assert(err, jc.ErrorIsNil)
	}
	c.Assert(w.Close(), jc.ErrorIsNil)
}

// WriteCharm writes a charm archive at path holding only metadata.yaml
// with the supplied content.
func WriteCharm(c *gc.C, path, metadata string) {
	WriteCharmArchive(c, path, map[string]string{"metadata.yaml": metadata})
}
