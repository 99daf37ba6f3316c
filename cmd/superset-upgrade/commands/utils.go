// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/naturalsort"
)

// sortedKeys returns the keys of m in natural order, so that "app/2"
// sorts before "app/10".
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return naturalsort.Sort(keys)
}
