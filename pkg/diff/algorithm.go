// Copyright © 2018 One Concern

package diff

import (
	"sort"

	"github.com/oneconcern/reviz/pkg/diff/status"
)

// Algorithm computes an LCS of two integer sequences.
//
// Symbols range over [0, symbols). Implementations must not retain or modify
// their inputs, so that they may run concurrently on shared slices.
type Algorithm interface {
	Name() string
	LCS(a, b []int, symbols int) Subsequence
}

var (
	// Contours is the dominant match contours algorithm
	Contours Algorithm = contours{}

	// ShortestPath is the O(NP) algorithm
	ShortestPath Algorithm = shortestPath{}

	// Speculative races Contours and ShortestPath
	Speculative Algorithm = NewSpeculative(Contours, ShortestPath)

	// Default is the algorithm used when none is specified.
	// It is deterministic, unlike Speculative.
	Default = ShortestPath
)

var registry = map[string]Algorithm{
	Contours.Name():     Contours,
	ShortestPath.Name(): ShortestPath,
	Speculative.Name():  Speculative,
}

// Lookup an algorithm by name. The empty name stands for Default.
func Lookup(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}
	alg, ok := registry[name]
	if !ok {
		return nil, status.ErrUnknownAlgorithm.WrapMessage("%q", name)
	}
	return alg, nil
}

// Algorithms lists the registered algorithm names.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
