// Copyright © 2018 One Concern

package diff

import "strings"

// speculative runs several algorithms concurrently and keeps the first
// result. The other runs complete in the background and are discarded.
type speculative struct {
	algorithms []Algorithm
}

// NewSpeculative builds an algorithm racing the given ones.
func NewSpeculative(algorithms ...Algorithm) Algorithm {
	return speculative{algorithms: algorithms}
}

func (s speculative) Name() string {
	if len(s.algorithms) == 2 && s.algorithms[0] == Contours && s.algorithms[1] == ShortestPath {
		return "speculative"
	}
	names := make([]string, 0, len(s.algorithms))
	for _, alg := range s.algorithms {
		names = append(names, alg.Name())
	}
	return "speculative(" + strings.Join(names, ",") + ")"
}

func (s speculative) LCS(a, b []int, symbols int) Subsequence {
	switch len(s.algorithms) {
	case 0:
		return Default.LCS(a, b, symbols)
	case 1:
		return s.algorithms[0].LCS(a, b, symbols)
	}

	results := make(chan Subsequence, len(s.algorithms))
	for _, alg := range s.algorithms {
		ca := append([]int(nil), a...)
		cb := append([]int(nil), b...)
		go func(alg Algorithm) {
			results <- alg.LCS(ca, cb, symbols)
		}(alg)
	}
	return <-results
}
