// Copyright © 2018 One Concern

package diff

import "sort"

// contours finds an LCS by divide and conquer over dominant matches.
//
// A match (i, j) has forward rank k when the longest common subsequence
// ending with it has length k. It is dominant when no other match of the same
// rank lies above and to the left of it. The k-th forward contour is the set
// of dominant matches of rank k; backward contours are built the same way
// from the end of both sequences.
//
// Contours are advanced from both ends, the smaller one first, for as long as
// some point of the forward contour strictly precedes some point of the
// backward contour. Once that fails, the last compatible pair lies on an
// optimal path, and the problem is split there.
type contours struct{}

func (contours) Name() string { return "contours" }

type point struct {
	i, j int
}

type contourSolver struct {
	a, b []int
	occB [][]int // positions of each symbol in b
	lcs  Subsequence
}

func (contours) LCS(a, b []int, symbols int) Subsequence {
	s := &contourSolver{a: a, b: b, occB: make([][]int, symbols)}
	for j, v := range b {
		s.occB[v] = append(s.occB[v], j)
	}
	s.solve(0, len(a), 0, len(b))
	return s.lcs
}

func (s *contourSolver) solve(aLo, aHi, bLo, bHi int) {
	a, b := s.a, s.b
	for aLo < aHi && bLo < bHi && a[aLo] == b[bLo] {
		s.lcs.Add(aLo, bLo, 1)
		aLo++
		bLo++
	}
	suffix := 0
	for aLo < aHi-suffix && bLo < bHi-suffix && a[aHi-1-suffix] == b[bHi-1-suffix] {
		suffix++
	}
	aHi -= suffix
	bHi -= suffix
	defer s.lcs.Add(aHi, bHi, suffix)

	if aLo == aHi || bLo == bHi {
		return
	}

	fwd := []point{{aLo - 1, bLo - 1}}
	bwd := []point{{aHi, bHi}}
	f, g := fwd[0], bwd[0]
	p, q := 0, 0

	for {
		if len(fwd) <= len(bwd) {
			next := s.forward(fwd, aHi, bHi)
			nf, ng, ok := compatible(next, bwd)
			if !ok {
				break
			}
			fwd, f, g = next, nf, ng
			p++
		} else {
			next := s.backward(bwd, aLo, bLo)
			nf, ng, ok := compatible(fwd, next)
			if !ok {
				break
			}
			bwd, f, g = next, nf, ng
			q++
		}
	}

	var mid point
	switch {
	case p > 0:
		mid = f
	case q > 0:
		mid = g
	default:
		return
	}

	// extend the diagonal through the midpoint both ways
	start, end := mid, point{mid.i + 1, mid.j + 1}
	for start.i > aLo && start.j > bLo && a[start.i-1] == b[start.j-1] {
		start.i--
		start.j--
	}
	for end.i < aHi && end.j < bHi && a[end.i] == b[end.j] {
		end.i++
		end.j++
	}

	s.solve(aLo, start.i, bLo, start.j)
	s.lcs.Add(start.i, start.j, end.i-start.i)
	s.solve(end.i, aHi, end.j, bHi)
}

// forward computes the next forward contour. Points are sorted by i
// ascending, j descending.
func (s *contourSolver) forward(contour []point, aHi, bHi int) []point {
	var candidates []point
	for _, c := range contour {
		best := bHi
		for i := c.i + 1; i < aHi && best > c.j+1; i++ {
			if j := s.nextB(s.a[i], c.j, bHi); j >= 0 && j < best {
				candidates = append(candidates, point{i, j})
				best = j
			}
		}
	}
	return minimal(candidates)
}

// backward computes the next backward contour. Points are sorted by i
// descending, j ascending.
func (s *contourSolver) backward(contour []point, aLo, bLo int) []point {
	var candidates []point
	for _, c := range contour {
		best := bLo - 1
		for i := c.i - 1; i >= aLo && best < c.j-1; i-- {
			if j := s.prevB(s.a[i], c.j, bLo); j >= 0 && j > best {
				candidates = append(candidates, point{i, j})
				best = j
			}
		}
	}
	return maximal(candidates)
}

// nextB is the first position of v in b after j and before hi, or -1.
func (s *contourSolver) nextB(v, j, hi int) int {
	occ := s.occB[v]
	k := sort.SearchInts(occ, j+1)
	if k < len(occ) && occ[k] < hi {
		return occ[k]
	}
	return -1
}

// prevB is the last position of v in b before j and not before lo, or -1.
func (s *contourSolver) prevB(v, j, lo int) int {
	occ := s.occB[v]
	k := sort.SearchInts(occ, j) - 1
	if k >= 0 && occ[k] >= lo {
		return occ[k]
	}
	return -1
}

func minimal(points []point) []point {
	sort.Slice(points, func(x, y int) bool {
		if points[x].i != points[y].i {
			return points[x].i < points[y].i
		}
		return points[x].j < points[y].j
	})
	out := points[:0]
	for _, p := range points {
		if len(out) == 0 || p.j < out[len(out)-1].j {
			out = append(out, p)
		}
	}
	return out
}

func maximal(points []point) []point {
	sort.Slice(points, func(x, y int) bool {
		if points[x].i != points[y].i {
			return points[x].i > points[y].i
		}
		return points[x].j > points[y].j
	})
	out := points[:0]
	for _, p := range points {
		if len(out) == 0 || p.j > out[len(out)-1].j {
			out = append(out, p)
		}
	}
	return out
}

// compatible finds f in fwd and g in bwd with f strictly before g.
// fwd is sorted by i ascending with j descending, bwd by i descending with j
// ascending.
func compatible(fwd, bwd []point) (point, point, bool) {
	k := 0
	for x := len(bwd) - 1; x >= 0; x-- {
		g := bwd[x]
		for k < len(fwd) && fwd[k].i < g.i {
			k++
		}
		if k > 0 && fwd[k-1].j < g.j {
			return fwd[k-1], g, true
		}
	}
	return point{}, point{}, false
}
