// Copyright © 2018 One Concern

package diff

// shortestPath implements "An O(NP) Sequence Comparison Algorithm"
// (Wu, Manber, Myers, Miller 1990).
//
// fp[k] is the furthest row reached on diagonal k, and path[k] the chain of
// snakes leading there.
type shortestPath struct{}

func (shortestPath) Name() string { return "shortestpath" }

type snake struct {
	x, y, n int
	prev    *snake
}

func (shortestPath) LCS(a, b []int, _ int) Subsequence {
	swapped := false
	if len(a) > len(b) {
		a, b = b, a
		swapped = true
	}
	m, n := len(a), len(b)
	delta := n - m
	offset := m + 1
	fp := make([]int, m+n+3)
	for i := range fp {
		fp[i] = -1
	}
	path := make([]*snake, m+n+3)

	extend := func(k int) {
		var y int
		var prev *snake
		if fp[offset+k-1]+1 > fp[offset+k+1] {
			y = fp[offset+k-1] + 1
			prev = path[offset+k-1]
		} else {
			y = fp[offset+k+1]
			prev = path[offset+k+1]
		}
		x := y - k
		start := y
		for x < m && y < n && a[x] == b[y] {
			x++
			y++
		}
		if y > start {
			prev = &snake{x: start - k, y: start, n: y - start, prev: prev}
		}
		fp[offset+k] = y
		path[offset+k] = prev
	}

	for p := 0; fp[offset+delta] != n; p++ {
		for k := -p; k < delta; k++ {
			extend(k)
		}
		for k := delta + p; k > delta; k-- {
			extend(k)
		}
		extend(delta)
	}

	var snakes []*snake
	for s := path[offset+delta]; s != nil; s = s.prev {
		snakes = append(snakes, s)
	}
	var lcs Subsequence
	for i := len(snakes) - 1; i >= 0; i-- {
		s := snakes[i]
		if swapped {
			lcs.Add(s.y, s.x, s.n)
		} else {
			lcs.Add(s.x, s.y, s.n)
		}
	}
	return lcs
}
