// Copyright © 2018 One Concern

package diff

// Run is a diagonal run of matches: A[I+k] == B[J+k] for 0 <= k < N.
type Run struct {
	I, J, N int
}

// Subsequence is a common subsequence, as an ordered list of maximal runs.
type Subsequence struct {
	runs []Run
}

// Add n matches starting at (i, j). Runs continuing the last one are merged.
func (s *Subsequence) Add(i, j, n int) {
	if n <= 0 {
		return
	}
	if k := len(s.runs) - 1; k >= 0 {
		last := &s.runs[k]
		if last.I+last.N == i && last.J+last.N == j {
			last.N += n
			return
		}
	}
	s.runs = append(s.runs, Run{I: i, J: j, N: n})
}

// Len is the number of matched elements.
func (s Subsequence) Len() int {
	n := 0
	for _, r := range s.runs {
		n += r.N
	}
	return n
}

// Runs returns the runs in sequence order.
func (s Subsequence) Runs() []Run {
	return s.runs
}

// Each calls fn on every run.
func (s Subsequence) Each(fn func(i, j, n int)) {
	for _, r := range s.runs {
		fn(r.I, r.J, r.N)
	}
}
