// Copyright © 2018 One Concern

package diff

import (
	"github.com/oneconcern/reviz/pkg/diff/status"
)

// Mark tells what an edit script chunk does
type Mark byte

const (
	// Del removes elements of A
	Del Mark = '-'
	// Add inserts elements of B
	Add Mark = '+'
	// Common keeps elements present in both A and B
	Common Mark = ' '
)

func (m Mark) String() string {
	switch m {
	case Del:
		return "del"
	case Add:
		return "add"
	case Common:
		return "common"
	}
	return "unknown"
}

// Chunk is a run of elements with the same mark. A holds elements of the
// first sequence (Del, Common), B elements of the second (Add, Common).
type Chunk[T comparable] struct {
	Mark Mark
	A    []T
	B    []T
}

// EditScript turns a sequence A into a sequence B.
//
// Within a change, deletions always come before additions.
type EditScript[T comparable] struct {
	chunks    []Chunk[T]
	countA    int
	countB    int
	additions int
	deletions int
	cs        Subsequence
}

// Del appends deletions.
func (s *EditScript[T]) Del(elems []T) {
	if len(elems) == 0 {
		return
	}
	n := len(s.chunks)
	switch {
	case n > 0 && s.chunks[n-1].Mark == Del:
		s.chunks[n-1].A = append(s.chunks[n-1].A, elems...)
	case n > 0 && s.chunks[n-1].Mark == Add:
		// keep deletions first within a change
		if n > 1 && s.chunks[n-2].Mark == Del {
			s.chunks[n-2].A = append(s.chunks[n-2].A, elems...)
		} else {
			s.chunks = append(s.chunks, s.chunks[n-1])
			s.chunks[n-1] = Chunk[T]{Mark: Del, A: clone(elems)}
		}
	default:
		s.chunks = append(s.chunks, Chunk[T]{Mark: Del, A: clone(elems)})
	}
	s.countA += len(elems)
	s.deletions += len(elems)
}

// Add appends additions.
func (s *EditScript[T]) Add(elems []T) {
	if len(elems) == 0 {
		return
	}
	n := len(s.chunks)
	if n > 0 && s.chunks[n-1].Mark == Add {
		s.chunks[n-1].B = append(s.chunks[n-1].B, elems...)
	} else {
		s.chunks = append(s.chunks, Chunk[T]{Mark: Add, B: clone(elems)})
	}
	s.countB += len(elems)
	s.additions += len(elems)
}

// Common appends matched elements. a and b have the same length.
func (s *EditScript[T]) Common(a, b []T) {
	if len(a) != len(b) {
		panic("diff: common runs of different lengths")
	}
	if len(a) == 0 {
		return
	}
	n := len(s.chunks)
	if n > 0 && s.chunks[n-1].Mark == Common {
		s.chunks[n-1].A = append(s.chunks[n-1].A, a...)
		s.chunks[n-1].B = append(s.chunks[n-1].B, b...)
	} else {
		s.chunks = append(s.chunks, Chunk[T]{Mark: Common, A: clone(a), B: clone(b)})
	}
	s.cs.Add(s.countA, s.countB, len(a))
	s.countA += len(a)
	s.countB += len(b)
}

func clone[T any](elems []T) []T {
	return append([]T(nil), elems...)
}

// Chunks returns the chunks of the script.
func (s *EditScript[T]) Chunks() []Chunk[T] { return s.chunks }

// CountA is the length of A.
func (s *EditScript[T]) CountA() int { return s.countA }

// CountB is the length of B.
func (s *EditScript[T]) CountB() int { return s.countB }

// Additions is the number of added elements.
func (s *EditScript[T]) Additions() int { return s.additions }

// Deletions is the number of deleted elements.
func (s *EditScript[T]) Deletions() int { return s.deletions }

// CommonSubsequence is the LCS this script was built from.
func (s *EditScript[T]) CommonSubsequence() Subsequence { return s.cs }

// Each calls fn on every element, in order. For deletions b is the zero
// value, for additions a is.
func (s *EditScript[T]) Each(fn func(mark Mark, a, b T)) {
	var zero T
	for _, c := range s.chunks {
		switch c.Mark {
		case Del:
			for _, e := range c.A {
				fn(Del, e, zero)
			}
		case Add:
			for _, e := range c.B {
				fn(Add, zero, e)
			}
		case Common:
			for k := range c.A {
				fn(Common, c.A[k], c.B[k])
			}
		}
	}
}

// Apply the script to A and return B. The deleted and common elements must
// match a.
func (s *EditScript[T]) Apply(a []T) ([]T, error) {
	if len(a) != s.countA {
		return nil, status.ErrMismatch.WrapMessage("expected %d elements, got %d", s.countA, len(a))
	}
	out := make([]T, 0, s.countB)
	pos := 0
	for _, c := range s.chunks {
		switch c.Mark {
		case Del, Common:
			for _, e := range c.A {
				if a[pos] != e {
					return nil, status.ErrMismatch.WrapMessage("element %d differs", pos)
				}
				pos++
			}
		}
		if c.Mark == Add || c.Mark == Common {
			out = append(out, c.B...)
		}
	}
	return out, nil
}

// Unapply the script to B and return A.
func (s *EditScript[T]) Unapply(b []T) ([]T, error) {
	if len(b) != s.countB {
		return nil, status.ErrMismatch.WrapMessage("expected %d elements, got %d", s.countB, len(b))
	}
	out := make([]T, 0, s.countA)
	pos := 0
	for _, c := range s.chunks {
		switch c.Mark {
		case Add, Common:
			for _, e := range c.B {
				if b[pos] != e {
					return nil, status.ErrMismatch.WrapMessage("element %d differs", pos)
				}
				pos++
			}
		}
		if c.Mark == Del || c.Mark == Common {
			out = append(out, c.A...)
		}
	}
	return out, nil
}

// Reverse returns the script turning B into A.
func (s *EditScript[T]) Reverse() *EditScript[T] {
	r := &EditScript[T]{}
	for _, c := range s.chunks {
		switch c.Mark {
		case Del:
			r.Add(c.A)
		case Add:
			r.Del(c.B)
		case Common:
			r.Common(c.B, c.A)
		}
	}
	return r
}
