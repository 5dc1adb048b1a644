// Copyright © 2018 One Concern

package diff

// reduction holds sequences stripped of their common prefix and suffix and of
// the values that only one side holds, with values mapped to symbols.
type reduction struct {
	lenA, lenB     int
	prefix, suffix int
	a, b           []int
	revA, revB     []int // reduced index -> original index
	symbols        int
}

func reduce[T comparable](a, b []T) *reduction {
	r := &reduction{lenA: len(a), lenB: len(b)}

	for r.suffix < len(a) && r.suffix < len(b) && a[len(a)-1-r.suffix] == b[len(b)-1-r.suffix] {
		r.suffix++
	}
	endA, endB := len(a)-r.suffix, len(b)-r.suffix
	for r.prefix < endA && r.prefix < endB && a[r.prefix] == b[r.prefix] {
		r.prefix++
	}
	middleA, middleB := a[r.prefix:endA], b[r.prefix:endB]

	inA := make(map[T]struct{}, len(middleA))
	for _, v := range middleA {
		inA[v] = struct{}{}
	}
	inB := make(map[T]struct{}, len(middleB))
	for _, v := range middleB {
		inB[v] = struct{}{}
	}

	alphabet := make(map[T]int)
	symbol := func(v T) int {
		s, ok := alphabet[v]
		if !ok {
			s = len(alphabet)
			alphabet[v] = s
		}
		return s
	}

	for i, v := range middleA {
		if _, ok := inB[v]; ok {
			r.a = append(r.a, symbol(v))
			r.revA = append(r.revA, r.prefix+i)
		}
	}
	for j, v := range middleB {
		if _, ok := inA[v]; ok {
			r.b = append(r.b, symbol(v))
			r.revB = append(r.revB, r.prefix+j)
		}
	}
	r.symbols = len(alphabet)
	return r
}

// expand maps an LCS of the reduced sequences back to original indices,
// with the prefix and suffix matches.
func (r *reduction) expand(reduced Subsequence) Subsequence {
	var lcs Subsequence
	lcs.Add(0, 0, r.prefix)
	for _, run := range reduced.Runs() {
		for k := 0; k < run.N; k++ {
			lcs.Add(r.revA[run.I+k], r.revB[run.J+k], 1)
		}
	}
	lcs.Add(r.lenA-r.suffix, r.lenB-r.suffix, r.suffix)
	return lcs
}

// LCS computes a longest common subsequence of a and b.
func LCS[T comparable](a, b []T, alg Algorithm) Subsequence {
	if alg == nil {
		alg = Default
	}
	r := reduce(a, b)
	if len(r.a) == 0 || len(r.b) == 0 {
		return r.expand(Subsequence{})
	}
	return r.expand(alg.LCS(r.a, r.b, r.symbols))
}

// Compute the shortest edit script turning a into b.
func Compute[T comparable](a, b []T, alg Algorithm) *EditScript[T] {
	lcs := LCS(a, b, alg)
	ses := &EditScript[T]{}
	i0, j0 := 0, 0
	for _, run := range lcs.Runs() {
		if i0 < run.I {
			ses.Del(a[i0:run.I])
		}
		if j0 < run.J {
			ses.Add(b[j0:run.J])
		}
		ses.Common(a[run.I:run.I+run.N], b[run.J:run.J+run.N])
		i0, j0 = run.I+run.N, run.J+run.N
	}
	if i0 < len(a) {
		ses.Del(a[i0:])
	}
	if j0 < len(b) {
		ses.Add(b[j0:])
	}
	return ses
}
