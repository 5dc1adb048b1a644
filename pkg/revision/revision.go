// Copyright © 2018 One Concern

package revision

import (
	"strconv"
	"strings"
)

// Revision is an immutable dotted revision number.
//
// The zero value is the absent revision. Revisions are comparable and may be
// used as map keys.
type Revision struct {
	s string
}

// Parse a dotted revision number. Magic branch numbers are folded to their
// branch identifier. The empty string yields the zero Revision.
func Parse(s string) (Revision, error) {
	if s == "" {
		return Revision{}, nil
	}
	nums, err := split(s)
	if err != nil {
		return Revision{}, err
	}
	if isMagic(nums) {
		nums = append(nums[:len(nums)-2:len(nums)-2], nums[len(nums)-1])
	}
	return fromNums(nums), nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Revision {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// IsMagic tells if a textual revision uses the magic branch encoding.
func IsMagic(s string) bool {
	nums, err := split(s)
	return err == nil && isMagic(nums)
}

// FromInts builds a revision from its components. A nil or empty slice
// yields the zero Revision.
func FromInts(nums []int) (Revision, error) {
	if len(nums) == 0 {
		return Revision{}, nil
	}
	for _, n := range nums {
		if n < 0 {
			return Revision{}, ErrRevisionFormat.WrapMessage("negative component in %v", nums)
		}
	}
	return fromNums(nums), nil
}

func split(s string) ([]int, error) {
	parts := strings.Split(s, ".")
	nums := make([]int, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, ErrRevisionFormat.WrapMessage("%q", s)
		}
		for j := 0; j < len(part); j++ {
			if part[j] < '0' || part[j] > '9' {
				return nil, ErrRevisionFormat.WrapMessage("%q", s)
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, ErrRevisionFormat.WrapMessage("%q", s).Wrap(err)
		}
		nums[i] = n
	}
	return nums, nil
}

func isMagic(nums []int) bool {
	return len(nums) >= 4 && len(nums)%2 == 0 && nums[len(nums)-2] == 0
}

func fromNums(nums []int) Revision {
	var b strings.Builder
	for i, n := range nums {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return Revision{s: b.String()}
}

// Ints returns a copy of the components.
func (r Revision) Ints() []int {
	if r.s == "" {
		return nil
	}
	nums, _ := split(r.s)
	return nums
}

// String renders the revision in plain dotted form.
func (r Revision) String() string {
	return r.s
}

// MagicString renders a branch identifier in magic form (1.3.2 -> 1.3.0.2).
// Plain revisions and vendor branches are rendered as is.
func (r Revision) MagicString() string {
	if !r.IsBranch() || r.Len() < 3 || r.IsVendorBranch() {
		return r.s
	}
	i := strings.LastIndexByte(r.s, '.')
	return r.s[:i] + ".0" + r.s[i:]
}

// IsZero tells if this is the absent revision.
func (r Revision) IsZero() bool {
	return r.s == ""
}

// Len is the number of components.
func (r Revision) Len() int {
	if r.s == "" {
		return 0
	}
	return strings.Count(r.s, ".") + 1
}

// IsBranch tells if r is a branch identifier.
func (r Revision) IsBranch() bool {
	return r.Len()%2 == 1
}

// OnTrunk tells if r is a revision on the trunk (a.b).
func (r Revision) OnTrunk() bool {
	return r.Len() == 2
}

// BranchLevel is the branching depth: 0 on the trunk, 1 for 1.3.2.x and so on.
func (r Revision) BranchLevel() int {
	return (r.Len() - 1) / 2
}

// IsVendorBranch is a heuristic: 3 components with an odd last one (1.1.1).
func (r Revision) IsVendorBranch() bool {
	nums := r.Ints()
	return len(nums) == 3 && nums[2]%2 == 1
}

// Next increments the last component.
func (r Revision) Next() Revision {
	nums := r.Ints()
	if len(nums) == 0 {
		return r
	}
	nums[len(nums)-1]++
	return fromNums(nums)
}

// Branch returns the branch containing a plain revision. A branch
// identifier is its own branch.
func (r Revision) Branch() Revision {
	if r.IsZero() || r.IsBranch() {
		return r
	}
	return Revision{s: r.s[:strings.LastIndexByte(r.s, '.')]}
}

// First returns the first revision on a branch.
func (r Revision) First() Revision {
	if !r.IsBranch() {
		return Revision{}
	}
	return Revision{s: r.s + ".1"}
}

// Origin is the branch point a branch or a branch revision sprouts from:
// both 1.3.2 and 1.3.2.4 have origin 1.3.
// Trunk revisions and top-level branches have no origin.
func (r Revision) Origin() (Revision, error) {
	n := r.Len()
	if r.IsBranch() {
		if n <= 1 {
			return Revision{}, ErrNoOrigin.WrapMessage("branch %q", r.s)
		}
		return Revision{s: r.s[:strings.LastIndexByte(r.s, '.')]}, nil
	}
	if n <= 2 {
		return Revision{}, ErrNoOrigin.WrapMessage("revision %q", r.s)
	}
	b := r.Branch()
	return Revision{s: b.s[:strings.LastIndexByte(b.s, '.')]}, nil
}

// On tells if a plain revision belongs to branch br, or sprouts a branch
// from it: 1.3.2.1 is on 1.3.2, and so is 1.3.2.1.4.1's branch point 1.3.2.1
// on 1.3.2.1.4. A zero br stands for the trunk.
func (r Revision) On(br Revision) bool {
	if br.IsZero() {
		return r.OnTrunk()
	}
	if r.IsBranch() || !br.IsBranch() {
		return false
	}
	switch r.Len() {
	case br.Len() + 1:
		return r.Branch() == br
	case br.Len() - 1:
		return br.s[:strings.LastIndexByte(br.s, '.')] == r.s
	}
	return false
}

// Compare orders revisions by length first, then component-wise.
// It returns -1, 0 or 1.
func Compare(a, b Revision) int {
	la, lb := a.Len(), b.Len()
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	}
	na, nb := a.Ints(), b.Ints()
	for i := range na {
		switch {
		case na[i] < nb[i]:
			return -1
		case na[i] > nb[i]:
			return 1
		}
	}
	return 0
}

// Less is Compare(r, other) < 0.
func (r Revision) Less(other Revision) bool {
	return Compare(r, other) < 0
}
