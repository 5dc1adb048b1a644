// Copyright © 2018 One Concern

package rcs

import (
	"sort"
	"time"

	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
)

// StateDead marks a revision recording the removal of the file.
const StateDead = "dead"

// StateExp is the state given to new revisions by default.
const StateExp = "Exp"

// Word is a word of a phrase kept verbatim: an identifier, a number, a
// string or a colon.
type Word struct {
	Kind Kind
	Text string
}

// Phrase is a key followed by words. Phrases with unknown keys are kept as
// read, so that files written by other tools survive a round trip.
type Phrase struct {
	Key   string
	Words []Word
}

// Symbol binds a name to a revision or a branch. Magic records whether the
// branch is written in magic form.
type Symbol struct {
	Name  string
	Rev   revision.Revision
	Magic bool
}

// Lock records a user holding a lock on a revision.
type Lock struct {
	User string
	Rev  revision.Revision
}

// Delta is one revision of a file.
type Delta struct {
	Rev      revision.Revision
	Date     time.Time
	Author   string
	State    string
	Branches []revision.Revision
	Next     revision.Revision
	Log      string

	// Text is the full text for the head, a diff for other revisions.
	Text string

	// Extensions are unknown phrases of the delta record, TextExtensions
	// those of the deltatext record.
	Extensions     []Phrase
	TextExtensions []Phrase

	prev revision.Revision
	seq  int
}

// Prev is the revision this delta's text is a diff against: the newer trunk
// revision on the trunk, the previous revision or the branch point on
// branches. It is zero for the head.
func (d *Delta) Prev() revision.Revision {
	return d.prev
}

// Dead tells if this revision records a removal.
func (d *Delta) Dead() bool {
	return d.State == StateDead
}

// admin phrase keys
const (
	keyHead    = "head"
	keyBranch  = "branch"
	keyAccess  = "access"
	keySymbols = "symbols"
	keyLocks   = "locks"
	keyStrict  = "strict"
	keyComment = "comment"
	keyExpand  = "expand"
)

// layoutEntry remembers the order of admin phrases as read. ext indexes
// File.Extensions for unknown keys, and is -1 otherwise.
type layoutEntry struct {
	key string
	ext int
}

// File is the revision graph of a tracked file.
type File struct {
	Head    revision.Revision
	Branch  revision.Revision // default branch
	Access  []string
	Symbols []Symbol
	Locks   []Lock
	Strict  bool
	Comment string
	Expand  string
	Desc    string

	// Extensions are admin phrases with unknown keys.
	Extensions []Phrase

	layout []layoutEntry
	deltas map[revision.Revision]*Delta
	seq    int
}

// New builds an empty file.
func New() *File {
	return &File{
		deltas: make(map[revision.Revision]*Delta),
	}
}

// Len is the number of revisions.
func (f *File) Len() int {
	return len(f.deltas)
}

// Delta returns the delta of a revision.
func (f *File) Delta(rev revision.Revision) (*Delta, bool) {
	d, ok := f.deltas[rev]
	return d, ok
}

// Revisions lists all revisions, in ascending order.
func (f *File) Revisions() []revision.Revision {
	revs := make([]revision.Revision, 0, len(f.deltas))
	for rev := range f.deltas {
		revs = append(revs, rev)
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].Less(revs[j]) })
	return revs
}

// Walk visits deltas from the head: each revision, then the older trunk or
// newer branch revisions, then the branches sprouting from it. Walk stops
// at the first error.
func (f *File) Walk(fn func(*Delta) error) error {
	return f.walk(false, fn)
}

// walk visits the graph in preorder. When bySeq is set, the children of a
// delta are ordered by the sequence their deltatext was read or created in.
func (f *File) walk(bySeq bool, fn func(*Delta) error) error {
	if f.Head.IsZero() {
		return nil
	}
	stack := []revision.Revision{f.Head}
	for len(stack) > 0 {
		rev := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d, ok := f.deltas[rev]
		if !ok {
			return status.ErrRevisionNotExist.WrapMessage("%s", rev)
		}
		if err := fn(d); err != nil {
			return err
		}

		children := make([]*Delta, 0, len(d.Branches)+1)
		if !d.Next.IsZero() {
			if n, ok := f.deltas[d.Next]; ok {
				children = append(children, n)
			}
		}
		for _, b := range d.Branches {
			if n, ok := f.deltas[b]; ok {
				children = append(children, n)
			}
		}
		if bySeq {
			sort.SliceStable(children, func(i, j int) bool { return children[i].seq < children[j].seq })
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i].Rev)
		}
	}
	return nil
}

// Lookup resolves a symbolic name.
func (f *File) Lookup(name string) (revision.Revision, bool) {
	for _, sym := range f.Symbols {
		if sym.Name == name {
			return sym.Rev, true
		}
	}
	return revision.Revision{}, false
}

// Resolve interprets a revision number or a symbolic name.
func (f *File) Resolve(name string) (revision.Revision, error) {
	if rev, ok := f.Lookup(name); ok {
		return rev, nil
	}
	rev, err := revision.Parse(name)
	if err != nil {
		return revision.Revision{}, status.ErrRevisionNotExist.WrapMessage("no symbol or revision %q", name)
	}
	return rev, nil
}

// AddSymbol binds name to rev, replacing any previous binding. Branch
// symbols other than vendor branches are written in magic form.
func (f *File) AddSymbol(name string, rev revision.Revision) error {
	if !IsIdentifier(name) {
		return status.ErrInvalidWord.WrapMessage("symbol %q", name)
	}
	if err := f.checkSymbol(rev); err != nil {
		return err
	}
	sym := Symbol{Name: name, Rev: rev, Magic: rev.IsBranch() && !rev.IsVendorBranch()}
	for i := range f.Symbols {
		if f.Symbols[i].Name == name {
			f.Symbols[i] = sym
			return nil
		}
	}
	// newest first, as rcs does
	f.Symbols = append([]Symbol{sym}, f.Symbols...)
	return nil
}

// checkSymbol verifies a symbol target exists: the revision itself, or the
// branch point of a branch.
func (f *File) checkSymbol(rev revision.Revision) error {
	target := rev
	if rev.IsBranch() {
		if rev.Len() == 1 {
			return nil
		}
		origin, err := rev.Origin()
		if err != nil {
			return status.ErrRevisionNotExist.Wrap(err)
		}
		target = origin
	}
	if _, ok := f.deltas[target]; !ok {
		return status.ErrRevisionNotExist.WrapMessage("%s", rev)
	}
	return nil
}

func (f *File) nextSeq() int {
	f.seq++
	return f.seq
}
