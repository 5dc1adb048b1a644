// Copyright © 2018 One Concern

package rcs

import (
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
)

// Head is the newest revision of a line of development: the trunk, or a
// branch named by a symbol.
type Head struct {
	Tag    string            // empty for the trunk
	Branch revision.Revision // zero for the trunk
	Rev    revision.Revision // branch origin for a branch without revisions
	State  string

	file *File
}

// Heads maps branch symbols to their heads. The trunk head has key "".
func (f *File) Heads() map[string]*Head {
	heads := map[string]*Head{
		"": {Rev: f.Head, file: f},
	}
	if d, ok := f.deltas[f.Head]; ok {
		heads[""].State = d.State
	}

	for _, sym := range f.Symbols {
		if !sym.Rev.IsBranch() || sym.Rev.Len() == 1 {
			continue
		}
		if _, dup := heads[sym.Name]; dup {
			continue
		}
		tip, err := f.branchTip(sym.Rev)
		if err != nil {
			continue
		}
		if tip.IsZero() {
			tip, _ = sym.Rev.Origin()
		}
		h := &Head{Tag: sym.Name, Branch: sym.Rev, Rev: tip, file: f}
		if d, ok := f.deltas[tip]; ok {
			h.State = d.State
		}
		heads[sym.Name] = h
	}
	return heads
}

// NextRev is the revision a commit on this head creates.
func (h *Head) NextRev() revision.Revision {
	switch {
	case !h.Branch.IsZero():
		if origin, err := h.Branch.Origin(); err == nil && origin == h.Rev {
			return h.Branch.First()
		}
	case h.Rev.IsZero():
		return revision.MustParse("1.1")
	}
	return h.Rev.Next()
}

// Exists tells if the file is alive at this head.
func (h *Head) Exists() bool {
	return !h.Rev.IsZero() && h.State != StateDead
}

func (h *Head) commit(contents, log string, opts []CommitOption) (revision.Revision, error) {
	opts = append(opts, WithRevision(h.NextRev()))
	rev, err := h.file.Commit(contents, log, opts...)
	if err != nil {
		return revision.Revision{}, err
	}
	h.Rev = rev
	h.State = h.file.deltas[rev].State
	return rev, nil
}

// Checkin records a new version of an existing file.
func (h *Head) Checkin(contents, log string, opts ...CommitOption) (revision.Revision, error) {
	if !h.Exists() {
		return revision.Revision{}, status.ErrNotExist.WrapMessage("head %s", h.Rev)
	}
	return h.commit(contents, log, opts)
}

// Add records a new file, or revives a removed one.
func (h *Head) Add(contents, log string, opts ...CommitOption) (revision.Revision, error) {
	if h.Exists() {
		return revision.Revision{}, status.ErrAlreadyExist.WrapMessage("head %s", h.Rev)
	}
	return h.commit(contents, log, opts)
}

// Remove records the removal of the file, keeping its last contents.
func (h *Head) Remove(log string, opts ...CommitOption) (revision.Revision, error) {
	if !h.Exists() {
		return revision.Revision{}, status.ErrNotExist.WrapMessage("head %s", h.Rev)
	}
	contents, _, err := h.file.Checkout(h.Rev)
	if err != nil {
		return revision.Revision{}, err
	}
	return h.commit(contents, log, append(opts, WithState(StateDead)))
}

// Tip is the newest revision on branch br, or the branch origin when the
// branch has no revision yet. A top-level branch resolves to the head when
// the head is on it.
func (f *File) Tip(br revision.Revision) (revision.Revision, error) {
	if br.Len() == 1 {
		if f.Head.IsZero() || f.Head.Branch() != br {
			return revision.Revision{}, status.ErrRevisionNotExist.WrapMessage("branch %s", br)
		}
		return f.Head, nil
	}
	tip, err := f.branchTip(br)
	if err != nil {
		return revision.Revision{}, err
	}
	if tip.IsZero() {
		return br.Origin()
	}
	return tip, nil
}
