// Copyright © 2018 One Concern

package rcs

import (
	"fmt"

	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
)

func linkError(err *errors.Error, format string, args ...interface{}) error {
	return &FormatError{Offset: -1, Msg: fmt.Sprintf(format, args...), err: err}
}

// link sets the prev pointers and checks the graph is a tree rooted at the
// head, with every reference resolved.
func (f *File) link() error {
	for _, rev := range f.Revisions() {
		d := f.deltas[rev]
		children := d.Branches
		if !d.Next.IsZero() {
			children = append([]revision.Revision{d.Next}, children...)
		}
		for _, c := range children {
			child, ok := f.deltas[c]
			if !ok {
				return linkError(status.ErrDanglingRevision, "revision %s refers to %s", rev, c)
			}
			if !child.prev.IsZero() {
				return linkError(status.ErrFormat, "revision %s is referred to by both %s and %s", c, child.prev, rev)
			}
			child.prev = rev
		}
	}

	if f.Head.IsZero() {
		if len(f.deltas) > 0 {
			return linkError(status.ErrUnreachable, "no head")
		}
	} else {
		head, ok := f.deltas[f.Head]
		if !ok {
			return linkError(status.ErrDanglingRevision, "head %s", f.Head)
		}
		if !head.prev.IsZero() {
			return linkError(status.ErrFormat, "head %s follows %s", f.Head, head.prev)
		}
	}

	reached := make(map[revision.Revision]bool, len(f.deltas))
	_ = f.Walk(func(d *Delta) error {
		reached[d.Rev] = true
		return nil
	})
	if len(reached) != len(f.deltas) {
		for _, rev := range f.Revisions() {
			if !reached[rev] {
				return linkError(status.ErrUnreachable, "revision %s", rev)
			}
		}
	}

	for _, sym := range f.Symbols {
		if err := f.checkSymbol(sym.Rev); err != nil {
			return linkError(status.ErrDanglingRevision, "symbol %s:%s", sym.Name, sym.Rev)
		}
	}
	for _, lock := range f.Locks {
		if _, ok := f.deltas[lock.Rev]; !ok {
			return linkError(status.ErrDanglingRevision, "lock %s:%s", lock.User, lock.Rev)
		}
	}
	if !f.Branch.IsZero() {
		if err := f.checkSymbol(f.Branch); err != nil {
			return linkError(status.ErrDanglingRevision, "default branch %s", f.Branch)
		}
	}
	return nil
}
