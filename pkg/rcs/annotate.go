// Copyright © 2018 One Concern

package rcs

import (
	"time"

	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/oneconcern/reviz/pkg/text"
)

// Line is an annotated line of a revision.
//
// Rev is the revision introducing the line. RemovedRev is the last revision
// holding it and RemovedDate the date it went away. When Removed is false,
// the line is still present in RemovedRev, the newest revision visited.
type Line struct {
	Text        string
	Date        time.Time
	Rev         revision.Revision
	Author      string
	RemovedRev  revision.Revision
	RemovedDate time.Time
	Removed     bool
}

type aline struct {
	text    string
	rev1    revision.Revision
	date1   time.Time
	rev2    revision.Revision
	date2   time.Time
	removed bool
}

func snapshot(lines []*aline) []*aline {
	return append(make([]*aline, 0, len(lines)), lines...)
}

// Annotate calls fn for each line of revision target, in order.
//
// The history is followed down the trunk from the head, then up along
// branch if set. A branch revision target implies its own branch. Lines get
// the revision they appeared in and, when they go away later on that path,
// the revision they were removed after.
func (f *File) Annotate(target, branch revision.Revision, fn func(Line)) error {
	if _, ok := f.deltas[target]; !ok {
		return status.ErrRevisionNotExist.WrapMessage("%s", target)
	}
	if target.IsBranch() {
		return status.ErrAnnotateTarget.WrapMessage("%s is a branch", target)
	}
	if branch.IsZero() && !target.OnTrunk() {
		branch = target.Branch()
	}
	if !branch.IsZero() && !branch.IsBranch() {
		return status.ErrAnnotateTarget.WrapMessage("%s is not a branch", branch)
	}

	// branch points and branches from the trunk up to branch, innermost first
	var path []revision.Revision
	trunkRev := target
	if !branch.IsZero() {
		path = append(path, branch)
		r, err := branch.Origin()
		if err != nil {
			return status.ErrAnnotateTarget.Wrap(err)
		}
		for !r.OnTrunk() {
			path = append(path, r)
			r = r.Branch()
			path = append(path, r)
			if r, err = r.Origin(); err != nil {
				return status.ErrAnnotateTarget.Wrap(err)
			}
		}
		trunkRev = r
	}

	var (
		branchText, targetText []*aline
		haveBranch, haveTarget bool
		err                    error
	)
	minrev, maxrev := f.Head, f.Head
	r0 := f.Head
	d := f.deltas[r0]
	trunk := make([]*aline, 0)
	for _, line := range text.Split(d.Text) {
		trunk = append(trunk, &aline{text: line})
	}
	if r0 == trunkRev {
		branchText, haveBranch = snapshot(trunk), true
	}
	if r0 == target {
		targetText, haveTarget = snapshot(trunk), true
	}

	for !d.Next.IsZero() {
		r := d.Next
		newer := d
		d = f.deltas[r]
		minrev = r
		trunk, err = text.Patch(trunk, d.Text,
			func(line string) *aline {
				// present until r, removed by r0
				l := &aline{text: line}
				var removed bool
				if branch.IsZero() {
					removed = revision.Compare(target, r) <= 0
				} else {
					removed = target.OnTrunk() && revision.Compare(target, r) <= 0 && revision.Compare(r0, trunkRev) <= 0
				}
				if removed {
					l.rev2, l.date2, l.removed = r, newer.Date, true
				}
				return l
			},
			func(l *aline) {
				// added by r0
				if l == nil {
					return
				}
				var added bool
				switch {
				case branch.IsZero():
					added = r.Less(target)
				case target.OnTrunk():
					added = r.Less(target)
				default:
					added = r.Less(trunkRev)
				}
				if added {
					l.rev1, l.date1 = r0, newer.Date
				}
			})
		if err != nil {
			return status.ErrFormat.WrapMessage("revision %s", r).Wrap(err)
		}
		if r == trunkRev {
			branchText, haveBranch = snapshot(trunk), true
		}
		if r == target {
			targetText, haveTarget = snapshot(trunk), true
		}
		r0 = r
	}

	if haveBranch && len(path) > 0 {
		r0 := trunkRev
		br := path[len(path)-1]
		path = path[:len(path)-1]
		r := f.sprout(r0, br)
		for !r.IsZero() {
			maxrev = r
			d, ok := f.deltas[r]
			if !ok {
				return status.ErrRevisionNotExist.WrapMessage("%s", r)
			}
			branchText, err = text.Patch(branchText, d.Text,
				func(line string) *aline {
					// added by r
					if target.Less(r) {
						return nil
					}
					return &aline{text: line, rev1: r, date1: d.Date}
				},
				func(l *aline) {
					// present until r0, removed by r
					if l != nil && revision.Compare(target, r0) <= 0 {
						l.rev2, l.date2, l.removed = r0, d.Date, true
					}
				})
			if err != nil {
				return status.ErrFormat.WrapMessage("revision %s", r).Wrap(err)
			}
			if r == target {
				targetText, haveTarget = snapshot(branchText), true
			}

			r0, r = r, revision.Revision{}
			if len(path) > 0 && r0 == path[len(path)-1] {
				br = path[len(path)-2]
				path = path[:len(path)-2]
				r = f.sprout(r0, br)
			} else {
				r = d.Next
			}
		}
	}

	if !haveTarget {
		return status.ErrAnnotateTarget.WrapMessage("%s not found on branch %q", target, branch)
	}

	for _, l := range targetText {
		if l == nil {
			continue
		}
		if l.rev1.IsZero() {
			l.rev1, l.date1 = minrev, f.deltas[minrev].Date
		}
		line := Line{
			Text:        l.text,
			Date:        l.date1,
			Rev:         l.rev1,
			RemovedRev:  l.rev2,
			RemovedDate: l.date2,
			Removed:     l.removed,
		}
		if line.RemovedRev.IsZero() {
			line.RemovedRev = maxrev
		}
		if a, ok := f.deltas[l.rev1]; ok {
			line.Author = a.Author
		}
		fn(line)
	}
	return nil
}

// AnnotateLines is Annotate collecting the lines.
func (f *File) AnnotateLines(target, branch revision.Revision) ([]Line, error) {
	var lines []Line
	err := f.Annotate(target, branch, func(l Line) {
		lines = append(lines, l)
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// sprout finds the first revision of branch br growing from rev.
func (f *File) sprout(rev, br revision.Revision) revision.Revision {
	var first revision.Revision
	if d, ok := f.deltas[rev]; ok {
		for _, b := range d.Branches {
			if b.On(br) {
				first = b
			}
		}
	}
	return first
}
