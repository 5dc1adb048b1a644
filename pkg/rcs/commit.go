// Copyright © 2018 One Concern

package rcs

import (
	"os/user"
	"time"

	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/oneconcern/reviz/pkg/text"
)

// EmptyLog replaces empty log messages.
const EmptyLog = "*** empty log message ***"

// CommitOption tunes Commit
type CommitOption func(*commitOptions)

type commitOptions struct {
	author   string
	date     time.Time
	state    string
	rev      revision.Revision
	resolver func() (string, error)
	alg      diff.Algorithm
}

func defaultCommitOptions() *commitOptions {
	return &commitOptions{
		state:    StateExp,
		resolver: DefaultAuthor,
		alg:      diff.Default,
	}
}

// WithAuthor sets the author of the new revision
func WithAuthor(author string) CommitOption {
	return func(o *commitOptions) {
		o.author = author
	}
}

// WithDate sets the date of the new revision. It is stored in UTC, to the second.
func WithDate(date time.Time) CommitOption {
	return func(o *commitOptions) {
		o.date = date
	}
}

// WithState sets the state of the new revision. Defaults to Exp.
func WithState(state string) CommitOption {
	return func(o *commitOptions) {
		if state != "" {
			o.state = state
		}
	}
}

// WithRevision sets the new revision number. A branch number stands for the
// next revision on that branch.
func WithRevision(rev revision.Revision) CommitOption {
	return func(o *commitOptions) {
		o.rev = rev
	}
}

// WithAuthorResolver sets the function called when no author is given.
func WithAuthorResolver(resolver func() (string, error)) CommitOption {
	return func(o *commitOptions) {
		if resolver != nil {
			o.resolver = resolver
		}
	}
}

// WithAlgorithm sets the diff algorithm computing the stored deltas.
func WithAlgorithm(alg diff.Algorithm) CommitOption {
	return func(o *commitOptions) {
		if alg != nil {
			o.alg = alg
		}
	}
}

// DefaultAuthor is the login name of the current user.
func DefaultAuthor() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// Commit records contents as a new revision.
//
// Without WithRevision, the new revision follows the head, or is 1.1 for an
// empty file. A new trunk head stores the full text, and the previous head
// is rewritten as a reverse diff. A branch revision stores a forward diff
// from its predecessor.
func (f *File) Commit(contents, log string, opts ...CommitOption) (revision.Revision, error) {
	o := defaultCommitOptions()
	for _, apply := range opts {
		apply(o)
	}

	if o.author == "" {
		author, err := o.resolver()
		if err != nil {
			return revision.Revision{}, status.ErrInvalidWord.WrapMessage("cannot resolve author").Wrap(err)
		}
		o.author = author
	}
	if !IsIdentifier(o.author) {
		return revision.Revision{}, status.ErrInvalidWord.WrapMessage("author %q", o.author)
	}
	if !IsIdentifier(o.state) {
		return revision.Revision{}, status.ErrInvalidWord.WrapMessage("state %q", o.state)
	}
	if o.date.IsZero() {
		o.date = time.Now()
	}
	if log == "" {
		log = EmptyLog
	}

	rev, err := f.target(o.rev)
	if err != nil {
		return revision.Revision{}, err
	}
	if _, exists := f.deltas[rev]; exists {
		return revision.Revision{}, status.ErrNotGreater.WrapMessage("revision %s already exists", rev)
	}

	d := &Delta{
		Rev:    rev,
		Date:   o.date.UTC().Truncate(time.Second),
		Author: o.author,
		State:  o.state,
		Log:    log,
	}
	if rev.OnTrunk() {
		err = f.commitTrunk(d, contents, o.alg)
	} else {
		err = f.commitBranch(d, contents, o.alg)
	}
	if err != nil {
		return revision.Revision{}, err
	}

	d.seq = f.nextSeq()
	f.deltas[rev] = d
	return rev, nil
}

// target resolves the revision to create.
func (f *File) target(rev revision.Revision) (revision.Revision, error) {
	switch {
	case rev.IsZero():
		if f.Head.IsZero() {
			return revision.MustParse("1.1"), nil
		}
		return f.Head.Next(), nil

	case rev.IsBranch():
		if rev.Len() == 1 {
			if f.Head.Branch() == rev {
				return f.Head.Next(), nil
			}
			return rev.First(), nil
		}
		tip, err := f.branchTip(rev)
		if err != nil {
			return revision.Revision{}, err
		}
		if tip.IsZero() {
			return rev.First(), nil
		}
		return tip.Next(), nil
	}
	return rev, nil
}

// branchTip is the newest revision on a branch, or zero when the branch has
// no revision yet.
func (f *File) branchTip(br revision.Revision) (revision.Revision, error) {
	origin, err := br.Origin()
	if err != nil {
		return revision.Revision{}, status.ErrNoPredecessor.Wrap(err)
	}
	od, ok := f.deltas[origin]
	if !ok {
		return revision.Revision{}, status.ErrNoPredecessor.WrapMessage("%s", origin)
	}

	var tip revision.Revision
	for _, b := range od.Branches {
		if b.On(br) {
			tip = b
		}
	}
	for !tip.IsZero() {
		d, ok := f.deltas[tip]
		if !ok || d.Next.IsZero() {
			break
		}
		tip = d.Next
	}
	return tip, nil
}

func (f *File) commitTrunk(d *Delta, contents string, alg diff.Algorithm) error {
	if !f.Head.IsZero() {
		if !f.Head.OnTrunk() {
			return status.ErrNotOnBranch.WrapMessage("head %s is not on the trunk", f.Head)
		}
		if revision.Compare(d.Rev, f.Head) <= 0 {
			return status.ErrNotGreater.WrapMessage("%s after head %s", d.Rev, f.Head)
		}
		old := f.deltas[f.Head]
		s := diff.Compute(text.Split(contents), text.Split(old.Text), alg)
		old.Text = diff.RCSDiff(s)
		old.prev = d.Rev
		d.Next = f.Head
	}
	d.Text = contents
	f.Head = d.Rev
	return nil
}

func (f *File) commitBranch(d *Delta, contents string, alg diff.Algorithm) error {
	br := d.Rev.Branch()
	if nums := d.Rev.Ints(); nums[len(nums)-1] < 1 {
		return status.ErrNotGreater.WrapMessage("%s", d.Rev)
	}
	tip, err := f.branchTip(br)
	if err != nil {
		return err
	}

	pred := tip
	if tip.IsZero() {
		pred, _ = br.Origin()
	} else if revision.Compare(d.Rev, tip) <= 0 {
		return status.ErrNotGreater.WrapMessage("%s after %s", d.Rev, tip)
	}
	if !tip.IsZero() && !tip.On(br) {
		return status.ErrNotOnBranch.WrapMessage("%s is not on %s", tip, br)
	}

	lines, _, err := f.checkoutLines(pred)
	if err != nil {
		return err
	}
	d.Text = diff.RCSDiff(diff.Compute(lines, text.Split(contents), alg))
	d.prev = pred

	if tip.IsZero() {
		od := f.deltas[pred]
		od.Branches = append(od.Branches, d.Rev)
	} else {
		f.deltas[tip].Next = d.Rev
	}
	return nil
}
