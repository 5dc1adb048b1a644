// Copyright © 2018 One Concern

package rcs

import (
	"time"

	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/oneconcern/reviz/pkg/text"
)

// chain lists the deltas from the head down to rev, following prev links
// backward and returning them in replay order.
func (f *File) chain(rev revision.Revision) ([]*Delta, error) {
	var deltas []*Delta
	for r := rev; !r.IsZero(); {
		d, ok := f.deltas[r]
		if !ok {
			return nil, status.ErrRevisionNotExist.WrapMessage("%s", r)
		}
		deltas = append(deltas, d)
		r = d.prev
		if len(deltas) > len(f.deltas) {
			return nil, status.ErrUnreachable.WrapMessage("cycle through %s", rev)
		}
	}
	for i, j := 0, len(deltas)-1; i < j; i, j = i+1, j-1 {
		deltas[i], deltas[j] = deltas[j], deltas[i]
	}
	return deltas, nil
}

// Checkout rebuilds the text of a revision, and returns it with the date of
// the revision.
func (f *File) Checkout(rev revision.Revision) (string, time.Time, error) {
	lines, d, err := f.checkoutLines(rev)
	if err != nil {
		return "", time.Time{}, err
	}
	return text.Join(lines), d.Date, nil
}

func (f *File) checkoutLines(rev revision.Revision) ([]string, *Delta, error) {
	d, ok := f.deltas[rev]
	if !ok {
		return nil, nil, status.ErrRevisionNotExist.WrapMessage("%s", rev)
	}
	deltas, err := f.chain(rev)
	if err != nil {
		return nil, nil, err
	}

	lines := text.Split(deltas[0].Text)
	for _, c := range deltas[1:] {
		lines, err = text.Apply(lines, c.Text)
		if err != nil {
			return nil, nil, status.ErrFormat.WrapMessage("revision %s", c.Rev).Wrap(err)
		}
	}
	return lines, d, nil
}
