// Copyright © 2018 One Concern

package rcs

import (
	"testing"

	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeads(t *testing.T) {
	f := New()
	heads := f.Heads()
	require.Len(t, heads, 1)
	trunk := heads[""]
	assert.False(t, trunk.Exists())
	assert.Equal(t, "1.1", trunk.NextRev().String())

	_, err := trunk.Checkin("a\n", "log", WithAuthor("u"))
	assert.True(t, errors.Is(err, status.ErrNotExist))

	rev, err := trunk.Add("a\n", "initial", WithAuthor("u"))
	require.NoError(t, err)
	assert.Equal(t, "1.1", rev.String())
	assert.True(t, trunk.Exists())

	_, err = trunk.Add("a\n", "again", WithAuthor("u"))
	assert.True(t, errors.Is(err, status.ErrAlreadyExist))

	rev, err = trunk.Checkin("a\nb\n", "more", WithAuthor("u"))
	require.NoError(t, err)
	assert.Equal(t, "1.2", rev.String())

	require.NoError(t, f.AddSymbol("fix", revision.MustParse("1.1.2")))
	require.NoError(t, f.AddSymbol("release", revision.MustParse("1.1")))
	heads = f.Heads()
	require.Len(t, heads, 2)
	fix := heads["fix"]
	assert.Equal(t, "1.1", fix.Rev.String())
	assert.Equal(t, "1.1.2", fix.Branch.String())
	assert.Equal(t, "1.1.2.1", fix.NextRev().String())
	assert.True(t, fix.Exists())

	rev, err = fix.Checkin("a\nfix\n", "fix", WithAuthor("u"))
	require.NoError(t, err)
	assert.Equal(t, "1.1.2.1", rev.String())
	assert.Equal(t, "1.1.2.2", fix.NextRev().String())
	assert.Equal(t, "1.1.2.1", f.Heads()["fix"].Rev.String())

	rev, err = trunk.Remove("gone", WithAuthor("u"))
	require.NoError(t, err)
	assert.Equal(t, "1.3", rev.String())
	assert.False(t, trunk.Exists())
	assert.Equal(t, StateDead, f.Heads()[""].State)
	text, _, err := f.Checkout(rev)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", text)

	_, err = trunk.Remove("twice", WithAuthor("u"))
	assert.True(t, errors.Is(err, status.ErrNotExist))
	_, err = trunk.Checkin("c\n", "log", WithAuthor("u"))
	assert.True(t, errors.Is(err, status.ErrNotExist))

	rev, err = trunk.Add("c\n", "back", WithAuthor("u"))
	require.NoError(t, err)
	assert.Equal(t, "1.4", rev.String())
	assert.Equal(t, StateExp, trunk.State)

	g, err := Parse(f.Dump())
	require.NoError(t, err)
	assert.Equal(t, "1.1.2.1", g.Heads()["fix"].Rev.String())
	d, ok := g.Delta(revision.MustParse("1.3"))
	require.True(t, ok)
	assert.True(t, d.Dead())
}

func TestTip(t *testing.T) {
	f := New()
	_, err := f.Tip(revision.MustParse("1"))
	assert.True(t, errors.Is(err, status.ErrRevisionNotExist))

	for _, contents := range []string{"a\n", "b\n"} {
		_, err = f.Commit(contents, "log", WithAuthor("u"))
		require.NoError(t, err)
	}
	_, err = f.Commit("c\n", "fix", WithAuthor("u"), WithRevision(revision.MustParse("1.1.2")))
	require.NoError(t, err)

	tests := []struct {
		branch string
		tip    string
	}{
		{branch: "1", tip: "1.2"},
		{branch: "1.1.2", tip: "1.1.2.1"},
		{branch: "1.2.2", tip: "1.2"},
	}
	for _, toPin := range tests {
		tt := toPin
		t.Run(tt.branch, func(t *testing.T) {
			t.Parallel()
			tip, err := f.Tip(revision.MustParse(tt.branch))
			require.NoError(t, err)
			assert.Equal(t, tt.tip, tip.String())
		})
	}

	_, err = f.Tip(revision.MustParse("1.5.2"))
	assert.True(t, errors.Is(err, status.ErrNoPredecessor))
}
