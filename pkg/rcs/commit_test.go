// Copyright © 2018 One Concern

package rcs

import (
	"fmt"
	"testing"
	"time"

	"github.com/oneconcern/reviz/internal/rand"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func mustCommit(t testing.TB, f *File, contents string, opts ...CommitOption) revision.Revision {
	rev, err := f.Commit(contents, "log", opts...)
	require.NoError(t, err)
	return rev
}

func checkout(t testing.TB, f *File, rev string) string {
	text, _, err := f.Checkout(revision.MustParse(rev))
	require.NoError(t, err)
	return text
}

func TestCommitTrunk(t *testing.T) {
	f := New()
	r11 := mustCommit(t, f, "a\n", WithAuthor("u1"), WithDate(at(1)), WithState("Exp"), WithRevision(revision.MustParse("1.1")))
	r12 := mustCommit(t, f, "a\nb\n", WithAuthor("u2"), WithDate(at(2)), WithRevision(revision.MustParse("1.2")))

	assert.Equal(t, "1.1", r11.String())
	assert.Equal(t, "1.2", r12.String())
	assert.Equal(t, r12, f.Head)

	text, date, err := f.Checkout(r11)
	require.NoError(t, err)
	assert.Equal(t, "a\n", text)
	assert.Equal(t, at(1), date)
	assert.Equal(t, "a\nb\n", checkout(t, f, "1.2"))

	d, _ := f.Delta(r11)
	assert.Equal(t, "d2 1\n", d.Text)
	assert.Equal(t, r12, d.Prev())
	d, _ = f.Delta(r12)
	assert.Equal(t, "a\nb\n", d.Text)
	assert.Equal(t, r11, d.Next)

	_, _, err = f.Checkout(revision.MustParse("1.7"))
	assert.True(t, errors.Is(err, status.ErrRevisionNotExist))
}

func TestCommitDumpGolden(t *testing.T) {
	f := New()
	_, err := f.Commit("a\n", "first", WithAuthor("u1"), WithDate(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	_, err = f.Commit("a\nb\n", "second", WithAuthor("u2"), WithDate(time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	expected := "head\t1.2;\naccess;\nsymbols;\nlocks;\n" +
		"\n1.2\ndate\t2020.01.03.00.00.00;\tauthor u2;\tstate Exp;\nbranches;\nnext\t1.1;\n" +
		"\n1.1\ndate\t2020.01.02.03.04.05;\tauthor u1;\tstate Exp;\nbranches;\nnext\t;\n" +
		"\n\ndesc\n@@\n" +
		"\n\n1.2\nlog\n@second@\ntext\n@a\nb\n@\n" +
		"\n\n1.1\nlog\n@first@\ntext\n@d2 1\n@\n"
	assert.Equal(t, expected, string(f.Dump()))
}

func TestCommitBranch(t *testing.T) {
	f := New()
	mustCommit(t, f, "a\n", WithAuthor("u"))
	mustCommit(t, f, "a\nb\n", WithAuthor("u"))
	mustCommit(t, f, "a\nb\nc\n", WithAuthor("u"))

	br := revision.MustParse("1.1.2")
	r1 := mustCommit(t, f, "x\na\n", WithAuthor("u"), WithRevision(br))
	assert.Equal(t, "1.1.2.1", r1.String())
	r2 := mustCommit(t, f, "x\na\ny\n", WithAuthor("u"), WithRevision(br))
	assert.Equal(t, "1.1.2.2", r2.String())

	assert.Equal(t, "x\na\n", checkout(t, f, "1.1.2.1"))
	assert.Equal(t, "x\na\ny\n", checkout(t, f, "1.1.2.2"))
	assert.Equal(t, "a\n", checkout(t, f, "1.1"))
	assert.Equal(t, "a\nb\n", checkout(t, f, "1.2"))
	assert.Equal(t, "a\nb\nc\n", checkout(t, f, "1.3"))

	d, _ := f.Delta(revision.MustParse("1.1"))
	assert.Equal(t, []revision.Revision{r1}, d.Branches)
	d, _ = f.Delta(r1)
	assert.Equal(t, r2, d.Next)
	assert.Equal(t, "a0 1\nx\n", d.Text)

	// a second branch at the same point
	r3 := mustCommit(t, f, "z\n", WithAuthor("u"), WithRevision(revision.MustParse("1.1.4.1")))
	assert.Equal(t, "z\n", checkout(t, f, r3.String()))
	d, _ = f.Delta(revision.MustParse("1.1"))
	assert.Equal(t, []revision.Revision{r1, r3}, d.Branches)

	// a branch of a branch
	r4 := mustCommit(t, f, "x\n", WithAuthor("u"), WithRevision(revision.MustParse("1.1.2.1.2")))
	assert.Equal(t, "1.1.2.1.2.1", r4.String())
	assert.Equal(t, "x\n", checkout(t, f, r4.String()))
}

func TestCommitErrors(t *testing.T) {
	f := New()
	mustCommit(t, f, "a\n", WithAuthor("u"))
	mustCommit(t, f, "b\n", WithAuthor("u"))

	tests := []struct {
		name     string
		opts     []CommitOption
		expected *errors.Error
	}{
		{name: "older trunk", opts: []CommitOption{WithAuthor("u"), WithRevision(revision.MustParse("1.1"))}, expected: status.ErrNotGreater},
		{name: "same trunk", opts: []CommitOption{WithAuthor("u"), WithRevision(revision.MustParse("1.2"))}, expected: status.ErrNotGreater},
		{name: "missing origin", opts: []CommitOption{WithAuthor("u"), WithRevision(revision.MustParse("1.9.2.1"))}, expected: status.ErrNoPredecessor},
		{name: "missing origin branch", opts: []CommitOption{WithAuthor("u"), WithRevision(revision.MustParse("1.9.2"))}, expected: status.ErrNoPredecessor},
		{name: "zero branch revision", opts: []CommitOption{WithAuthor("u"), WithRevision(revision.MustParse("1.1.2.0"))}, expected: status.ErrNotGreater},
		{name: "bad author", opts: []CommitOption{WithAuthor("john doe")}, expected: status.ErrInvalidWord},
		{name: "numeric author", opts: []CommitOption{WithAuthor("1.2")}, expected: status.ErrInvalidWord},
		{name: "bad state", opts: []CommitOption{WithAuthor("u"), WithState("in;progress")}, expected: status.ErrInvalidWord},
		{
			name: "resolver failure",
			opts: []CommitOption{WithAuthorResolver(func() (string, error) {
				return "", fmt.Errorf("no user")
			})},
			expected: status.ErrInvalidWord,
		},
	}

	for _, toPin := range tests {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Commit("c\n", "log", tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "unexpected error: %v", err)
		})
	}

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "b\n", checkout(t, f, "1.2"))

	// an older branch revision
	mustCommit(t, f, "c\n", WithAuthor("u"), WithRevision(revision.MustParse("1.1.2.3")))
	_, err := f.Commit("d\n", "log", WithAuthor("u"), WithRevision(revision.MustParse("1.1.2.2")))
	assert.True(t, errors.Is(err, status.ErrNotGreater))
	_, err = f.Commit("d\n", "log", WithAuthor("u"), WithRevision(revision.MustParse("1.1.2.3")))
	assert.True(t, errors.Is(err, status.ErrNotGreater))
}

func TestCommitDefaults(t *testing.T) {
	f := New()
	before := time.Now().UTC().Truncate(time.Second)
	rev, err := f.Commit("a\n", "", WithAuthorResolver(func() (string, error) { return "robot", nil }))
	require.NoError(t, err)

	d, ok := f.Delta(rev)
	require.True(t, ok)
	assert.Equal(t, "1.1", rev.String())
	assert.Equal(t, EmptyLog, d.Log)
	assert.Equal(t, "robot", d.Author)
	assert.Equal(t, StateExp, d.State)
	assert.False(t, d.Date.Before(before))
	assert.Equal(t, 0, d.Date.Nanosecond())

	rev, err = f.Commit("b\n", "log", WithAuthor("u"), WithRevision(revision.MustParse("2.1")))
	require.NoError(t, err)
	assert.Equal(t, "2.1", rev.String())
	rev, err = f.Commit("c\n", "log", WithAuthor("u"), WithRevision(revision.MustParse("2")))
	require.NoError(t, err)
	assert.Equal(t, "2.2", rev.String())
	assert.Equal(t, "a\n", checkout(t, f, "1.1"))
}

func TestRoundTripRandom(t *testing.T) {
	corpus := rand.NewCorpus(7, 30)
	algorithms := []diff.Algorithm{diff.ShortestPath, diff.Contours, diff.Speculative}

	f := New()
	texts := make(map[revision.Revision]string)
	lines := corpus.Lines(20)
	var branchTip revision.Revision
	for i := 0; i < 30; i++ {
		lines = corpus.Mutate(lines, 4)
		contents := joinLines(lines)
		opts := []CommitOption{WithAuthor("u"), WithDate(at(int64(i))), WithAlgorithm(algorithms[i%len(algorithms)])}
		if i%4 == 3 {
			target := revision.MustParse("1.2.2")
			if !branchTip.IsZero() && i%8 == 7 {
				// a branch sprouting from the newest branch revision
				target = revision.MustParse(branchTip.String() + ".2")
			}
			opts = append(opts, WithRevision(target))
		}
		rev, err := f.Commit(contents, fmt.Sprintf("change %d", i), opts...)
		require.NoError(t, err)
		if !rev.OnTrunk() {
			branchTip = rev
		}
		texts[rev] = contents
	}

	g, err := Parse(f.Dump())
	require.NoError(t, err)
	assert.Equal(t, f.Len(), g.Len())
	for rev, expected := range texts {
		assert.Equal(t, expected, checkout(t, f, rev.String()), rev.String())
		assert.Equal(t, expected, checkout(t, g, rev.String()), rev.String())
	}
	assert.Equal(t, string(f.Dump()), string(g.Dump()))
}

func joinLines(lines []string) string {
	var s string
	for _, l := range lines {
		s += l
	}
	return s
}
