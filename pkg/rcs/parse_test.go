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

// sample is written exactly as Dump writes it.
const sample = "head\t1.3;\n" +
	"access;\n" +
	"symbols\n\trelease:1.2\n\tfix:1.2.0.2;\n" +
	"locks; strict;\n" +
	"comment\t@# @;\n" +
	"owner\talice @x@@y@;\n" +
	"\n1.3\ndate\t2004.05.06.07.08.09;\tauthor bob;\tstate Exp;\nbranches;\nnext\t1.2;\n" +
	"\n1.2\ndate\t99.01.02.03.04.05;\tauthor alice;\tstate Exp;\nbranches\n\t1.2.2.1;\nnext\t1.1;\n" +
	"\n1.1\ndate\t98.12.31.23.59.59;\tauthor alice;\tstate Exp;\nbranches;\nnext\t;\ncommitid\tabc123;\n" +
	"\n1.2.2.1\ndate\t2005.01.01.00.00.00;\tauthor carol;\tstate Exp;\nbranches;\nnext\t;\n" +
	"\n\ndesc\n@a file@\n" +
	"\n\n1.3\nlog\n@third@\ntext\n@one\ntwo\nthree\n@\n" +
	"\n\n1.2\nlog\n@second@\ntext\n@d3 1\n@\n" +
	"\n\n1.1\nlog\n@first@\ntext\n@d2 1\na2 1\ndeux\n@\n" +
	"\n\n1.2.2.1\nlog\n@fix@@home@\ntext\n@a2 1\nfixed\n@\n"

func TestParseSample(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, revision.MustParse("1.3"), f.Head)
	assert.True(t, f.Strict)
	assert.Equal(t, "# ", f.Comment)
	assert.Equal(t, "a file", f.Desc)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []Symbol{
		{Name: "release", Rev: revision.MustParse("1.2")},
		{Name: "fix", Rev: revision.MustParse("1.2.2"), Magic: true},
	}, f.Symbols)
	assert.Equal(t, []Phrase{
		{Key: "owner", Words: []Word{{Kind: ID, Text: "alice"}, {Kind: String, Text: "x@y"}}},
	}, f.Extensions)

	d, ok := f.Delta(revision.MustParse("1.1"))
	require.True(t, ok)
	assert.Equal(t, "alice", d.Author)
	assert.Equal(t, 1998, d.Date.Year())
	assert.Equal(t, revision.MustParse("1.2"), d.Prev())
	assert.Equal(t, []Phrase{{Key: "commitid", Words: []Word{{Kind: ID, Text: "abc123"}}}}, d.Extensions)

	d, ok = f.Delta(revision.MustParse("1.2.2.1"))
	require.True(t, ok)
	assert.Equal(t, "fix@home", d.Log)
	assert.Equal(t, revision.MustParse("1.2"), d.Prev())

	rev, ok := f.Lookup("fix")
	require.True(t, ok)
	assert.Equal(t, revision.MustParse("1.2.2"), rev)

	for _, tc := range []struct {
		rev, text string
	}{
		{rev: "1.3", text: "one\ntwo\nthree\n"},
		{rev: "1.2", text: "one\ntwo\n"},
		{rev: "1.1", text: "one\ndeux\n"},
		{rev: "1.2.2.1", text: "one\ntwo\nfixed\n"},
	} {
		text, _, err := f.Checkout(revision.MustParse(tc.rev))
		require.NoError(t, err)
		assert.Equal(t, tc.text, text, tc.rev)
	}
}

func TestDumpSample(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, string(f.Dump()))
}

func TestWalk(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	var revs []string
	require.NoError(t, f.Walk(func(d *Delta) error {
		revs = append(revs, d.Rev.String())
		return nil
	}))
	assert.Equal(t, []string{"1.3", "1.2", "1.1", "1.2.2.1"}, revs)

	stop := errors.New("stop")
	var visited int
	err = f.Walk(func(*Delta) error {
		visited++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, visited)
}

func TestParseErrors(t *testing.T) {
	const admin = "head\t1.1;\naccess;\nsymbols;\nlocks;\n"
	const delta11 = "\n1.1\ndate\t2020.01.01.00.00.00;\tauthor a;\tstate Exp;\nbranches;\nnext\t;\n"
	const desc = "\n\ndesc\n@@\n"
	const text11 = "\n\n1.1\nlog\n@@\ntext\n@x\n@\n"

	tests := []struct {
		name     string
		input    string
		expected *errors.Error
		position string
	}{
		{name: "missing desc", input: "head;\naccess;\nsymbols;\nlocks;\n", expected: status.ErrMissingDesc, position: "line 5, column 1"},
		{name: "bad character", input: "head\t1.1$;\n", expected: status.ErrFormat, position: "line 1, column 9"},
		{name: "unterminated string", input: admin + delta11 + "\n\ndesc\n@oops\n", expected: status.ErrFormat},
		{name: "missing semicolon", input: "head\t1.1", expected: status.ErrFormat},
		{name: "bad date", input: admin + "\n1.1\ndate\t2020.13.01.00.00.00;\tauthor a;\n" + desc, expected: status.ErrBadDate},
		{name: "missing author", input: admin + "\n1.1\ndate\t2020.01.01.00.00.00;\n" + desc, expected: status.ErrFormat},
		{name: "branch as head", input: "head\t1.1.2;\n" + desc, expected: status.ErrBadRevision},
		{name: "duplicate phrase", input: "head;\nhead;\n" + desc, expected: status.ErrDuplicate},
		{name: "duplicate revision", input: admin + delta11 + delta11 + desc + text11, expected: status.ErrDuplicate},
		{name: "missing deltatext", input: admin + delta11 + desc, expected: status.ErrMissingDeltaText},
		{name: "unknown deltatext", input: admin + delta11 + desc + text11 + "\n\n1.2\nlog\n@@\ntext\n@@\n", expected: status.ErrDanglingRevision},
		{
			name:     "dangling next",
			input:    admin + "\n1.1\ndate\t2020.01.01.00.00.00;\tauthor a;\tstate Exp;\nbranches;\nnext\t1.0;\n" + desc + text11,
			expected: status.ErrDanglingRevision,
		},
		{
			name: "unreachable",
			input: admin + delta11 + "\n1.5\ndate\t2020.01.01.00.00.00;\tauthor a;\tstate Exp;\nbranches;\nnext\t;\n" +
				desc + text11 + "\n\n1.5\nlog\n@@\ntext\n@@\n",
			expected: status.ErrUnreachable,
		},
		{name: "dangling symbol", input: "head\t1.1;\naccess;\nsymbols\n\tx:1.4;\nlocks;\n" + delta11 + desc + text11, expected: status.ErrDanglingRevision},
		{name: "dangling lock", input: "head\t1.1;\naccess;\nsymbols;\nlocks\n\tbob:1.4;\n" + delta11 + desc + text11, expected: status.ErrDanglingRevision},
	}

	for _, toPin := range tests {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, tt.expected), "unexpected error: %v", err)
			assert.True(t, errors.Is(err, status.ErrFormat))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			if tt.position != "" {
				assert.Contains(t, err.Error(), tt.position)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse([]byte("head;\naccess;\nsymbols;\nlocks; strict;\n\n\ndesc\n@@\n"))
	require.NoError(t, err)
	assert.True(t, f.Head.IsZero())
	assert.Equal(t, 0, f.Len())

	g, err := Parse(f.Dump())
	require.NoError(t, err)
	assert.True(t, g.Strict)
}

func TestResolve(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	rev, err := f.Resolve("release")
	require.NoError(t, err)
	assert.Equal(t, "1.2", rev.String())

	rev, err = f.Resolve("1.2.2.1")
	require.NoError(t, err)
	assert.Equal(t, "1.2.2.1", rev.String())

	_, err = f.Resolve("nope")
	assert.True(t, errors.Is(err, status.ErrRevisionNotExist))
}

func TestAddSymbol(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NoError(t, f.AddSymbol("vendor", revision.MustParse("1.1.1")))
	require.NoError(t, f.AddSymbol("dev", revision.MustParse("1.3.2")))
	require.NoError(t, f.AddSymbol("release", revision.MustParse("1.3")))
	assert.True(t, errors.Is(f.AddSymbol("bad name", revision.MustParse("1.3")), status.ErrInvalidWord))
	assert.True(t, errors.Is(f.AddSymbol("ghost", revision.MustParse("1.9")), status.ErrRevisionNotExist))
	assert.True(t, errors.Is(f.AddSymbol("ghost", revision.MustParse("1.9.2")), status.ErrRevisionNotExist))

	g, err := Parse(f.Dump())
	require.NoError(t, err)
	assert.Equal(t, []Symbol{
		{Name: "dev", Rev: revision.MustParse("1.3.2"), Magic: true},
		{Name: "vendor", Rev: revision.MustParse("1.1.1")},
		{Name: "release", Rev: revision.MustParse("1.3")},
		{Name: "fix", Rev: revision.MustParse("1.2.2"), Magic: true},
	}, g.Symbols)
	assert.Contains(t, string(f.Dump()), "dev:1.3.0.2")
	assert.Contains(t, string(f.Dump()), "vendor:1.1.1\n")
}
