// Copyright © 2018 One Concern

package rcs

import (
	"bytes"
	"io"
	"strings"

	"github.com/oneconcern/reviz/pkg/revision"
)

// defaultLayout is the order of admin phrases for files not read from disk.
var defaultLayout = []string{keyHead, keyBranch, keyAccess, keySymbols, keyLocks, keyStrict, keyComment, keyExpand}

// Dump renders the file in delta chain syntax. Parse(f.Dump()) yields an
// equivalent file.
func (f *File) Dump() []byte {
	var buf bytes.Buffer
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the delta chain syntax of the file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	f.writeAdmin(&b)

	_ = f.Walk(func(d *Delta) error {
		writeDelta(&b, d)
		return nil
	})

	b.WriteString("\n\ndesc\n")
	writeString(&b, f.Desc)
	b.WriteString("\n")

	_ = f.walk(true, func(d *Delta) error {
		writeDeltaText(&b, d)
		return nil
	})

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func quote(s string) string {
	return "@" + strings.ReplaceAll(s, "@", "@@") + "@"
}

func writeString(b *strings.Builder, s string) {
	b.WriteString(quote(s))
}

func writeWords(b *strings.Builder, words []Word) {
	for i, w := range words {
		if i > 0 && w.Kind != Colon && words[i-1].Kind != Colon {
			b.WriteByte(' ')
		}
		if w.Kind == String {
			writeString(b, w.Text)
			continue
		}
		b.WriteString(w.Text)
	}
}

func writePhrase(b *strings.Builder, p Phrase) {
	b.WriteString(p.Key)
	if len(p.Words) > 0 {
		b.WriteByte('\t')
		writeWords(b, p.Words)
	}
	b.WriteString(";\n")
}

// layout lists the admin phrases to write: those read, in their order, then
// the mandatory and set ones that were not.
func (f *File) adminLayout() []layoutEntry {
	entries := make([]layoutEntry, 0, len(f.layout)+len(defaultLayout))
	seen := make(map[string]bool)
	written := make(map[int]bool)
	for _, e := range f.layout {
		if e.ext >= len(f.Extensions) {
			continue
		}
		entries = append(entries, e)
		if e.ext < 0 {
			seen[e.key] = true
		} else {
			written[e.ext] = true
		}
	}
	for _, key := range defaultLayout {
		if !seen[key] {
			entries = append(entries, layoutEntry{key: key, ext: -1})
		}
	}
	for i := range f.Extensions {
		if !written[i] {
			entries = append(entries, layoutEntry{key: f.Extensions[i].Key, ext: i})
		}
	}
	return entries
}

func (f *File) writeAdmin(b *strings.Builder) {
	for _, e := range f.adminLayout() {
		if e.ext >= 0 {
			writePhrase(b, f.Extensions[e.ext])
			continue
		}
		switch e.key {
		case keyHead:
			b.WriteString("head\t")
			if !f.Head.IsZero() {
				b.WriteString(f.Head.String())
			}
			b.WriteString(";\n")

		case keyBranch:
			if !f.Branch.IsZero() {
				b.WriteString("branch\t" + f.Branch.String() + ";\n")
			}

		case keyAccess:
			b.WriteString("access")
			for _, user := range f.Access {
				b.WriteString("\n\t" + user)
			}
			b.WriteString(";\n")

		case keySymbols:
			b.WriteString("symbols")
			for _, sym := range f.Symbols {
				rev := sym.Rev.String()
				if sym.Magic {
					rev = sym.Rev.MagicString()
				}
				b.WriteString("\n\t" + sym.Name + ":" + rev)
			}
			b.WriteString(";\n")

		case keyLocks:
			b.WriteString("locks")
			for _, lock := range f.Locks {
				b.WriteString("\n\t" + lock.User + ":" + lock.Rev.String())
			}
			b.WriteString(";")
			if !f.Strict {
				b.WriteString("\n")
			}

		case keyStrict:
			if f.Strict {
				b.WriteString(" strict;\n")
			}

		case keyComment:
			if f.Comment != "" {
				b.WriteString("comment\t" + quote(f.Comment) + ";\n")
			}

		case keyExpand:
			if f.Expand != "" {
				b.WriteString("expand\t" + quote(f.Expand) + ";\n")
			}
		}
	}
}

func writeRevisions(b *strings.Builder, revs []revision.Revision) {
	for _, rev := range revs {
		b.WriteString("\n\t" + rev.String())
	}
}

func writeDelta(b *strings.Builder, d *Delta) {
	b.WriteString("\n" + d.Rev.String() + "\n")
	b.WriteString("date\t" + formatDate(d.Date) + ";\tauthor " + d.Author + ";\tstate")
	if d.State != "" {
		b.WriteString(" " + d.State)
	}
	b.WriteString(";\nbranches")
	writeRevisions(b, d.Branches)
	b.WriteString(";\nnext\t")
	if !d.Next.IsZero() {
		b.WriteString(d.Next.String())
	}
	b.WriteString(";\n")
	for _, p := range d.Extensions {
		writePhrase(b, p)
	}
}

func writeDeltaText(b *strings.Builder, d *Delta) {
	b.WriteString("\n\n" + d.Rev.String() + "\nlog\n")
	writeString(b, d.Log)
	b.WriteString("\n")
	for _, p := range d.TextExtensions {
		writePhrase(b, p)
	}
	b.WriteString("text\n")
	writeString(b, d.Text)
	b.WriteString("\n")
}
