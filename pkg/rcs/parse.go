// Copyright © 2018 One Concern

package rcs

import (
	"fmt"

	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
)

// Parse reads a delta chain. It never returns a partially built file: any
// error yields a nil File, usually with a *FormatError.
func Parse(data []byte) (*File, error) {
	p := &parser{s: newScanner(data), f: New()}
	if err := p.parse(); err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.locate(data)
		}
		return nil, err
	}
	return p.f, nil
}

type parser struct {
	s *scanner
	f *File
}

// phrase is a Phrase with the position of its key.
type phrase struct {
	key   token
	words []token
}

func (p *parser) parse() error {
	if err := p.admin(); err != nil {
		return err
	}
	if err := p.deltas(); err != nil {
		return err
	}
	if err := p.desc(); err != nil {
		return err
	}
	if err := p.deltaTexts(); err != nil {
		return err
	}
	return p.f.link()
}

func unexpected(t token, expected string, err error) *FormatError {
	return &FormatError{Offset: t.offset, Expected: expected, Found: t.String(), err: err}
}

func invalid(t token, err error, format string, args ...interface{}) *FormatError {
	return &FormatError{Offset: t.offset, Msg: fmt.Sprintf(format, args...), err: err}
}

// expect reads a token of the given kind, and when text is set, with that text.
func (p *parser) expect(kind Kind, text string) (token, error) {
	t, err := p.s.next()
	if err != nil {
		return t, err
	}
	if t.kind != kind || (text != "" && t.text != text) {
		expected := kind.String()
		if text != "" {
			expected = fmt.Sprintf("%q", text)
		}
		return t, unexpected(t, expected, status.ErrFormat)
	}
	return t, nil
}

// phrases reads "key words... ;" phrases up to the next token that is not an
// identifier, or up to one of the keywords closing the list.
func (p *parser) phrases(stop ...string) ([]phrase, error) {
	var list []phrase
	for {
		t, err := p.s.peek()
		if err != nil {
			return nil, err
		}
		if t.kind != ID || contains(stop, t.text) {
			return list, nil
		}
		key, _ := p.s.next()
		ph := phrase{key: key}
		for {
			w, err := p.s.next()
			if err != nil {
				return nil, err
			}
			if w.kind == Semi {
				break
			}
			if w.kind == EOF {
				return nil, unexpected(w, "';'", status.ErrFormat)
			}
			ph.words = append(ph.words, w)
		}
		list = append(list, ph)
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func toPhrase(ph phrase) Phrase {
	out := Phrase{Key: ph.key.text, Words: make([]Word, len(ph.words))}
	for i, w := range ph.words {
		out.Words[i] = Word{Kind: w.kind, Text: w.text}
	}
	return out
}

// optional reads a phrase of at most one word of the given kinds.
func optional(ph phrase, kinds ...Kind) (string, error) {
	switch len(ph.words) {
	case 0:
		return "", nil
	case 1:
		w := ph.words[0]
		for _, k := range kinds {
			if w.kind == k {
				return w.text, nil
			}
		}
		return "", unexpected(w, kinds[0].String(), status.ErrFormat)
	}
	return "", unexpected(ph.words[1], "';'", status.ErrFormat)
}

func required(ph phrase, kinds ...Kind) (string, error) {
	if len(ph.words) == 0 {
		return "", invalid(ph.key, status.ErrFormat, "%s: missing value", ph.key.text)
	}
	return optional(ph, kinds...)
}

func parseRevision(t token, plain bool) (revision.Revision, error) {
	rev, err := revision.Parse(t.text)
	if err != nil || rev.IsZero() {
		return revision.Revision{}, invalid(t, status.ErrBadRevision, "%q", t.text)
	}
	if plain && rev.IsBranch() {
		return revision.Revision{}, invalid(t, status.ErrBadRevision, "%q is a branch", t.text)
	}
	return rev, nil
}

// pairs reads "a:b" lists, as in symbols and locks.
func pairs(ph phrase, fn func(name, value token) error) error {
	w := ph.words
	for i := 0; i < len(w); i += 3 {
		if i+2 >= len(w) {
			return unexpected(w[len(w)-1], "name:revision", status.ErrFormat)
		}
		if w[i].kind != ID && w[i].kind != Num {
			return unexpected(w[i], "identifier", status.ErrFormat)
		}
		if w[i+1].kind != Colon {
			return unexpected(w[i+1], "':'", status.ErrFormat)
		}
		if w[i+2].kind != Num {
			return unexpected(w[i+2], "number", status.ErrFormat)
		}
		if err := fn(w[i], w[i+2]); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) admin() error {
	list, err := p.phrases("desc")
	if err != nil {
		return err
	}
	f := p.f
	seen := make(map[string]bool)
	for _, ph := range list {
		key := ph.key.text
		switch key {
		case keyHead, keyBranch, keyAccess, keySymbols, keyLocks, keyStrict, keyComment, keyExpand:
			if seen[key] {
				return invalid(ph.key, status.ErrDuplicate, "phrase %q", key)
			}
			seen[key] = true
			f.layout = append(f.layout, layoutEntry{key: key, ext: -1})
		default:
			f.layout = append(f.layout, layoutEntry{key: key, ext: len(f.Extensions)})
			f.Extensions = append(f.Extensions, toPhrase(ph))
			continue
		}

		switch key {
		case keyHead, keyBranch:
			s, err := optional(ph, Num)
			if err != nil {
				return err
			}
			if s == "" {
				continue
			}
			if key == keyHead {
				f.Head, err = parseRevision(ph.words[0], true)
			} else {
				f.Branch, err = parseRevision(ph.words[0], false)
			}
			if err != nil {
				return err
			}

		case keyAccess:
			for _, w := range ph.words {
				if w.kind != ID && w.kind != Num {
					return unexpected(w, "identifier", status.ErrFormat)
				}
				f.Access = append(f.Access, w.text)
			}

		case keySymbols:
			err = pairs(ph, func(name, value token) error {
				if name.kind != ID {
					return unexpected(name, "identifier", status.ErrFormat)
				}
				rev, err := parseRevision(value, false)
				if err != nil {
					return err
				}
				f.Symbols = append(f.Symbols, Symbol{Name: name.text, Rev: rev, Magic: revision.IsMagic(value.text)})
				return nil
			})
			if err != nil {
				return err
			}

		case keyLocks:
			err = pairs(ph, func(name, value token) error {
				rev, err := parseRevision(value, true)
				if err != nil {
					return err
				}
				f.Locks = append(f.Locks, Lock{User: name.text, Rev: rev})
				return nil
			})
			if err != nil {
				return err
			}

		case keyStrict:
			if len(ph.words) > 0 {
				return unexpected(ph.words[0], "';'", status.ErrFormat)
			}
			f.Strict = true

		case keyComment:
			if f.Comment, err = optional(ph, String); err != nil {
				return err
			}

		case keyExpand:
			if f.Expand, err = optional(ph, String); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) deltas() error {
	for {
		t, err := p.s.peek()
		if err != nil {
			return err
		}
		if t.kind != Num {
			return nil
		}
		_, _ = p.s.next()
		rev, err := parseRevision(t, true)
		if err != nil {
			return err
		}
		if _, ok := p.f.deltas[rev]; ok {
			return invalid(t, status.ErrDuplicate, "revision %s", rev)
		}

		list, err := p.phrases("desc")
		if err != nil {
			return err
		}
		d := &Delta{Rev: rev}
		if err := deltaPhrases(t, d, list); err != nil {
			return err
		}
		p.f.deltas[rev] = d
	}
}

func deltaPhrases(at token, d *Delta, list []phrase) error {
	seen := make(map[string]bool)
	for _, ph := range list {
		key := ph.key.text
		switch key {
		case "date", "author", "state", "branches", "next":
			if seen[key] {
				return invalid(ph.key, status.ErrDuplicate, "phrase %q in revision %s", key, d.Rev)
			}
			seen[key] = true
		default:
			d.Extensions = append(d.Extensions, toPhrase(ph))
			continue
		}

		switch key {
		case "date":
			s, err := required(ph, Num)
			if err != nil {
				return err
			}
			date, ok := parseDate(s)
			if !ok {
				return invalid(ph.words[0], status.ErrBadDate, "%q", s)
			}
			d.Date = date

		case "author":
			s, err := required(ph, ID, Num)
			if err != nil {
				return err
			}
			d.Author = s

		case "state":
			s, err := optional(ph, ID, Num)
			if err != nil {
				return err
			}
			d.State = s

		case "branches":
			for _, w := range ph.words {
				if w.kind != Num {
					return unexpected(w, "number", status.ErrFormat)
				}
				rev, err := parseRevision(w, true)
				if err != nil {
					return err
				}
				d.Branches = append(d.Branches, rev)
			}

		case "next":
			s, err := optional(ph, Num)
			if err != nil {
				return err
			}
			if s != "" {
				rev, err := parseRevision(ph.words[0], true)
				if err != nil {
					return err
				}
				d.Next = rev
			}
		}
	}
	for _, key := range []string{"date", "author"} {
		if !seen[key] {
			return invalid(at, status.ErrFormat, "revision %s: missing %s", d.Rev, key)
		}
	}
	return nil
}

func (p *parser) desc() error {
	t, err := p.s.next()
	if err != nil {
		return err
	}
	if t.kind != ID || t.text != "desc" {
		return unexpected(t, `"desc"`, status.ErrMissingDesc)
	}
	s, err := p.expect(String, "")
	if err != nil {
		return err
	}
	p.f.Desc = s.text
	return nil
}

func (p *parser) deltaTexts() error {
	done := make(map[revision.Revision]bool)
	for {
		t, err := p.s.next()
		if err != nil {
			return err
		}
		if t.kind == EOF {
			break
		}
		if t.kind != Num {
			return unexpected(t, "revision", status.ErrFormat)
		}
		rev, err := parseRevision(t, true)
		if err != nil {
			return err
		}
		d, ok := p.f.deltas[rev]
		if !ok {
			return invalid(t, status.ErrDanglingRevision, "deltatext for revision %s", rev)
		}
		if done[rev] {
			return invalid(t, status.ErrDuplicate, "deltatext for revision %s", rev)
		}
		done[rev] = true

		if _, err = p.expect(ID, "log"); err != nil {
			return err
		}
		log, err := p.expect(String, "")
		if err != nil {
			return err
		}
		list, err := p.phrases("text")
		if err != nil {
			return err
		}
		if _, err = p.expect(ID, "text"); err != nil {
			return err
		}
		text, err := p.expect(String, "")
		if err != nil {
			return err
		}

		d.Log = log.text
		d.Text = text.text
		for _, ph := range list {
			d.TextExtensions = append(d.TextExtensions, toPhrase(ph))
		}
		d.seq = p.f.nextSeq()
	}

	for rev := range p.f.deltas {
		if !done[rev] {
			return &FormatError{Offset: -1, Msg: fmt.Sprintf("revision %s", rev), err: status.ErrMissingDeltaText}
		}
	}
	return nil
}
