// Copyright © 2018 One Concern

package rcs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/oneconcern/reviz/pkg/rcs/status"
)

// Kind is the class of a lexical token
type Kind uint8

// Token classes
const (
	EOF Kind = iota
	ID
	Num
	String
	Semi
	Colon
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case ID:
		return "identifier"
	case Num:
		return "number"
	case String:
		return "string"
	case Semi:
		return "';'"
	case Colon:
		return "':'"
	}
	return "unknown token"
}

type token struct {
	kind   Kind
	text   string
	offset int
}

func (t token) String() string {
	switch t.kind {
	case ID, Num:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	case String:
		if len(t.text) > 20 {
			return fmt.Sprintf("string %q...", t.text[:20])
		}
		return fmt.Sprintf("string %q", t.text)
	}
	return t.kind.String()
}

// scanner splits delta chain bytes into tokens, with one token of lookahead.
type scanner struct {
	src    []byte
	pos    int
	peeked *token
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\b', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// isIDChar tells if c may appear in an identifier or a number.
func isIDChar(c byte) bool {
	switch {
	case c >= 0xa0:
		return true
	case c <= ' ' || c >= 0x7f:
		return false
	}
	switch c {
	case '$', ',', ':', ';', '@':
		return false
	}
	return true
}

// IsIdentifier tells if s can be written as a single identifier word.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	num := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isIDChar(c) {
			return false
		}
		if c != '.' && (c < '0' || c > '9') {
			num = false
		}
	}
	return !num
}

func (s *scanner) peek() (token, error) {
	if s.peeked == nil {
		t, err := s.scan()
		if err != nil {
			return t, err
		}
		s.peeked = &t
	}
	return *s.peeked, nil
}

func (s *scanner) next() (token, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t, nil
	}
	return s.scan()
}

func (s *scanner) scan() (token, error) {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return token{kind: EOF, offset: s.pos}, nil
	}

	start := s.pos
	c := s.src[start]
	switch {
	case c == ';':
		s.pos++
		return token{kind: Semi, text: ";", offset: start}, nil

	case c == ':':
		s.pos++
		return token{kind: Colon, text: ":", offset: start}, nil

	case c == '@':
		return s.scanString()

	case isIDChar(c):
		num := true
		for s.pos < len(s.src) && isIDChar(s.src[s.pos]) {
			if b := s.src[s.pos]; b != '.' && (b < '0' || b > '9') {
				num = false
			}
			s.pos++
		}
		kind := ID
		if num {
			kind = Num
		}
		return token{kind: kind, text: string(s.src[start:s.pos]), offset: start}, nil
	}

	return token{}, &FormatError{
		Offset:   start,
		Expected: "token",
		Found:    fmt.Sprintf("character %q", c),
		err:      status.ErrFormat,
	}
}

// scanString reads an @-quoted string, where @@ stands for a literal @.
func (s *scanner) scanString() (token, error) {
	start := s.pos
	s.pos++
	var b strings.Builder
	from := s.pos
	for {
		i := bytes.IndexByte(s.src[s.pos:], '@')
		if i < 0 {
			return token{}, &FormatError{
				Offset:   start,
				Expected: "closing '@'",
				Found:    EOF.String(),
				err:      status.ErrFormat,
			}
		}
		i += s.pos
		if i+1 < len(s.src) && s.src[i+1] == '@' {
			// escaped
			b.Write(s.src[from : i+1])
			s.pos = i + 2
			from = s.pos
			continue
		}
		b.Write(s.src[from:i])
		s.pos = i + 1
		return token{kind: String, text: b.String(), offset: start}, nil
	}
}
