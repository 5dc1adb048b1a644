// Copyright © 2018 One Concern

package diff

import (
	"strconv"
	"strings"

	"github.com/oneconcern/reviz/pkg/text"
)

// Lines computes the edit script between two texts, line by line.
func Lines(a, b string, alg Algorithm) *EditScript[string] {
	return Compute(text.Split(a), text.Split(b), alg)
}

// RCSDiff renders a line edit script as "a" and "d" commands, as read back
// by text.Apply.
func RCSDiff(s *EditScript[string]) string {
	var buf strings.Builder
	pos := 0 // lines of A consumed so far
	for _, c := range s.Chunks() {
		switch c.Mark {
		case Del:
			writeCommand(&buf, 'd', pos+1, len(c.A))
			pos += len(c.A)
		case Add:
			writeCommand(&buf, 'a', pos, len(c.B))
			for _, line := range c.B {
				buf.WriteString(line)
			}
		case Common:
			pos += len(c.A)
		}
	}
	return buf.String()
}

func writeCommand(buf *strings.Builder, op byte, line, count int) {
	buf.WriteByte(op)
	buf.WriteString(strconv.Itoa(line))
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(count))
	buf.WriteByte('\n')
}

// ParseRCSDiff rebuilds the edit script of an RCS diff applied to a.
// Commands must come in ascending line order.
func ParseRCSDiff(a []string, script string) (*EditScript[string], error) {
	cmds, err := text.ParseScript(script)
	if err != nil {
		return nil, err
	}
	s := &EditScript[string]{}
	pos := 0
	for _, cmd := range cmds {
		switch cmd.Op {
		case text.OpDelete:
			start := cmd.Line - 1
			if start < pos || start > len(a) || cmd.Count > len(a)-start {
				return nil, text.ErrInvalidDiffFormat.WrapMessage("d%d %d: out of order or beyond line %d", cmd.Line, cmd.Count, len(a))
			}
			s.Common(a[pos:start], a[pos:start])
			s.Del(a[start : start+cmd.Count])
			pos = start + cmd.Count
		case text.OpAdd:
			if cmd.Line < pos || cmd.Line > len(a) {
				return nil, text.ErrInvalidDiffFormat.WrapMessage("a%d %d: out of order or beyond line %d", cmd.Line, cmd.Count, len(a))
			}
			s.Common(a[pos:cmd.Line], a[pos:cmd.Line])
			s.Add(cmd.Lines)
			pos = cmd.Line
		}
	}
	s.Common(a[pos:], a[pos:])
	return s, nil
}
