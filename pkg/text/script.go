package text

import (
	"strconv"
)

// Op is an edit script command kind
type Op byte

const (
	// OpAdd inserts lines after a line
	OpAdd Op = 'a'
	// OpDelete deletes a range of lines
	OpDelete Op = 'd'
)

// Command is one edit script instruction
type Command struct {
	Op    Op
	Line  int
	Count int
	Lines []string // OpAdd only
}

// ParseScript reads the commands of an edit script.
func ParseScript(script string) ([]Command, error) {
	lines := Split(script)
	cmds := make([]Command, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		cmd, err := parseCommand(lines[i])
		if err != nil {
			return nil, err
		}
		if cmd.Op == OpAdd {
			if cmd.Count > len(lines)-i-1 {
				return nil, ErrInvalidDiffFormat.WrapMessage("%q: expected %d lines, got %d", trim(lines[i]), cmd.Count, len(lines)-i-1)
			}
			cmd.Lines = lines[i+1 : i+1+cmd.Count]
			i += cmd.Count
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// parseCommand reads "a<n> <n>" or "d<n> <n>". Trailing text after the
// second number is ignored.
func parseCommand(line string) (Command, error) {
	var cmd Command
	if len(line) < 4 || (line[0] != byte(OpAdd) && line[0] != byte(OpDelete)) {
		return cmd, ErrInvalidDiffFormat.WrapMessage("%q", trim(line))
	}
	cmd.Op = Op(line[0])

	pos := 1
	num := func() (int, bool) {
		start := pos
		for pos < len(line) && line[pos] >= '0' && line[pos] <= '9' {
			pos++
		}
		if pos == start {
			return 0, false
		}
		n, err := strconv.Atoi(line[start:pos])
		return n, err == nil
	}

	var ok bool
	if cmd.Line, ok = num(); !ok {
		return cmd, ErrInvalidDiffFormat.WrapMessage("%q", trim(line))
	}
	spaces := pos
	for pos < len(line) && isSpace(line[pos]) {
		pos++
	}
	if pos == spaces {
		return cmd, ErrInvalidDiffFormat.WrapMessage("%q", trim(line))
	}
	if cmd.Count, ok = num(); !ok {
		return cmd, ErrInvalidDiffFormat.WrapMessage("%q", trim(line))
	}
	return cmd, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	}
	return false
}

func trim(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}
