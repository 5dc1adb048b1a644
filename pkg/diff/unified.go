// Copyright © 2018 One Concern

package diff

import (
	"bytes"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

const noNewline = "\\ No newline at end of file\n"

type lineOp struct {
	mark Mark
	line string
}

// Unified renders a line edit script in unified format, with context lines
// around each change. Identical inputs render as nothing.
func Unified(s *EditScript[string], nameA, nameB string, context int) ([]byte, error) {
	if s.Additions() == 0 && s.Deletions() == 0 {
		return nil, nil
	}
	if context < 0 {
		context = 0
	}

	var ops []lineOp
	s.Each(func(mark Mark, a, b string) {
		if mark == Add {
			ops = append(ops, lineOp{mark: mark, line: b})
			return
		}
		ops = append(ops, lineOp{mark: mark, line: a})
	})

	fd := &godiff.FileDiff{
		OrigName: nameA,
		NewName:  nameB,
	}

	aLine, bLine := 0, 0 // lines consumed before ops[i]
	for i := 0; i < len(ops); {
		if ops[i].mark == Common {
			aLine++
			bLine++
			i++
			continue
		}

		// back up over leading context
		start := i
		for start > 0 && i-start < context && ops[start-1].mark == Common {
			start--
		}
		hunkA, hunkB := aLine-(i-start), bLine-(i-start)

		// extend over changes separated by at most 2*context common lines
		end := i
		for j := i; j < len(ops); j++ {
			if ops[j].mark != Common {
				end = j
				continue
			}
			if j-end > 2*context {
				break
			}
		}
		stop := end + 1
		for stop < len(ops) && stop-end <= context && ops[stop].mark == Common {
			stop++
		}

		hunk := &godiff.Hunk{}
		var body bytes.Buffer
		var origLines, newLines int32
		for k := start; k < stop; k++ {
			op := ops[k]
			switch op.mark {
			case Del:
				body.WriteByte('-')
				origLines++
			case Add:
				body.WriteByte('+')
				newLines++
			default:
				body.WriteByte(' ')
				origLines++
				newLines++
			}
			body.WriteString(op.line)
			if !strings.HasSuffix(op.line, "\n") {
				body.WriteByte('\n')
				body.WriteString(noNewline)
			}
		}
		hunk.OrigStartLine = startLine(hunkA, origLines)
		hunk.OrigLines = origLines
		hunk.NewStartLine = startLine(hunkB, newLines)
		hunk.NewLines = newLines
		hunk.Body = body.Bytes()
		fd.Hunks = append(fd.Hunks, hunk)

		for k := i; k < stop; k++ {
			switch ops[k].mark {
			case Del:
				aLine++
			case Add:
				bLine++
			default:
				aLine++
				bLine++
			}
		}
		i = stop
	}

	return godiff.PrintFileDiff(fd)
}

// startLine follows the unified convention: an empty range starts at the
// line before it.
func startLine(consumed int, lines int32) int32 {
	if lines == 0 {
		return int32(consumed)
	}
	return int32(consumed + 1)
}
