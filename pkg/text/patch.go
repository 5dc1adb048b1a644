package text

// Apply an edit script to lines and return the new lines.
func Apply(lines []string, script string) ([]string, error) {
	return Patch(lines, script, func(line string) string { return line }, nil)
}

// ApplyText is Apply on whole texts.
func ApplyText(original, script string) (string, error) {
	lines, err := Apply(Split(original), script)
	if err != nil {
		return "", err
	}
	return Join(lines), nil
}

// Patch applies an edit script to a sequence of tagged lines.
//
// Each inserted line goes through add, which builds the element stored in
// the result. Each deleted element is handed to del, which may be nil.
// Elements are kept in place even when they are zero values: a nil element
// still occupies its line.
func Patch[T any](lines []T, script string, add func(string) T, del func(T)) ([]T, error) {
	cmds, err := ParseScript(script)
	if err != nil {
		return nil, err
	}

	n := len(lines)
	// slot 0 anchors insertions before the first line
	deleted := make([]bool, n+1)
	inserts := make([][]T, n+1)
	growth := 0

	for _, cmd := range cmds {
		switch cmd.Op {
		case OpAdd:
			if cmd.Line > n {
				return nil, ErrInvalidDiffFormat.WrapMessage("a%d %d: beyond line %d", cmd.Line, cmd.Count, n)
			}
			for _, line := range cmd.Lines {
				inserts[cmd.Line] = append(inserts[cmd.Line], add(line))
			}
			growth += cmd.Count

		case OpDelete:
			if cmd.Line < 1 || cmd.Line > n || cmd.Count > n-cmd.Line+1 {
				return nil, ErrInvalidDiffFormat.WrapMessage("d%d %d: beyond line %d", cmd.Line, cmd.Count, n)
			}
			for i := cmd.Line; i < cmd.Line+cmd.Count; i++ {
				if deleted[i] {
					return nil, ErrInvalidDiffFormat.WrapMessage("d%d %d: line %d deleted twice", cmd.Line, cmd.Count, i)
				}
				deleted[i] = true
				growth--
				if del != nil {
					del(lines[i-1])
				}
			}
		}
	}

	result := make([]T, 0, n+growth)
	result = append(result, inserts[0]...)
	for i := 1; i <= n; i++ {
		if !deleted[i] {
			result = append(result, lines[i-1])
		}
		result = append(result, inserts[i]...)
	}
	return result, nil
}
