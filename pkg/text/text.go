package text

import "strings"

// Split text into lines. Every line keeps its terminating newline, except
// possibly the last one.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Join is the inverse of Split.
func Join(lines []string) string {
	return strings.Join(lines, "")
}
