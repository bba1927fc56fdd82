package snippet

import (
	"regexp"
	"strings"
)

var (
	importLineRe  = regexp.MustCompile(`^\s*import\s+(.+)$`)
	importGroupRe = regexp.MustCompile(`^\s*import\s*\(\s*(.*)$`)
)

// Imports returns the import declarations of a Go source in order, one spec
// per entry, each terminated by ';'. Grouped declarations are flattened to
// "import <spec>;". Only lines whose first word is the import keyword count.
func Imports(src []byte) []string {
	var out []string
	inGroup := false
	for _, raw := range strings.Split(string(src), "\n") {
		line := stripLineComment(strings.TrimRight(raw, "\r"))

		if inGroup {
			trimmed := strings.TrimSpace(line)
			before, closed := strings.CutSuffix(trimmed, ")")
			if spec := strings.TrimSpace(strings.TrimSuffix(before, ";")); spec != "" {
				out = append(out, "import "+spec+";")
			}
			if closed {
				inGroup = false
			}
			continue
		}

		if m := importGroupRe.FindStringSubmatch(line); m != nil {
			rest := strings.TrimSpace(m[1])
			before, closed := strings.CutSuffix(rest, ")")
			for _, spec := range strings.Split(before, ";") {
				if spec = strings.TrimSpace(spec); spec != "" {
					out = append(out, "import "+spec+";")
				}
			}
			inGroup = !closed
			continue
		}
		if m := importLineRe.FindStringSubmatch(line); m != nil {
			spec := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[1]), ";"))
			out = append(out, "import "+spec+";")
		}
	}
	return out
}

// stripLineComment drops a trailing // comment that is not inside a string.
func stripLineComment(line string) string {
	inStr := byte(0)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inStr != 0:
			if c == '\\' && inStr == '"' {
				i++
			} else if c == inStr {
				inStr = 0
			}
		case c == '"' || c == '`':
			inStr = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
