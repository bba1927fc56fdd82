package callsite

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Frame is one parsed traceback entry.
type Frame struct {
	Function string // fully qualified, e.g. "example.com/pkg.(*T).Method"
	File     string
	Line     uint32
	Column   uint32 // 0 when the runtime reports none
	Created  bool   // "created by" frame
}

// Name returns the last element of the function name:
// "pkg.(*T).diagnose" → "diagnose", "pkg.TestX.func1" → "func1".
func (f Frame) Name() string {
	elems := f.elements()
	if len(elems) == 0 {
		return ""
	}
	return elems[len(elems)-1]
}

// elements splits the function name after its package path.
func (f Frame) elements() []string {
	fn := f.Function
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	parts := strings.Split(fn, ".")
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// ParseFrame parses one traceback entry. Two shapes are accepted:
//
//	<function>(<args>)
//		<file>:<line>[:<col>] [+0x<pc>]
//
//	created by <function>[ in goroutine <n>]
//		<file>:<line>[:<col>] [+0x<pc>]
func ParseFrame(text string) (Frame, bool) {
	head, loc, ok := strings.Cut(text, "\n")
	if !ok {
		return Frame{}, false
	}
	head = strings.TrimSpace(head)

	var f Frame
	if rest, ok := strings.CutPrefix(head, "created by "); ok {
		if i := strings.Index(rest, " in goroutine "); i >= 0 {
			if _, err := strconv.Atoi(rest[i+len(" in goroutine "):]); err != nil {
				return Frame{}, false
			}
			rest = rest[:i]
		}
		f.Function = rest
		f.Created = true
	} else {
		if !strings.HasSuffix(head, ")") {
			return Frame{}, false
		}
		open := strings.LastIndexByte(head, '(')
		if open <= 0 {
			return Frame{}, false
		}
		f.Function = head[:open]
	}
	if f.Function == "" || strings.ContainsAny(f.Function, " \t") {
		return Frame{}, false
	}

	file, line, col, ok := parseLocation(loc)
	if !ok {
		return Frame{}, false
	}
	f.File, f.Line, f.Column = file, line, col
	return f, true
}

// parseLocation splits "<file>:<line>[:<col>] [+0x<pc>]". The file part may
// itself contain colons (drive letters), so fields are taken from the right.
func parseLocation(loc string) (file string, line, col uint32, ok bool) {
	loc = strings.TrimSpace(loc)
	if i := strings.LastIndex(loc, " +0x"); i >= 0 {
		loc = loc[:i]
	}
	rest, last, found := cutLast(loc)
	if !found {
		return "", 0, 0, false
	}
	n, isNum := parseUint(last)
	if !isNum {
		return "", 0, 0, false
	}
	if before, mid, found := cutLast(rest); found {
		if m, isNum := parseUint(mid); isNum && before != "" {
			rest, line, col = before, m, n
		} else {
			line = n
		}
	} else {
		line = n
	}
	if rest == "" || line == 0 {
		return "", 0, 0, false
	}
	return rest, line, col, true
}

func cutLast(s string) (before, after string, found bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func parseUint(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, false
	}
	return n, true
}
