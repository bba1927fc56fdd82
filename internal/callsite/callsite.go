// Package callsite locates the test source line that invoked a checking entry
// point by reading the current goroutine's traceback.
//
// The traceback text is an informal runtime format; all knowledge of it lives
// in ParseFrame so the rest of the package works on parsed frames.
package callsite

import (
	"bytes"
	"os"
	"regexp"
	"runtime"
	"runtime/debug"
	"strings"

	"fortio.org/safecast"
)

// Origin identifies one call site in a test file.
type Origin struct {
	File     string
	Line     uint32 // 1-based
	Column   uint32 // 1-based
	Function string // test function the call was made from
}

var testFuncRe = regexp.MustCompile(`^(Test|Benchmark|Fuzz|Example)(\P{Ll}.*)?$`)

var selfPkg = func() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	slash := strings.LastIndexByte(name, '/')
	if dot := strings.IndexByte(name[slash+1:], '.'); dot >= 0 {
		return name[:slash+1+dot]
	}
	return name
}()

// Capture returns the current goroutine's traceback split into frame texts,
// most recent first, without the frames of the capture machinery itself.
func Capture() []string {
	return splitFrames(debug.Stack())
}

func splitFrames(stack []byte) []string {
	lines := strings.Split(string(bytes.TrimRight(stack, "\n")), "\n")
	frames := make([]string, 0, len(lines)/2)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" || strings.HasPrefix(line, "goroutine ") || strings.HasPrefix(line, "\t") {
			continue
		}
		if strings.HasPrefix(line, "...") {
			// "...additional frames elided..."
			continue
		}
		text := line
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\t") {
			text += "\n" + lines[i+1]
			i++
		}
		if isMachinery(text) {
			continue
		}
		frames = append(frames, text)
	}
	return frames
}

func isMachinery(text string) bool {
	return strings.HasPrefix(text, "runtime/debug.Stack(") ||
		strings.HasPrefix(text, selfPkg+".")
}

// Resolve captures the stack and resolves the origin of the current call.
// The frame directly below the resolver must belong to a function named entry.
func Resolve(entry string) (Origin, error) {
	return ResolveFrames(entry, Capture())
}

// ResolveFrames resolves an origin from already captured frame texts.
// frames[0] must be the entry function.
func ResolveFrames(entry string, frames []string) (Origin, error) {
	if len(frames) == 0 {
		return Origin{}, &MisuseError{Entry: entry}
	}
	top, ok := ParseFrame(frames[0])
	if !ok {
		return Origin{}, &MalformedStackError{Frame: frames[0], Reason: "unparsable entry frame"}
	}
	if top.Created || top.Name() != entry {
		return Origin{}, &MisuseError{Entry: entry, Got: top.Function}
	}

	testIdx := -1
	var test Frame
	for i := 1; i < len(frames); i++ {
		if !looksLikeTest(frames[i]) {
			continue
		}
		f, ok := ParseFrame(frames[i])
		if !ok {
			return Origin{}, &MalformedStackError{Frame: frames[i], Reason: "test frame location does not split into file:line[:col]"}
		}
		testIdx, test = i, f
		break
	}
	if testIdx < 0 {
		return Origin{}, &MalformedStackError{Reason: "no test function frame found"}
	}

	origin := Origin{File: test.File, Line: test.Line, Column: test.Column, Function: test.Function}
	if origin.Column == 0 {
		wrapper := top
		if f, ok := ParseFrame(frames[testIdx-1]); ok {
			wrapper = f
		}
		origin.Column = refineColumn(test.File, test.Line, wrapper.Name())
	}
	return origin, nil
}

// looksLikeTest matches on the head line only so a malformed location under
// a test function is reported rather than skipped.
func looksLikeTest(text string) bool {
	head, _, _ := strings.Cut(text, "\n")
	head = strings.TrimPrefix(strings.TrimSpace(head), "created by ")
	if i := strings.Index(head, " in goroutine "); i >= 0 {
		head = head[:i]
	} else if i := strings.LastIndexByte(head, '('); i > 0 && strings.HasSuffix(head, ")") {
		head = head[:i]
	}
	elems := Frame{Function: head}.elements()
	return len(elems) > 0 && testFuncRe.MatchString(elems[0])
}

// refineColumn points at the '(' following name on the given line of file.
// Go tracebacks carry no column; 1 is returned when the name is not found.
func refineColumn(file string, line uint32, name string) uint32 {
	if name == "" {
		return 1
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return 1
	}
	text := lineOf(src, line)
	if text == nil {
		return 1
	}
	needle := []byte(name + "(")
	for from := 0; ; {
		i := bytes.Index(text[from:], needle)
		if i < 0 {
			return 1
		}
		i += from
		// "Infer(" must not match inside "MustInfer("
		if i == 0 || !isIdentByte(text[i-1]) {
			col, err := safecast.Conv[uint32](i + len(name) + 1)
			if err != nil {
				return 1
			}
			return col
		}
		from = i + len(needle)
	}
}

func lineOf(src []byte, line uint32) []byte {
	for n := uint32(1); n < line; n++ {
		i := bytes.IndexByte(src, '\n')
		if i < 0 {
			return nil
		}
		src = src[i+1:]
	}
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		src = src[:i]
	}
	return src
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
