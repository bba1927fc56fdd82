package directive

import (
	"bytes"
	"sync"
)

// Suppression is one live directive: diagnostics starting on Target are suppressed.
type Suppression struct {
	File   string
	Line   uint32 // line of the directive comment, 1-based
	Target uint32 // Line + 1
}

// Scan returns the live directives of src in source order.
func Scan(path string, src []byte) []Suppression {
	if !bytes.Contains(src, []byte(Token)) {
		return nil
	}
	var out []Suppression
	var lineNo uint32
	for len(src) > 0 {
		lineNo++
		line := src
		next := len(src)
		if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
			line = src[:nl]
			next = nl + 1
		}
		if _, ok := match(line); ok {
			out = append(out, Suppression{File: path, Line: lineNo, Target: lineNo + 1})
		}
		src = src[next:]
	}
	return out
}

// Registry collects suppressions found while a program's files are parsed.
// The loader may parse files concurrently, so access is guarded.
type Registry struct {
	mu     sync.Mutex
	byFile map[string]map[uint32]Suppression // file -> target line
	total  int
}

// NewRegistry creates an empty suppression registry.
func NewRegistry() *Registry {
	return &Registry{byFile: make(map[string]map[uint32]Suppression)}
}

// CollectFromFile scans src and registers its live directives.
func (r *Registry) CollectFromFile(path string, src []byte) {
	found := Scan(path, src)
	if len(found) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.byFile[path]
	if lines == nil {
		lines = make(map[uint32]Suppression, len(found))
		r.byFile[path] = lines
	}
	for _, s := range found {
		if _, dup := lines[s.Target]; !dup {
			r.total++
		}
		lines[s.Target] = s
	}
}

// Suppressed reports whether a diagnostic starting at file:line is covered.
func (r *Registry) Suppressed(file string, line uint32) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byFile[file][line]
	return ok
}

// Len returns the total number of registered suppressions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
