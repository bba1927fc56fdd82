package gocheck

import (
	"bytes"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/tools/go/packages"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/directive"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

type dedupKey struct {
	file  string
	start uint32
	msg   string
}

// collector turns loader errors into diagnostics, once per position and
// message across all test variants of the package.
type collector struct {
	sources    *source.FileSet
	overlay    map[string][]byte
	suppressed *directive.Registry
	opts       options.Options

	diags    []diag.Diagnostic
	seen     map[dedupKey]struct{}
	unplaced []string
}

func (c *collector) listErrors(pkg *packages.Package) {
	for _, perr := range pkg.Errors {
		var code diag.Code
		switch perr.Kind {
		case packages.ListError:
			code = diag.LoadListError
		case packages.ParseError:
			code = diag.SynParseError
		case packages.UnknownError:
			code = diag.LoadModuleError
		default:
			// type errors are taken from pkg.TypeErrors with exact positions
			continue
		}
		file, line, col, ok := splitPos(perr.Pos)
		if !ok && compilerOutput(pkg, perr) {
			continue
		}
		if !ok {
			c.unplace(perr.Msg)
			continue
		}
		f := c.file(file)
		if f == nil {
			c.unplace(perr.Pos + ": " + perr.Msg)
			continue
		}
		off, ok := f.Offset(line, max(col, 1))
		if !ok {
			off = 0
		}
		c.add(code, f, off, perr.Msg)
	}
}

// compilerOutput reports whether perr is the "# pkg" block go list prints
// after compiling the package. Its lines repeat pkg.TypeErrors.
func compilerOutput(pkg *packages.Package, perr packages.Error) bool {
	return perr.Kind == packages.ListError &&
		len(pkg.TypeErrors) > 0 &&
		strings.HasPrefix(perr.Msg, "# ")
}

func (c *collector) typeErrors(pkg *packages.Package) {
	for _, terr := range pkg.TypeErrors {
		if !terr.Pos.IsValid() || terr.Fset == nil {
			c.unplace(terr.Msg)
			continue
		}
		pos := terr.Fset.Position(terr.Pos)
		f := c.file(pos.Filename)
		if f == nil {
			c.unplace(pos.String() + ": " + terr.Msg)
			continue
		}
		off, err := safecast.Conv[uint32](pos.Offset)
		if err != nil {
			c.unplace(pos.String() + ": " + terr.Msg)
			continue
		}
		c.add(classify(terr.Msg), f, off, terr.Msg)
	}
}

func (c *collector) unplace(msg string) {
	for _, m := range c.unplaced {
		if m == msg {
			return
		}
	}
	c.unplaced = append(c.unplaced, msg)
}

func (c *collector) add(code diag.Code, f *source.File, off uint32, msg string) {
	msg = strings.TrimSpace(msg)
	switch code {
	case diag.TypeUnused:
		if !c.opts.ReportUnused {
			return
		}
	case diag.TypeMissingReturn:
		if !c.opts.ReportMissingReturn {
			return
		}
	}

	key := dedupKey{file: f.Path, start: off, msg: msg}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}

	pos := f.Position(off)
	cat := diag.CatError
	if c.suppressed.Suppressed(f.Path, pos.Line) {
		cat = diag.CatMessage
	}
	d := diag.New(cat, code, f.Path, off, tokenLength(f.Content, off), msg)
	c.diags = append(c.diags, d.WithPosition(pos.Line, pos.Col))
}

// file returns the content the checker saw for path. Files the parser never
// saw (go.mod, cgo inputs) are read from the overlay or the disk.
func (c *collector) file(path string) *source.File {
	if path == "" {
		return nil
	}
	if f, ok := c.sources.GetByPath(path); ok {
		return f
	}
	if abs, err := filepath.Abs(path); err == nil {
		if f, ok := c.sources.GetByPath(abs); ok {
			return f
		}
		path = abs
	}
	if content, ok := c.overlay[path]; ok {
		return c.sources.Get(c.sources.Add(path, content, 0))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return c.sources.Get(c.sources.Add(path, content, 0))
}

func classify(msg string) diag.Code {
	switch {
	case strings.Contains(msg, "declared and not used"),
		strings.Contains(msg, "imported and not used"):
		return diag.TypeUnused
	case strings.HasPrefix(msg, "missing return"):
		return diag.TypeMissingReturn
	}
	return diag.TypeError
}

// splitPos parses "file:line[:col]" as reported by go list.
func splitPos(pos string) (file string, line, col uint32, ok bool) {
	if pos == "" || pos == "-" {
		return "", 0, 0, false
	}
	parts := strings.Split(pos, ":")
	nums := make([]uint32, 0, 2)
	for len(parts) > 1 && len(nums) < 2 {
		n, err := strconv.ParseUint(parts[len(parts)-1], 10, 32)
		if err != nil {
			break
		}
		v, err := safecast.Conv[uint32](n)
		if err != nil {
			break
		}
		nums = append(nums, v)
		parts = parts[:len(parts)-1]
	}
	file = strings.Join(parts, ":")
	switch len(nums) {
	case 1:
		return file, nums[0], 0, nums[0] > 0
	case 2:
		return file, nums[1], nums[0], nums[1] > 0
	}
	return "", 0, 0, false
}

// tokenLength is the byte length of the Go token starting at off.
func tokenLength(content []byte, off uint32) uint32 {
	if int(off) >= len(content) {
		return 0
	}
	rest := content[off:]
	// the scanner wants to see the whole token; a line is enough
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 && !bytes.HasPrefix(rest, []byte("`")) && !bytes.HasPrefix(rest, []byte("/*")) {
		rest = rest[:nl]
	}

	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(rest))
	var s scanner.Scanner
	s.Init(file, rest, func(token.Position, string) {}, scanner.ScanComments)
	pos, tok, lit := s.Scan()
	if tok == token.EOF || file.Offset(pos) != 0 {
		return 0
	}

	n := len(lit)
	if tok == token.SEMICOLON && lit == "\n" {
		n = 0
	} else if n == 0 {
		n = len(tok.String())
	}
	length, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return length
}
