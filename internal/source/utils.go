package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

func hasBOM(content []byte) bool {
	return len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// ToOffset converts a 1-based line and column into a flat byte offset:
// the lengths (plus newline) of all preceding lines, plus col-1.
// ok is false when the line does not exist in content.
func ToOffset(content []byte, line, col uint32) (uint32, bool) {
	return lineColToOffset(buildLineIndex(content), content, line, col)
}

func lineColToOffset(lineIdx []uint32, content []byte, line, col uint32) (uint32, bool) {
	if line == 0 || col == 0 {
		return 0, false
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	var start uint32
	if line > 1 {
		prev := int(line) - 2
		if prev >= len(lineIdx) {
			return 0, false
		}
		start = lineIdx[prev] + 1
	}
	// start <= size, so this cannot wrap
	if col-1 > size-start {
		return 0, false
	}
	return start + col - 1, true
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: число переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo // 0-based

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// NormalizePath cleans p and converts it to forward slashes.
func NormalizePath(p string) string {
	return normalizePath(p)
}

// SamePath reports whether a and b name the same file once cleaned.
func SamePath(a, b string) bool {
	return normalizePath(a) == normalizePath(b)
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}

// AbsolutePath returns an absolute, slash-normalized representation of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir, falling back to the absolute
// path when path lies outside baseDir.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}
