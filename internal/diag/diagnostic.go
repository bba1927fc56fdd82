package diag

import "fmt"

type Diagnostic struct {
	Category Category
	Code     Code
	File     string
	Start    uint32 // byte offset
	Length   uint32
	Line     uint32 // 1-based
	Column   uint32 // 1-based, bytes
	Message  string
}

// End returns the offset just past the diagnostic's range.
func (d Diagnostic) End() uint32 {
	return d.Start + d.Length
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Category, d.Message)
}

func New(cat Category, code Code, file string, start, length uint32, msg string) Diagnostic {
	return Diagnostic{
		Category: cat,
		Code:     code,
		File:     file,
		Start:    start,
		Length:   length,
		Message:  msg,
	}
}

func NewError(code Code, file string, start, length uint32, msg string) Diagnostic {
	return New(CatError, code, file, start, length, msg)
}

// WithPosition returns d with its resolved line and column set.
func (d Diagnostic) WithPosition(line, col uint32) Diagnostic {
	d.Line, d.Column = line, col
	return d
}

// Messages returns the messages of diags in order.
func Messages(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i := range diags {
		out[i] = diags[i].Message
	}
	return out
}
