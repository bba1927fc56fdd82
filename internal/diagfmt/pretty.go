package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

const tabWidth = 4

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <CATEGORY> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по диапазону.
// Файлы ищутся в fs по пути; без файла печатается только заголовок.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	paint := newPalette(opts.Color)
	baseDir := ""
	if fs != nil {
		baseDir = fs.BaseDir()
	}
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		path := source.FormatPath(d.File, opts.PathMode.name(), baseDir)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			paint.loc.Sprintf("%s:%d:%d", path, d.Line, d.Column),
			paint.category(d.Category).Sprint(strings.ToUpper(d.Category.String())),
			paint.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if fs == nil {
			continue
		}
		f, ok := fs.GetByPath(d.File)
		if !ok || d.Line == 0 {
			continue
		}
		printContext(w, f, d, opts.Context, paint)
	}
}

func printContext(w io.Writer, f *source.File, d diag.Diagnostic, context int8, paint palette) {
	first := d.Line
	if context > 0 && uint32(context) < first {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	last := d.Line + uint32(max(context, 0))
	gutter := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		if line > d.Line && text == "" {
			break
		}
		fmt.Fprintf(w, "%s %s\n", paint.gutter.Sprintf("%*d |", gutter, line), expandTabs(text))
		if line != d.Line {
			continue
		}
		lead, width := underline(text, d)
		marker := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, "%s %s%s\n",
			paint.gutter.Sprintf("%*s |", gutter, ""),
			strings.Repeat(" ", lead),
			paint.category(d.Category).Sprint(marker),
		)
	}
}

// underline returns the display column before the diagnostic and its display
// width on line, clipped to the end of the line.
func underline(line string, d diag.Diagnostic) (lead, width int) {
	col := int(d.Column)
	if col < 1 {
		col = 1
	}
	if col-1 > len(line) {
		col = len(line) + 1
	}
	before := line[:col-1]
	lead = displayWidth(before)

	end := min(col-1+int(d.Length), len(line))
	width = displayWidth(line[col-1 : end])
	if width == 0 {
		width = 1
	}
	return lead, width
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += tabWidth - n%tabWidth
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

type palette struct {
	loc    *color.Color
	code   *color.Color
	gutter *color.Color
	errorC *color.Color
	warnC  *color.Color
	otherC *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		loc:    color.New(color.Bold),
		code:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue),
		errorC: color.New(color.FgRed, color.Bold),
		warnC:  color.New(color.FgYellow, color.Bold),
		otherC: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.loc, p.code, p.gutter, p.errorC, p.warnC, p.otherC} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) category(c diag.Category) *color.Color {
	switch c {
	case diag.CatError:
		return p.errorC
	case diag.CatWarning:
		return p.warnC
	}
	return p.otherC
}
