package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"firerules/internal/diag"
	"firerules/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// file may be nil when the source could not be loaded; only headers are
// printed then.
func Pretty(w io.Writer, bag *diag.Bag, file *source.File, path string, opts PrettyOpts) {
	if bag == nil {
		return
	}
	if path == "" && file != nil {
		path = file.Path
	}
	shown := FormatPath(path, opts.PathMode, opts.BaseDir)
	pal := newPalette(opts.Color)

	for _, d := range bag.Items() {
		loc := shown
		if file != nil {
			line, col := displayPosition(file, d.Primary.Start)
			loc = fmt.Sprintf("%s:%d:%d", shown, line, col)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		if file != nil {
			writeSnippet(w, file, d.Primary, opts.Context, pal)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				noteLoc := shown
				if file != nil {
					line, col := displayPosition(file, n.Span.Start)
					noteLoc = fmt.Sprintf("%s:%d:%d", shown, line, col)
				}
				fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), noteLoc, n.Msg)
			}
		}
	}
}

// Summary prints the closing line of a check run.
func Summary(w io.Writer, errs, warnings, files int, useColor bool) {
	pal := newPalette(useColor)
	if errs == 0 && warnings == 0 {
		fmt.Fprintf(w, "%s %s\n", pal.info.Sprint("ok:"), plural(files, "file"))
		return
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, pal.err.Sprint(plural(errs, "error")))
	}
	if warnings > 0 {
		parts = append(parts, pal.warn.Sprint(plural(warnings, "warning")))
	}
	fmt.Fprintf(w, "%s in %s\n", strings.Join(parts, ", "), plural(files, "file"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// displayPosition returns 1-based line and rune column.
func displayPosition(file *source.File, p source.Point) (line, col int) {
	text := file.Line(p.Row)
	end := min(int(p.Column), len(text))
	return int(p.Row) + 1, utf8.RuneCountInString(text[:end]) + 1
}

func writeSnippet(w io.Writer, file *source.File, span source.Span, ctxLines int, pal palette) {
	row := span.Start.Row
	if int(row) >= file.LineCount() {
		return
	}
	first := row
	if ctxLines > 0 {
		first = uint32(max(int(row)-ctxLines, 0))
	}
	last := min(int(row)+max(ctxLines, 0), file.LineCount()-1)
	gutterWidth := len(fmt.Sprint(last + 1))

	for r := first; int(r) <= last; r++ {
		text := file.Line(r)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, r+1), expandTabs(text))
		if r != row {
			continue
		}
		startCol := min(int(span.Start.Column), len(text))
		endCol := len(text)
		if span.End.Row == row {
			endCol = min(int(span.End.Column+file.RuneLenAt(span.End)), len(text))
		}
		pad := runewidth.StringWidth(expandTabs(text[:startCol]))
		width := max(runewidth.StringWidth(expandTabs(text[startCol:max(endCol, startCol)])), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
