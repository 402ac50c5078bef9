package diag

import (
	"fmt"
	"sort"
	"strings"
)

type shortLine struct {
	line, col uint32
	sev       string
	code      string
	msg       string
}

// FormatShort renders one line per diagnostic:
//
//	path:line:col: severity CODE message
//
// Lines and columns are 1-based byte positions. Notes follow as "note" lines
// when includeNotes is set. Output is sorted and has no trailing newline.
func FormatShort(diags []Diagnostic, path string, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, shortLine{
			line: d.Primary.Start.Row + 1,
			col:  d.Primary.Start.Column + 1,
			sev:  d.Severity.Label(),
			code: d.Code.ID(),
			msg:  oneLine(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine{
				line: n.Span.Start.Row + 1,
				col:  n.Span.Start.Column + 1,
				sev:  "note",
				code: d.Code.ID(),
				msg:  oneLine(n.Msg),
			})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.line != b.line {
			return a.line < b.line
		}
		if a.col != b.col {
			return a.col < b.col
		}
		if a.sev != b.sev {
			return a.sev < b.sev
		}
		if a.code != b.code {
			return a.code < b.code
		}
		return a.msg < b.msg
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:%d:%d: %s %s %s", path, l.line, l.col, l.sev, l.code, l.msg)
	}
	return b.String()
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
