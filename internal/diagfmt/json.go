package diagfmt

import (
	"encoding/json"
	"io"

	"firerules/internal/diag"
	"firerules/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Files       int              `json:"files"`
}

// FileDiagnostics pairs one file with its diagnostics. File may be nil when
// the source failed to load.
type FileDiagnostics struct {
	Path string
	File *source.File
	Bag  *diag.Bag
}

// makeLocation builds a LocationJSON from a closed span. Byte offsets are
// end-exclusive; line and column are 1-based, the end column inclusive.
func makeLocation(span source.Span, file *source.File, path string, includePositions bool) LocationJSON {
	loc := LocationJSON{File: path}
	if file == nil {
		return loc
	}
	loc.StartByte = file.Offset(span.Start)
	loc.EndByte = file.Offset(span.End) + file.RuneLenAt(span.End)
	if includePositions {
		loc.StartLine = span.Start.Row + 1
		loc.StartCol = span.Start.Column + 1
		loc.EndLine = span.End.Row + 1
		loc.EndCol = span.End.Column + 1
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(files []FileDiagnostics, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}, Files: len(files)}
	for _, fd := range files {
		if fd.Bag == nil {
			continue
		}
		path := FormatPath(fd.Path, opts.PathMode, opts.BaseDir)
		for _, d := range fd.Bag.Items() {
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				break
			}
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Title:    d.Code.Title(),
				Message:  d.Message,
				Location: makeLocation(d.Primary, fd.File, path, opts.IncludePositions),
			}
			if opts.IncludeNotes && len(d.Notes) > 0 {
				dj.Notes = make([]NoteJSON, len(d.Notes))
				for j, note := range d.Notes {
					dj.Notes[j] = NoteJSON{
						Message:  note.Msg,
						Location: makeLocation(note.Span, fd.File, path, opts.IncludePositions),
					}
				}
			}
			out.Diagnostics = append(out.Diagnostics, dj)
		}
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, files []FileDiagnostics, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(files, opts))
}
