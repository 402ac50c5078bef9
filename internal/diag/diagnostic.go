package diag

import (
	"firerules/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Primary is a closed span in byte columns; the
// LSP layer converts it to an end-exclusive UTF-16 range.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
