package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// applyChanges replays didChange events in order; a change without a range
// replaces the whole text.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, ch := range changes {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		start := offsetForPosition(text, ch.Range.Start)
		end := max(offsetForPosition(text, ch.Range.End), start)
		text = text[:start] + ch.Text + text[end:]
	}
	return text
}

// offsetForPosition maps a UTF-16 position onto a byte offset of text.
// Lines past the end clamp to len(text), columns past the end of the line
// clamp to the newline, and a column inside a surrogate pair stops before it.
func offsetForPosition(text string, pos protocol.Position) int {
	lineStart := 0
	for range pos.Line {
		nl := strings.IndexByte(text[lineStart:], '\n')
		if nl < 0 {
			return len(text)
		}
		lineStart += nl + 1
	}
	line := text[lineStart:]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	off := 0
	for units := uint32(0); off < len(line); {
		r, size := utf8.DecodeRuneInString(line[off:])
		w := uint32(utf16.RuneLen(r))
		if r == utf8.RuneError && size == 1 {
			w = 1
		}
		if units+w > pos.Character {
			break
		}
		units += w
		off += size
	}
	return lineStart + off
}
