package lsp

import (
	"testing"

	"go.lsp.dev/protocol"
)

func TestApplyChanges(t *testing.T) {
	at := func(line, char uint32) protocol.Position { return protocol.Position{Line: line, Character: char} }
	tests := []struct {
		name    string
		text    string
		changes []textDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full replace",
			text:    "old",
			changes: []textDocumentContentChangeEvent{{Text: "new"}},
			want:    "new",
		},
		{
			name: "insert after surrogate pair",
			text: "🙂x\ny",
			changes: []textDocumentContentChangeEvent{{
				Range: &protocol.Range{Start: at(0, 2), End: at(0, 2)},
				Text:  "!",
			}},
			want: "🙂!x\ny",
		},
		{
			name: "delete across lines",
			text: "ab\ncd\nef",
			changes: []textDocumentContentChangeEvent{{
				Range: &protocol.Range{Start: at(0, 1), End: at(2, 1)},
			}},
			want: "af",
		},
		{
			name: "past end clamps",
			text: "ab",
			changes: []textDocumentContentChangeEvent{{
				Range: &protocol.Range{Start: at(5, 0), End: at(9, 9)},
				Text:  "!",
			}},
			want: "ab!",
		},
		{
			name: "sequential edits",
			text: "a",
			changes: []textDocumentContentChangeEvent{
				{Range: &protocol.Range{Start: at(0, 1), End: at(0, 1)}, Text: "b"},
				{Range: &protocol.Range{Start: at(0, 2), End: at(0, 2)}, Text: "c"},
			},
			want: "abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyChanges(tt.text, tt.changes); got != tt.want {
				t.Fatalf("applyChanges = %q, want %q", got, tt.want)
			}
		})
	}
}
