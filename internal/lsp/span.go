package lsp

import (
	"fortio.org/safecast"
	"go.lsp.dev/protocol"

	"firerules/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

func positionForPoint(file *source.File, p source.Point) protocol.Position {
	return protocol.Position{Line: p.Row, Character: file.UTF16Column(p)}
}

func pointForPosition(file *source.File, pos protocol.Position) source.Point {
	return source.Point{Row: pos.Line, Column: file.ByteColumn(pos.Line, pos.Character)}
}

// rangeForSpan converts a closed span into an end-exclusive range. The end
// moves past the character it points at; a zero-width span therefore covers
// the character under it, or nothing at the end of a row.
func rangeForSpan(file *source.File, span source.Span) protocol.Range {
	if file == nil {
		return protocol.Range{}
	}
	end := span.End
	end.Column += file.RuneLenAt(end)
	return protocol.Range{
		Start: positionForPoint(file, span.Start),
		End:   positionForPoint(file, end),
	}
}
