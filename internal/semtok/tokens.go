package semtok

import (
	"fmt"

	"firerules/internal/source"
	"firerules/internal/syntax"
)

// AbsoluteToken is one classified range on a single row. Col and Length are
// byte based until converted with ToUTF16.
type AbsoluteToken struct {
	Row       uint32
	Col       uint32
	Length    uint32
	Type      Type
	Modifiers uint32
}

type frame struct {
	node   *syntax.Node
	parent string
}

// Absolute walks the tree in pre-order and emits one token for every node
// that classifies, at the node's start with its full byte length. Children of
// a classified node are not visited.
func Absolute(root *syntax.Node, file *source.File) []AbsoluteToken {
	if root == nil {
		return nil
	}
	var out []AbsoluteToken
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := top.node
		if n.IsEmpty() {
			continue
		}
		if c, ok := Classify(n.Kind(), top.parent); ok {
			start := n.StartPoint()
			out = append(out, AbsoluteToken{
				Row:       start.Row,
				Col:       start.Column,
				Length:    n.EndByte() - n.StartByte(),
				Type:      c.Type,
				Modifiers: c.Modifiers,
			})
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], parent: n.Kind()})
		}
	}
	return out
}

// SplitLines cuts tokens that run past the end of their row into one token
// per row, dropping the newlines. Clients that cannot show multi-line tokens
// need this before ToUTF16.
func SplitLines(tokens []AbsoluteToken, file *source.File) []AbsoluteToken {
	out := make([]AbsoluteToken, 0, len(tokens))
	for _, t := range tokens {
		lineStart, lineEnd := file.LineBounds(t.Row)
		from := lineStart + t.Col
		end := from + t.Length
		if end <= lineEnd {
			out = append(out, t)
			continue
		}
		for row := t.Row; int(row) < file.LineCount(); row++ {
			lineStart, lineEnd = file.LineBounds(row)
			lo, hi := max(from, lineStart), min(end, lineEnd)
			if hi > lo {
				part := t
				part.Row, part.Col, part.Length = row, lo-lineStart, hi-lo
				out = append(out, part)
			}
			if lineEnd >= end {
				break
			}
		}
	}
	return out
}

// ToUTF16 rewrites byte columns and lengths as UTF-16 code units.
func ToUTF16(tokens []AbsoluteToken, file *source.File) []AbsoluteToken {
	out := make([]AbsoluteToken, len(tokens))
	for i, t := range tokens {
		from := file.UTF16Column(source.Point{Row: t.Row, Column: t.Col})
		to := file.UTF16Column(source.Point{Row: t.Row, Column: t.Col + t.Length})
		t.Col, t.Length = from, to-from
		out[i] = t
	}
	return out
}

// Encode produces the relative form: the first token keeps its absolute row
// and column; later tokens carry the row delta, and the column delta only
// when they share a row with the previous token.
func Encode(tokens []AbsoluteToken) []uint32 {
	out := make([]uint32, 0, len(tokens)*5)
	var prev AbsoluteToken
	for i, t := range tokens {
		row, col := t.Row, t.Col
		if i > 0 {
			row = t.Row - prev.Row
			if t.Row == prev.Row {
				col = t.Col - prev.Col
			}
		}
		out = append(out, row, col, t.Length, uint32(t.Type), t.Modifiers)
		prev = t
	}
	return out
}

// Decode reverses Encode.
func Decode(data []uint32) ([]AbsoluteToken, error) {
	if len(data)%5 != 0 {
		return nil, fmt.Errorf("semantic token data length %d is not a multiple of 5", len(data))
	}
	out := make([]AbsoluteToken, 0, len(data)/5)
	var prev AbsoluteToken
	for i := 0; i < len(data); i += 5 {
		t := AbsoluteToken{Row: data[i], Col: data[i+1], Length: data[i+2], Type: Type(data[i+3]), Modifiers: data[i+4]}
		if len(out) > 0 {
			t.Row += prev.Row
			if data[i] == 0 {
				t.Col += prev.Col
			}
		}
		out = append(out, t)
		prev = t
	}
	return out, nil
}
