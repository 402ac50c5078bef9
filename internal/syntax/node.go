package syntax

import (
	"strings"

	"firerules/internal/source"
)

type nodeFlags uint8

const (
	flagNamed nodeFlags = 1 << iota
	flagError
	flagMissing
	flagExtra
)

// Node is one vertex of the concrete syntax tree. Anonymous nodes are tokens
// whose kind is their literal spelling ("{", "match", "=="). Named nodes
// carry grammar rule kinds such as "match_def" or "identifier".
//
// StartPoint/EndPoint follow the usual end-exclusive convention. Span returns
// the closed form used by the rest of the module.
type Node struct {
	kind  string
	flags nodeFlags

	startByte, endByte   uint32
	startPoint, endPoint source.Point
	// lastPoint is the first byte of the last character, or startPoint for
	// zero-width nodes.
	lastPoint source.Point

	parent   *Node
	children []*Node
	fields   []string
}

func (n *Node) Kind() string             { return n.kind }
func (n *Node) IsNamed() bool            { return n.flags&flagNamed != 0 }
func (n *Node) IsError() bool            { return n.flags&flagError != 0 }
func (n *Node) IsMissing() bool          { return n.flags&flagMissing != 0 }
func (n *Node) IsExtra() bool            { return n.flags&flagExtra != 0 }
func (n *Node) Parent() *Node            { return n.parent }
func (n *Node) StartByte() uint32        { return n.startByte }
func (n *Node) EndByte() uint32          { return n.endByte }
func (n *Node) ChildCount() int          { return len(n.children) }
func (n *Node) Children() []*Node        { return n.children }
func (n *Node) IsEmpty() bool            { return n.startByte == n.endByte }
func (n *Node) StartPoint() source.Point { return n.startPoint }
func (n *Node) EndPoint() source.Point   { return n.endPoint }

// Span converts the node range into a closed span.
func (n *Node) Span() source.Span {
	if n.IsEmpty() {
		return source.Span{Start: n.startPoint, End: n.startPoint}
	}
	return source.Span{Start: n.startPoint, End: n.lastPoint}
}

// HasError reports whether the node or any descendant is an error or missing node.
func (n *Node) HasError() bool {
	if n.IsError() || n.IsMissing() {
		return true
	}
	for _, c := range n.children {
		if c.HasError() {
			return true
		}
	}
	return false
}

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NamedChildren skips anonymous tokens. Extras such as comments are kept.
func (n *Node) NamedChildren() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.IsNamed() {
			out = append(out, c)
		}
	}
	return out
}

// FieldNameForChild returns the field the i-th child was attached under.
func (n *Node) FieldNameForChild(i int) string {
	if i < 0 || i >= len(n.fields) {
		return ""
	}
	return n.fields[i]
}

// ChildByFieldName returns the first child attached under name.
func (n *Node) ChildByFieldName(name string) *Node {
	for i, f := range n.fields {
		if f == name {
			return n.children[i]
		}
	}
	return nil
}

// ChildrenByFieldName returns every child attached under name, in order.
func (n *Node) ChildrenByFieldName(name string) []*Node {
	var out []*Node
	for i, f := range n.fields {
		if f == name {
			out = append(out, n.children[i])
		}
	}
	return out
}

// Content returns the source text covered by the node.
func (n *Node) Content(src []byte) string {
	if int(n.endByte) > len(src) || n.startByte > n.endByte {
		return ""
	}
	return string(src[n.startByte:n.endByte])
}

// String renders the tree as an s-expression of named nodes.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeSexp(&sb, "")
	return sb.String()
}

func (n *Node) writeSexp(sb *strings.Builder, field string) {
	if field != "" {
		sb.WriteString(field)
		sb.WriteString(": ")
	}
	sb.WriteByte('(')
	if n.IsMissing() {
		sb.WriteString("MISSING ")
	}
	sb.WriteString(n.kind)
	for i, c := range n.children {
		if !c.IsNamed() && !c.IsMissing() {
			continue
		}
		sb.WriteByte(' ')
		c.writeSexp(sb, n.fields[i])
	}
	sb.WriteByte(')')
}

func (n *Node) appendChild(field string, c *Node) {
	if len(n.children) == 0 {
		n.startByte, n.startPoint = c.startByte, c.startPoint
		n.lastPoint = c.startPoint
	}
	n.endByte, n.endPoint = c.endByte, c.endPoint
	if !c.IsEmpty() {
		n.lastPoint = c.lastPoint
	}
	c.parent = n
	n.children = append(n.children, c)
	n.fields = append(n.fields, field)
}
