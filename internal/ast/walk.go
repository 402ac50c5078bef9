package ast

import "firerules/internal/source"

// Walk visits n and its descendants depth-first in Children order. fn gets
// the chain of ancestors from the root down to (excluding) the node; the
// slice is reused between calls and must be copied to be kept. Returning
// false skips the node's children.
func Walk(n Node, fn func(n Node, ancestors []Node) bool) {
	if n == nil {
		return
	}
	stack := make([]Node, 0, 16)
	var visit func(Node)
	visit = func(n Node) {
		if !fn(n, stack) {
			return
		}
		stack = append(stack, n)
		for _, c := range n.Children() {
			visit(c)
		}
		stack = stack[:len(stack)-1]
	}
	visit(n)
}

// Definition is one named declaration of the document.
type Definition struct {
	Name     string
	NameSpan source.Span
	// Node is a *Function or a *VariableDefinition.
	Node Node
}

// Definitions flattens every function and let definition reachable from the
// tree, in traversal order.
func Definitions(tree *FirestoreTree) []Definition {
	var out []Definition
	Walk(tree, func(n Node, _ []Node) bool {
		switch d := n.(type) {
		case *Function:
			out = append(out, Definition{Name: d.Name, NameSpan: d.NameSpan, Node: d})
		case *VariableDefinition:
			out = append(out, Definition{Name: d.Name.Name, NameSpan: d.Name.Span(), Node: d})
		case Expr:
			return false
		}
		return true
	})
	return out
}
