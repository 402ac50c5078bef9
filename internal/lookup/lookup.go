// Package lookup maps a source position to the chain of typed nodes that
// enclose it.
package lookup

import (
	"firerules/internal/ast"
	"firerules/internal/source"
)

// Contains reports whether p lies inside span, both ends included.
func Contains(span source.Span, p source.Point) bool {
	return span.Contains(p)
}

// Lookup returns the ancestor chain for p, root first and innermost last.
// At each level the first child in enumeration order that contains p wins.
// The chain is empty when the root does not contain p.
func Lookup(tree *ast.FirestoreTree, p source.Point) []ast.Node {
	if tree == nil || !Contains(tree.Span(), p) {
		return nil
	}
	chain := []ast.Node{tree}
	var node ast.Node = tree
	for {
		next := childAt(node, p)
		if next == nil {
			return chain
		}
		chain = append(chain, next)
		node = next
	}
}

func childAt(n ast.Node, p source.Point) ast.Node {
	for _, c := range n.Children() {
		if Contains(c.Span(), p) {
			return c
		}
	}
	return nil
}

// Innermost returns the last node of the chain for p, or nil.
func Innermost(tree *ast.FirestoreTree, p source.Point) ast.Node {
	chain := Lookup(tree, p)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}
