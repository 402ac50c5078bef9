package diagnose

import (
	"fmt"

	"firerules/internal/diag"
	"firerules/internal/syntax"
)

const (
	MsgError   = "Error"
	MsgMissing = "Missing `%s`"
)

// Syntax reports every ERROR node as "Error" and every MISSING placeholder as
// "Missing `<kind>`". Flagged nodes are not descended into.
func Syntax(root *syntax.Node) []diag.Diagnostic {
	if root == nil {
		return nil
	}
	var out []diag.Diagnostic
	stack := []*syntax.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case n.IsMissing():
			out = append(out, diag.NewError(diag.SynMissing, n.Span(), fmt.Sprintf(MsgMissing, n.Kind())))
			continue
		case n.IsError():
			out = append(out, diag.NewError(diag.SynError, n.Span(), MsgError))
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}
