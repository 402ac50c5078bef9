package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"firerules/internal/analysis"
	"firerules/internal/ast"
	"firerules/internal/source"
	"firerules/internal/syntax"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// writeTree печатает дерево в стиле ├─ / └─.
func writeTree(w io.Writer, root *treeNode) {
	fmt.Fprintln(w, root.label)
	writeChildren(w, root.children, "")
}

func writeChildren(w io.Writer, children []*treeNode, prefix string) {
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, c.label)
		writeChildren(w, c.children, prefix+next)
	}
}

func formatSpan(sp source.Span) string {
	return fmt.Sprintf("%d:%d-%d:%d", sp.Start.Row+1, sp.Start.Column+1, sp.End.Row+1, sp.End.Column+1)
}

// FormatCSTPretty prints every node of the concrete tree. Anonymous leaves
// show their text, named leaves their text in quotes.
func FormatCSTPretty(w io.Writer, tree *syntax.Tree) error {
	if tree == nil || tree.Root == nil {
		return fmt.Errorf("empty syntax tree")
	}
	writeTree(w, buildCSTNode(tree.Root, "", tree.Source()))
	return nil
}

func buildCSTNode(n *syntax.Node, field string, src []byte) *treeNode {
	var sb strings.Builder
	if field != "" {
		sb.WriteString(field + ": ")
	}
	if n.IsMissing() {
		sb.WriteString("MISSING ")
	}
	sb.WriteString(n.Kind())
	fmt.Fprintf(&sb, " [%s]", formatSpan(n.Span()))
	if n.ChildCount() == 0 && !n.IsEmpty() && n.IsNamed() {
		fmt.Fprintf(&sb, " %q", n.Content(src))
	}
	if n.IsExtra() {
		sb.WriteString(" (extra)")
	}
	node := &treeNode{label: sb.String()}
	for i, c := range n.Children() {
		node.children = append(node.children, buildCSTNode(c, n.FieldNameForChild(i), src))
	}
	return node
}

// FormatASTPretty prints the typed tree and the fragments the builder could
// not map.
func FormatASTPretty(w io.Writer, evaluated ast.EvaluatedTree) error {
	if evaluated.Tree == nil {
		fmt.Fprintln(w, "<no tree>")
	} else {
		writeTree(w, buildASTNode(evaluated.Tree))
	}
	for _, e := range evaluated.Errors {
		fmt.Fprintf(w, "error [%s] %q\n", formatSpan(e.Span), e.Text)
	}
	return nil
}

func buildASTNode(n ast.Node) *treeNode {
	node := &treeNode{label: fmt.Sprintf("%s [%s]", astLabel(n), formatSpan(n.Span()))}
	for _, c := range n.Children() {
		node.children = append(node.children, buildASTNode(c))
	}
	return node
}

func astLabel(n ast.Node) string {
	switch n := n.(type) {
	case *ast.FirestoreTree:
		return "FirestoreTree"
	case *ast.MatchBody:
		return "MatchBody"
	case *ast.Match:
		if n.Path != nil {
			return "Match " + n.Path.String()
		}
		return "Match"
	case *ast.MatchPath:
		return "MatchPath"
	case *ast.MatchPathPart:
		return "PathPart " + n.String()
	case *ast.Function:
		return "Function " + n.Name
	case *ast.FunctionBody:
		return "FunctionBody"
	case *ast.VariableDefinition:
		return "Let"
	case *ast.Rule:
		return "Rule"
	case *ast.Variable:
		return "Variable " + n.Name
	case *ast.Method:
		return "Method " + n.Name
	case *ast.UnaryExpr:
		return "Unary " + n.Op.String()
	case *ast.BinaryExpr:
		return "Binary " + n.Op.String()
	case *ast.CallExpr:
		return "Call " + n.Name
	case *ast.MemberVariableExpr:
		return "MemberVariable " + n.Name
	case *ast.MemberFunctionExpr:
		return "MemberFunction " + n.Name
	case *ast.VariableExpr:
		return "VariableExpr " + n.Name
	case *ast.LiteralExpr:
		return fmt.Sprintf("%s %s", n.Value.Kind, n.Value.Raw)
	case ast.Expr:
		return n.ExprKind().String()
	}
	return fmt.Sprintf("%T", n)
}

// FormatSymbolsPretty prints a document outline.
func FormatSymbolsPretty(w io.Writer, path string, symbols []analysis.Symbol) {
	root := &treeNode{label: path}
	root.children = symbolNodes(symbols)
	writeTree(w, root)
}

func symbolNodes(symbols []analysis.Symbol) []*treeNode {
	out := make([]*treeNode, 0, len(symbols))
	for _, s := range symbols {
		label := fmt.Sprintf("%s %s%s [%s]", s.Kind, s.Name, s.Detail, formatSpan(s.NameSpan))
		if s.Kind == analysis.SymbolRule {
			// имя правила уже начинается с "allow"
			label = fmt.Sprintf("%s [%s]", s.Name, formatSpan(s.NameSpan))
		}
		out = append(out, &treeNode{label: label, children: symbolNodes(s.Children)})
	}
	return out
}
