package analysis

import (
	"firerules/internal/ast"
	"firerules/internal/diag"
	"firerules/internal/diagnose"
	"firerules/internal/lookup"
	"firerules/internal/scope"
	"firerules/internal/semtok"
	"firerules/internal/source"
	"firerules/internal/syntax"
)

// ParseDocument parses and builds text with default options.
func ParseDocument(text string) (*ast.FirestoreTree, []ast.ErrorNode) {
	file := source.NewVirtualFile("document.rules", text)
	ev := ast.Build(syntax.Parse(file, syntax.Options{}), ast.Options{})
	return ev.Tree, ev.Errors
}

// LookupPosition returns the ancestor chain of p, root first.
func LookupPosition(tree *ast.FirestoreTree, p source.Point) []ast.Node {
	return lookup.Lookup(tree, p)
}

// ResolveReference resolves the innermost reference of chain with the
// outermost-first policy. chain must start at tree.
func ResolveReference(tree *ast.FirestoreTree, chain []ast.Node) (scope.Definition, bool) {
	if tree == nil || len(chain) == 0 || chain[0] != ast.Node(tree) {
		return scope.Definition{}, false
	}
	def, err := scope.NewResolver(scope.OutermostFirst).Resolve(chain)
	if err != nil {
		return scope.Definition{}, false
	}
	return def, true
}

func DiagnoseSyntax(root *syntax.Node) []diag.Diagnostic {
	return diagnose.Syntax(root)
}

func DiagnoseSemantic(tree *ast.FirestoreTree) []diag.Diagnostic {
	return diagnose.Semantic(tree, scope.NewResolver(scope.OutermostFirst), diagnose.SemanticOptions{})
}

// Tokenize returns delta-encoded semantic tokens with byte columns.
func Tokenize(tree *syntax.Tree) []uint32 {
	if tree == nil {
		return nil
	}
	return semtok.Encode(semtok.Absolute(tree.Root, tree.File))
}
