package diagnose

import (
	"firerules/internal/ast"
	"firerules/internal/diag"
	"firerules/internal/scope"
)

const MsgNoFunction = "No function definition found"

// RuntimeBuiltins are global functions provided by the rules runtime. They
// are reported like any other unresolved call unless passed in
// SemanticOptions.Builtins.
var RuntimeBuiltins = []string{
	"bool", "debug", "exists", "existsAfter", "float", "get", "getAfter",
	"int", "path", "string",
}

type SemanticOptions struct {
	// Builtins lists call names that need no definition in the document.
	// Empty means every unresolved call is reported.
	Builtins []string
}

// Semantic walks the typed tree in fixed child order and reports calls that
// no enclosing match body defines. Variable references are not checked.
func Semantic(tree *ast.FirestoreTree, r *scope.Resolver, opts SemanticOptions) []diag.Diagnostic {
	if tree == nil {
		return nil
	}
	if r == nil {
		r = scope.NewResolver(scope.OutermostFirst)
	}
	builtin := make(map[string]bool, len(opts.Builtins))
	for _, name := range opts.Builtins {
		builtin[name] = true
	}

	var out []diag.Diagnostic
	ast.Walk(tree, func(n ast.Node, ancestors []ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || builtin[call.Name] {
			return true
		}
		if _, err := r.ResolveCall(call.Name, ancestors); err != nil {
			out = append(out, diag.NewError(diag.SemaUnresolvedFunction, call.Span(), MsgNoFunction))
		}
		return true
	})
	return out
}
