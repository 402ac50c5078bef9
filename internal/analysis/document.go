package analysis

import (
	"fmt"

	"firerules/internal/ast"
	"firerules/internal/diag"
	"firerules/internal/diagnose"
	"firerules/internal/lookup"
	"firerules/internal/observ"
	"firerules/internal/scope"
	"firerules/internal/semtok"
	"firerules/internal/source"
	"firerules/internal/syntax"
)

// Options configures how documents are analyzed.
type Options struct {
	MaxDepth int
	Policy   scope.Policy
	// Builtins are call names exempt from the unresolved function check;
	// none by default.
	Builtins []string
}

func DefaultOptions() Options {
	return Options{
		MaxDepth: syntax.DefaultMaxDepth,
		Policy:   scope.OutermostFirst,
	}
}

// Document is the analysis result for one version of one source text. It is
// never mutated after Parse returns.
type Document struct {
	URI     string
	Version int32
	File    *source.File
	CST     *syntax.Tree
	AST     ast.EvaluatedTree

	SyntaxDiags   []diag.Diagnostic
	VersionDiags  []diag.Diagnostic
	SemanticDiags []diag.Diagnostic

	Timings observ.Report

	resolver *scope.Resolver
}

// Parse runs every pass over file.
func Parse(uri string, version int32, file *source.File, opts Options) *Document {
	timer := observ.NewTimer()
	doc := &Document{
		URI:      uri,
		Version:  version,
		File:     file,
		resolver: scope.NewResolver(opts.Policy),
	}

	stop := timer.Phase("parse")
	doc.CST = syntax.Parse(file, syntax.Options{MaxDepth: opts.MaxDepth})
	stop(fmt.Sprintf("%d bytes", len(file.Content)))

	stop = timer.Phase("build")
	doc.AST = ast.Build(doc.CST, ast.Options{MaxDepth: opts.MaxDepth})
	stop("")

	stop = timer.Phase("diagnose")
	doc.SyntaxDiags = diagnose.Syntax(doc.CST.Root)
	doc.VersionDiags = diagnose.Version(doc.CST.Root, file.Content)
	doc.SemanticDiags = diagnose.Semantic(doc.AST.Tree, doc.resolver, diagnose.SemanticOptions{Builtins: opts.Builtins})
	stop(fmt.Sprintf("%d found", len(doc.SyntaxDiags)+len(doc.VersionDiags)+len(doc.SemanticDiags)))

	doc.Timings = timer.Report()
	return doc
}

// Diagnostics merges the syntax, header and semantic lists in that order.
func (d *Document) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(d.SyntaxDiags)+len(d.VersionDiags)+len(d.SemanticDiags))
	out = append(out, d.SyntaxDiags...)
	out = append(out, d.VersionDiags...)
	out = append(out, d.SemanticDiags...)
	return out
}

// HasErrors reports whether any diagnostic is an error.
func (d *Document) HasErrors() bool {
	for _, group := range [][]diag.Diagnostic{d.SyntaxDiags, d.VersionDiags, d.SemanticDiags} {
		for _, x := range group {
			if x.Severity >= diag.SevError {
				return true
			}
		}
	}
	return false
}

func (d *Document) Lookup(p source.Point) []ast.Node {
	return lookup.Lookup(d.AST.Tree, p)
}

// Definition resolves the reference under p.
func (d *Document) Definition(p source.Point) (scope.Definition, error) {
	return d.resolver.Resolve(d.Lookup(p))
}

// Definitions lists every function and let definition of the document.
func (d *Document) Definitions() []ast.Definition {
	return ast.Definitions(d.AST.Tree)
}

// Tokens returns absolute semantic tokens with byte columns, one per
// classified node.
func (d *Document) Tokens() []semtok.AbsoluteToken {
	return semtok.Absolute(d.CST.Root, d.File)
}
