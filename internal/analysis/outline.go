package analysis

import (
	"strings"

	"firerules/internal/ast"
	"firerules/internal/source"
)

type SymbolKind uint8

const (
	SymbolMatch SymbolKind = iota
	SymbolFunction
	SymbolVariable
	SymbolRule
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolMatch:
		return "match"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "let"
	case SymbolRule:
		return "allow"
	}
	return "unknown"
}

// Symbol is one entry of the document outline.
type Symbol struct {
	Kind     SymbolKind
	Name     string
	Detail   string
	Span     source.Span
	NameSpan source.Span
	Children []Symbol
}

// Outline lists the declarations of the document as a tree that follows
// match nesting.
func (d *Document) Outline() []Symbol {
	if d.AST.Tree == nil {
		return nil
	}
	return outlineBody(d.AST.Tree.Body)
}

func outlineBody(body *ast.MatchBody) []Symbol {
	if body == nil {
		return nil
	}
	var out []Symbol
	for _, fn := range body.Functions {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name
		}
		sym := Symbol{
			Kind:     SymbolFunction,
			Name:     fn.Name,
			Detail:   "(" + strings.Join(params, ", ") + ")",
			Span:     fn.Span(),
			NameSpan: fn.NameSpan,
		}
		if fn.Body != nil {
			for _, def := range fn.Body.Definitions {
				sym.Children = append(sym.Children, Symbol{
					Kind:     SymbolVariable,
					Name:     def.Name.Name,
					Span:     def.Span(),
					NameSpan: def.Name.Span(),
				})
			}
		}
		out = append(out, sym)
	}
	for _, rule := range body.Rules {
		methods := make([]string, len(rule.Methods))
		for i, m := range rule.Methods {
			methods[i] = m.Name
		}
		out = append(out, Symbol{
			Kind:     SymbolRule,
			Name:     "allow " + strings.Join(methods, ", "),
			Span:     rule.Span(),
			NameSpan: rule.Span(),
		})
	}
	for _, m := range body.Matches {
		sym := Symbol{
			Kind:     SymbolMatch,
			Span:     m.Span(),
			NameSpan: m.Span(),
			Children: outlineBody(m.Body),
		}
		if m.Path != nil {
			sym.Name = m.Path.String()
			sym.NameSpan = m.Path.Span()
		}
		out = append(out, sym)
	}
	return out
}
