// Package scope resolves a reference under the cursor to its definition.
//
// Scopes are MatchBody nodes (functions), Match nodes (path captures) and
// FunctionBody nodes (let definitions). Which enclosing scope wins when
// several declare the same name is a Policy.
package scope

import (
	"errors"
	"fmt"

	"firerules/internal/ast"
	"firerules/internal/source"
)

var (
	// ErrNoTarget means the chain holds no function call or variable reference.
	ErrNoTarget = errors.New("no reference to resolve")
	// ErrUnresolved means no enclosing scope declares the referenced name.
	ErrUnresolved = errors.New("no definition found")
)

type Policy uint8

const (
	// OutermostFirst searches enclosing scopes from the root inwards, so an
	// outer declaration hides an inner one with the same name.
	OutermostFirst Policy = iota
	// InnermostFirst searches from the reference outwards (lexical shadowing).
	InnermostFirst
)

func (p Policy) String() string {
	switch p {
	case OutermostFirst:
		return "outermost"
	case InnermostFirst:
		return "innermost"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "outermost":
		return OutermostFirst, nil
	case "innermost":
		return InnermostFirst, nil
	default:
		return OutermostFirst, fmt.Errorf("unknown scope policy %q (want outermost or innermost)", s)
	}
}

// Definition is what a reference resolved to.
type Definition struct {
	Name string
	// Span covers the declaring node: the function, the path capture
	// segment, or the let statement.
	Span source.Span
	// NameSpan covers just the declared name.
	NameSpan source.Span
	// Node is a *ast.Function, *ast.MatchPathPart or *ast.VariableDefinition.
	Node ast.Node
}

type Resolver struct {
	policy Policy
}

func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

func (r *Resolver) Policy() Policy { return r.policy }

// Target finds the innermost call or variable reference of chain and returns
// it together with the chain prefix strictly enclosing it.
func Target(chain []ast.Node) (target ast.Expr, outer []ast.Node, err error) {
	if len(chain) < 2 {
		return nil, nil, ErrNoTarget
	}
	for i := len(chain) - 1; i >= 0; i-- {
		switch n := chain[i].(type) {
		case *ast.CallExpr:
			return n, chain[:i], nil
		case *ast.VariableExpr:
			return n, chain[:i], nil
		}
	}
	return nil, nil, ErrNoTarget
}

// Resolve resolves the innermost reference of an ancestor chain.
func (r *Resolver) Resolve(chain []ast.Node) (Definition, error) {
	target, outer, err := Target(chain)
	if err != nil {
		return Definition{}, err
	}
	switch t := target.(type) {
	case *ast.CallExpr:
		return r.ResolveCall(t.Name, outer)
	case *ast.VariableExpr:
		return r.ResolveVariable(t.Name, outer)
	}
	return Definition{}, ErrNoTarget
}

// ResolveCall looks for a function named name in the MatchBody scopes of outer.
func (r *Resolver) ResolveCall(name string, outer []ast.Node) (Definition, error) {
	var found *ast.Function
	r.scan(outer, func(n ast.Node) bool {
		body, ok := n.(*ast.MatchBody)
		if !ok {
			return false
		}
		for _, fn := range body.Functions {
			if fn.Name == name {
				found = fn
				return true
			}
		}
		return false
	})
	if found == nil {
		return Definition{}, fmt.Errorf("function %q: %w", name, ErrUnresolved)
	}
	return Definition{Name: found.Name, Span: found.Span(), NameSpan: found.NameSpan, Node: found}, nil
}

// ResolveVariable looks for name among path captures of enclosing matches and
// let definitions of enclosing function bodies. Function parameters are not
// candidates.
func (r *Resolver) ResolveVariable(name string, outer []ast.Node) (Definition, error) {
	var def Definition
	r.scan(outer, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.Match:
			if s.Path == nil {
				return false
			}
			for _, part := range s.Path.Parts {
				if part.Kind == ast.PathSingle && part.Value == name {
					def = Definition{Name: name, Span: part.Span(), NameSpan: part.Span(), Node: part}
					return true
				}
			}
		case *ast.FunctionBody:
			for _, d := range s.Definitions {
				if d.Name.Name == name {
					def = Definition{Name: name, Span: d.Span(), NameSpan: d.Name.Span(), Node: d}
					return true
				}
			}
		}
		return false
	})
	if def.Node == nil {
		return Definition{}, fmt.Errorf("variable %q: %w", name, ErrUnresolved)
	}
	return def, nil
}

// scan visits the scopes in policy order until visit reports a match.
func (r *Resolver) scan(outer []ast.Node, visit func(ast.Node) bool) {
	if r.policy == InnermostFirst {
		for i := len(outer) - 1; i >= 0; i-- {
			if visit(outer[i]) {
				return
			}
		}
		return
	}
	for _, n := range outer {
		if visit(n) {
			return
		}
	}
}
