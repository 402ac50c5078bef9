package ast

import "firerules/internal/source"

// Node is any vertex of the typed tree.
type Node interface {
	Span() source.Span
	// Children returns the direct children in their fixed enumeration order.
	Children() []Node
}

type base struct {
	span source.Span
}

func (b base) Span() source.Span { return b.span }

// FirestoreTree is the root: the body of the service declaration.
type FirestoreTree struct {
	base
	Body *MatchBody
}

func (t *FirestoreTree) Children() []Node {
	if t.Body == nil {
		return nil
	}
	return []Node{t.Body}
}

// MatchBody is the content of a service or match block.
type MatchBody struct {
	base
	Functions []*Function
	Rules     []*Rule
	Matches   []*Match
}

func (b *MatchBody) Children() []Node {
	out := make([]Node, 0, len(b.Functions)+len(b.Rules)+len(b.Matches))
	for _, f := range b.Functions {
		out = append(out, f)
	}
	for _, r := range b.Rules {
		out = append(out, r)
	}
	for _, m := range b.Matches {
		out = append(out, m)
	}
	return out
}

// Empty reports whether the body declares nothing.
func (b *MatchBody) Empty() bool {
	return len(b.Functions) == 0 && len(b.Rules) == 0 && len(b.Matches) == 0
}

type Match struct {
	base
	Path *MatchPath
	Body *MatchBody
}

func (m *Match) Children() []Node {
	out := make([]Node, 0, 2)
	if m.Path != nil {
		out = append(out, m.Path)
	}
	if m.Body != nil {
		out = append(out, m.Body)
	}
	return out
}

type MatchPath struct {
	base
	Parts []*MatchPathPart
}

func (p *MatchPath) Children() []Node {
	out := make([]Node, 0, len(p.Parts))
	for _, part := range p.Parts {
		out = append(out, part)
	}
	return out
}

// String renders the path as written, e.g. /users/{uid}/{rest=**}.
func (p *MatchPath) String() string {
	s := ""
	for _, part := range p.Parts {
		s += "/" + part.String()
	}
	return s
}

type PathPartKind uint8

const (
	// PathCollection is a literal segment such as `users`.
	PathCollection PathPartKind = iota
	// PathSingle captures one segment: {id}.
	PathSingle
	// PathMulti captures the remaining segments: {rest=**}.
	PathMulti
)

// MatchPathPart is one segment of a match path. For captures Value is the
// bound name.
type MatchPathPart struct {
	base
	Kind  PathPartKind
	Value string
}

func (*MatchPathPart) Children() []Node { return nil }

func (p *MatchPathPart) String() string {
	switch p.Kind {
	case PathSingle:
		return "{" + p.Value + "}"
	case PathMulti:
		return "{" + p.Value + "=**}"
	default:
		return p.Value
	}
}

type Function struct {
	base
	Name     string
	NameSpan source.Span
	Params   []*Variable
	Body     *FunctionBody
}

func (f *Function) Children() []Node {
	out := make([]Node, 0, len(f.Params)+1)
	for _, p := range f.Params {
		out = append(out, p)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	}
	return out
}

type FunctionBody struct {
	base
	Definitions []*VariableDefinition
	Return      Expr
}

func (b *FunctionBody) Children() []Node {
	out := make([]Node, 0, len(b.Definitions)+1)
	for _, d := range b.Definitions {
		out = append(out, d)
	}
	if b.Return != nil {
		out = append(out, b.Return)
	}
	return out
}

// VariableDefinition is `let name = value;`.
type VariableDefinition struct {
	base
	Name  *Variable
	Value Expr
}

func (d *VariableDefinition) Children() []Node {
	out := []Node{d.Name}
	if d.Value != nil {
		out = append(out, d.Value)
	}
	return out
}

// Rule is an allow statement.
type Rule struct {
	base
	Methods   []*Method
	Condition Expr
}

func (r *Rule) Children() []Node {
	out := make([]Node, 0, len(r.Methods)+1)
	for _, m := range r.Methods {
		out = append(out, m)
	}
	if r.Condition != nil {
		out = append(out, r.Condition)
	}
	return out
}

// Variable is a declared name: a function parameter or the target of a let.
type Variable struct {
	base
	Name string
}

func (*Variable) Children() []Node { return nil }

// Method is one operation named in an allow statement (read, write, ...).
type Method struct {
	base
	Name string
}

func (*Method) Children() []Node { return nil }

// ErrorNode records source text the builder could not map.
type ErrorNode struct {
	Text string
	Span source.Span
}

// EvaluatedTree is the result of building one document version.
type EvaluatedTree struct {
	Tree   *FirestoreTree
	Errors []ErrorNode
}
