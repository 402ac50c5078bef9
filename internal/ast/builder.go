package ast

import "firerules/internal/syntax"

// DefaultMaxDepth bounds expression nesting the builder will descend into.
const DefaultMaxDepth = syntax.DefaultMaxDepth

type Options struct {
	MaxDepth int
}

// Builder converts one syntax tree into an EvaluatedTree.
type Builder struct {
	src      []byte
	maxDepth int
	depth    int
	errors   []ErrorNode
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{maxDepth: opts.MaxDepth}
	if b.maxDepth <= 0 {
		b.maxDepth = DefaultMaxDepth
	}
	return b
}

// Build is a convenience wrapper around NewBuilder(opts).Build(tree).
func Build(tree *syntax.Tree, opts Options) EvaluatedTree {
	return NewBuilder(opts).Build(tree)
}

// Build walks the syntax tree. Only a malformed top level is fatal: it yields
// one ErrorNode and an empty body. Everything below degrades to nil slots.
func (b *Builder) Build(tree *syntax.Tree) EvaluatedTree {
	b.src = tree.Source()
	b.errors = nil
	b.depth = 0

	root := tree.Root
	out := &FirestoreTree{base: base{root.Span()}}

	top := significant(root)
	service, offending := checkTopLevel(root, top)
	if offending != nil {
		b.errorAt(offending)
		out.Body = &MatchBody{base: base{root.Span()}}
		return EvaluatedTree{Tree: out, Errors: b.errors}
	}

	out.Body = b.buildMatchBody(service.ChildByFieldName(syntax.FieldBody))
	if out.Body == nil {
		out.Body = &MatchBody{base: base{service.Span()}}
	}
	for _, c := range top {
		if c.IsError() {
			b.errorAt(c)
		}
	}
	return EvaluatedTree{Tree: out, Errors: b.errors}
}

// checkTopLevel looks at the first two children: either service_def, or
// rules_version followed by service_def. It returns the service node or the
// child that broke the shape.
func checkTopLevel(root *syntax.Node, top []*syntax.Node) (service, offending *syntax.Node) {
	if len(top) == 0 {
		return nil, root
	}
	first := top[0]
	switch first.Kind() {
	case syntax.KindServiceDef:
		service = first
	case syntax.KindRulesVersion:
		if len(top) < 2 {
			return nil, first
		}
		if top[1].Kind() != syntax.KindServiceDef {
			return nil, top[1]
		}
		service = top[1]
	default:
		return nil, first
	}
	if service.IsMissing() {
		return nil, service
	}
	return service, nil
}

// significant drops comments and other extras.
func significant(n *syntax.Node) []*syntax.Node {
	out := make([]*syntax.Node, 0, n.ChildCount())
	for _, c := range n.Children() {
		if !c.IsExtra() {
			out = append(out, c)
		}
	}
	return out
}

func (b *Builder) errorAt(n *syntax.Node) {
	b.errors = append(b.errors, ErrorNode{Text: n.Content(b.src), Span: n.Span()})
}

func (b *Builder) text(n *syntax.Node) string { return n.Content(b.src) }

// present reports whether n is a usable subtree.
func present(n *syntax.Node) bool {
	return n != nil && !n.IsMissing() && !n.IsError()
}

// opened reports whether a block node actually starts with its brace.
func opened(n *syntax.Node) bool {
	if n == nil || n.ChildCount() == 0 {
		return false
	}
	return !n.Child(0).IsMissing()
}

func (b *Builder) buildMatchBody(n *syntax.Node) *MatchBody {
	if !opened(n) {
		return nil
	}
	body := &MatchBody{base: base{n.Span()}}
	for _, c := range n.NamedChildren() {
		switch c.Kind() {
		case syntax.KindMatchDef:
			if m := b.buildMatch(c); m != nil {
				body.Matches = append(body.Matches, m)
			}
		case syntax.KindFunctionDef:
			if f := b.buildFunction(c); f != nil {
				body.Functions = append(body.Functions, f)
			}
		case syntax.KindRuleDef:
			body.Rules = append(body.Rules, b.buildRule(c))
		case syntax.KindError:
			b.errorAt(c)
		}
	}
	return body
}

func (b *Builder) buildMatch(n *syntax.Node) *Match {
	m := &Match{base: base{n.Span()}}
	if path := n.ChildByFieldName(syntax.FieldPath); path != nil {
		m.Path = b.buildMatchPath(path)
	}
	m.Body = b.buildMatchBody(n.ChildByFieldName(syntax.FieldBody))
	return m
}

func (b *Builder) buildMatchPath(n *syntax.Node) *MatchPath {
	path := &MatchPath{base: base{n.Span()}}
	for _, seg := range n.ChildrenByFieldName(syntax.FieldSegment) {
		if !present(seg) {
			continue
		}
		part := &MatchPathPart{base: base{seg.Span()}}
		switch seg.Kind() {
		case syntax.KindCollectionSeg:
			part.Kind = PathCollection
			part.Value = b.text(seg)
		case syntax.KindSingleSeg, syntax.KindMultiSeg:
			name := seg.ChildByFieldName(syntax.FieldName)
			if !present(name) {
				continue
			}
			part.Kind = PathSingle
			if seg.Kind() == syntax.KindMultiSeg {
				part.Kind = PathMulti
			}
			part.Value = b.text(name)
		default:
			continue
		}
		path.Parts = append(path.Parts, part)
	}
	return path
}

func (b *Builder) buildFunction(n *syntax.Node) *Function {
	name := n.ChildByFieldName(syntax.FieldName)
	if !present(name) {
		return nil
	}
	fn := &Function{
		base:     base{n.Span()},
		Name:     b.text(name),
		NameSpan: name.Span(),
	}
	for _, param := range n.ChildrenByFieldName(syntax.FieldParam) {
		ident := param.Child(0)
		if !present(ident) {
			continue
		}
		fn.Params = append(fn.Params, &Variable{base: base{ident.Span()}, Name: b.text(ident)})
	}
	fn.Body = b.buildFunctionBody(n.ChildByFieldName(syntax.FieldBody))
	return fn
}

func (b *Builder) buildFunctionBody(n *syntax.Node) *FunctionBody {
	if !opened(n) {
		return nil
	}
	body := &FunctionBody{base: base{n.Span()}}
	for _, c := range n.NamedChildren() {
		switch c.Kind() {
		case syntax.KindVariableDef:
			if def := b.buildVariableDef(c); def != nil {
				body.Definitions = append(body.Definitions, def)
			}
		case syntax.KindReturnStatement:
			body.Return = b.buildExpr(c.ChildByFieldName(syntax.FieldValue))
		case syntax.KindError:
			b.errorAt(c)
		}
	}
	return body
}

func (b *Builder) buildVariableDef(n *syntax.Node) *VariableDefinition {
	name := n.ChildByFieldName(syntax.FieldName)
	if !present(name) {
		return nil
	}
	return &VariableDefinition{
		base:  base{n.Span()},
		Name:  &Variable{base: base{name.Span()}, Name: b.text(name)},
		Value: b.buildExpr(n.ChildByFieldName(syntax.FieldValue)),
	}
}

func (b *Builder) buildRule(n *syntax.Node) *Rule {
	rule := &Rule{base: base{n.Span()}}
	for _, m := range n.ChildrenByFieldName(syntax.FieldMethod) {
		if present(m) {
			rule.Methods = append(rule.Methods, &Method{base: base{m.Span()}, Name: b.text(m)})
		}
	}
	rule.Condition = b.buildExpr(n.ChildByFieldName(syntax.FieldCondition))
	return rule
}

func spanOf(n *syntax.Node) base { return base{n.Span()} }
