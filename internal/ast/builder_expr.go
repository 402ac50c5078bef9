package ast

import "firerules/internal/syntax"

// buildExpr dispatches on the CST kind. A handler whose node does not have
// the expected shape returns nil instead of failing.
func (b *Builder) buildExpr(n *syntax.Node) Expr {
	if !present(n) {
		return nil
	}
	b.depth++
	defer func() { b.depth-- }()
	if b.depth > b.maxDepth {
		return nil
	}

	switch n.Kind() {
	case syntax.KindTernary:
		return b.buildTernary(n)
	case syntax.KindOr, syntax.KindAnd, syntax.KindRelation, syntax.KindAddition,
		syntax.KindMultiplication, syntax.KindContains:
		return b.buildBinary(n)
	case syntax.KindTypeComparison:
		return b.buildTypeComparison(n)
	case syntax.KindUnary:
		return b.buildUnary(n)
	case syntax.KindMember:
		return b.buildMember(n)
	case syntax.KindIndexing:
		return b.buildIndexing(n)
	default:
		return b.buildPrimary(n)
	}
}

// arity checks the number of non-extra children.
func arity(n *syntax.Node, want int) bool {
	return len(significant(n)) == want
}

func (b *Builder) buildTernary(n *syntax.Node) Expr {
	if !arity(n, 5) {
		return nil
	}
	return &TernaryExpr{
		base: spanOf(n),
		Cond: b.buildExpr(n.ChildByFieldName(syntax.FieldCondition)),
		Then: b.buildExpr(n.ChildByFieldName(syntax.FieldConsequence)),
		Else: b.buildExpr(n.ChildByFieldName(syntax.FieldAlternative)),
	}
}

func (b *Builder) buildBinary(n *syntax.Node) Expr {
	if !arity(n, 3) {
		return nil
	}
	op, _ := LookupBinaryOp(b.text(n.ChildByFieldName(syntax.FieldOperator)))
	return &BinaryExpr{
		base:  spanOf(n),
		Op:    op,
		Left:  b.buildExpr(n.ChildByFieldName(syntax.FieldLeft)),
		Right: b.buildExpr(n.ChildByFieldName(syntax.FieldRight)),
	}
}

// `x is string`: the type name on the right is kept as a variable reference.
func (b *Builder) buildTypeComparison(n *syntax.Node) Expr {
	if !arity(n, 3) {
		return nil
	}
	e := &BinaryExpr{
		base: spanOf(n),
		Op:   BinaryIs,
		Left: b.buildExpr(n.ChildByFieldName(syntax.FieldLeft)),
	}
	if right := n.ChildByFieldName(syntax.FieldRight); present(right) {
		e.Right = &VariableExpr{base: spanOf(right), Name: b.text(right)}
	}
	return e
}

func (b *Builder) buildUnary(n *syntax.Node) Expr {
	if !arity(n, 2) {
		return nil
	}
	return &UnaryExpr{
		base:    spanOf(n),
		Op:      unaryOps[b.text(n.ChildByFieldName(syntax.FieldOperator))],
		Operand: b.buildExpr(n.ChildByFieldName(syntax.FieldOperand)),
	}
}

func (b *Builder) buildMember(n *syntax.Node) Expr {
	if !arity(n, 3) {
		return nil
	}
	e := &MemberExpr{base: spanOf(n)}
	if obj := n.ChildByFieldName(syntax.FieldObject); present(obj) {
		e.Object = &MemberObjectExpr{base: spanOf(obj), Inner: b.buildExpr(obj)}
	}
	field := n.ChildByFieldName(syntax.FieldField)
	if !present(field) {
		return e
	}
	switch field.Kind() {
	case syntax.KindFieldIdentifier:
		e.Field = &MemberFieldExpr{
			base:  spanOf(field),
			Inner: &MemberVariableExpr{base: spanOf(field), Name: b.text(field)},
		}
	case syntax.KindFunctionCall:
		if call, ok := b.buildCall(field).(*CallExpr); ok {
			e.Field = &MemberFieldExpr{
				base: spanOf(field),
				Inner: &MemberFunctionExpr{
					base:     call.base,
					Name:     call.Name,
					NameSpan: call.NameSpan,
					Args:     call.Args,
				},
			}
		}
	}
	return e
}

func (b *Builder) buildIndexing(n *syntax.Node) Expr {
	if !arity(n, 4) {
		return nil
	}
	e := &IndexExpr{
		base:   spanOf(n),
		Object: b.buildExpr(n.ChildByFieldName(syntax.FieldObject)),
	}
	idx := n.ChildByFieldName(syntax.FieldIndex)
	if present(idx) && idx.Kind() == syntax.KindRange {
		e.Index = &RangeExpr{
			base:  spanOf(idx),
			Start: b.buildExpr(idx.ChildByFieldName(syntax.FieldStart)),
			End:   b.buildExpr(idx.ChildByFieldName(syntax.FieldEnd)),
		}
	} else {
		e.Index = b.buildExpr(idx)
	}
	return e
}

func (b *Builder) buildPrimary(n *syntax.Node) Expr {
	switch n.Kind() {
	case syntax.KindParenthesized:
		if !arity(n, 3) {
			return nil
		}
		return &GroupExpr{base: spanOf(n), Inner: b.buildExpr(n.ChildByFieldName(syntax.FieldExpression))}
	case syntax.KindFunctionCall:
		return b.buildCall(n)
	case syntax.KindList:
		e := &ListExpr{base: spanOf(n)}
		for _, el := range n.ChildrenByFieldName(syntax.FieldElement) {
			if item := b.buildExpr(el); item != nil {
				e.Items = append(e.Items, item)
			}
		}
		return e
	case syntax.KindMap:
		e := &MapExpr{base: spanOf(n)}
		for _, entry := range n.ChildrenByFieldName(syntax.FieldEntry) {
			if !arity(entry, 3) {
				continue
			}
			e.Entries = append(e.Entries, &MapEntryExpr{
				base:  spanOf(entry),
				Key:   b.buildExpr(entry.ChildByFieldName(syntax.FieldKey)),
				Value: b.buildExpr(entry.ChildByFieldName(syntax.FieldValue)),
			})
		}
		return e
	case syntax.KindPath:
		return b.buildPath(n)
	case syntax.KindIdentifier:
		return &VariableExpr{base: spanOf(n), Name: b.text(n)}
	case syntax.KindNumber:
		return &LiteralExpr{base: spanOf(n), Value: numberLiteral(b.text(n))}
	case syntax.KindString:
		return &LiteralExpr{base: spanOf(n), Value: stringLiteral(b.text(n))}
	case syntax.KindBoolean:
		raw := b.text(n)
		return &LiteralExpr{base: spanOf(n), Value: Literal{Kind: LitBool, Raw: raw, Bool: raw == "true"}}
	case syntax.KindNull:
		return &LiteralExpr{base: spanOf(n), Value: Literal{Kind: LitNull, Raw: b.text(n)}}
	}
	return nil
}

func (b *Builder) buildCall(n *syntax.Node) Expr {
	if !arity(n, 2) {
		return nil
	}
	name := n.ChildByFieldName(syntax.FieldName)
	if !present(name) {
		return nil
	}
	call := &CallExpr{base: spanOf(n), Name: b.text(name), NameSpan: name.Span()}
	if args := n.ChildByFieldName(syntax.FieldArguments); args != nil {
		for _, a := range args.NamedChildren() {
			if a.IsExtra() {
				continue
			}
			if arg := b.buildExpr(a); arg != nil {
				call.Args = append(call.Args, arg)
			}
		}
	}
	return call
}

func (b *Builder) buildPath(n *syntax.Node) Expr {
	e := &PathExpr{base: spanOf(n)}
	for _, seg := range n.ChildrenByFieldName(syntax.FieldSegment) {
		if !present(seg) {
			continue
		}
		switch seg.Kind() {
		case syntax.KindPathSegment:
			raw := b.text(seg)
			e.Segments = append(e.Segments, &LiteralExpr{
				base:  spanOf(seg),
				Value: Literal{Kind: LitString, Raw: raw, Str: raw},
			})
		case syntax.KindInterpolation:
			if inner := b.buildExpr(seg.ChildByFieldName(syntax.FieldExpression)); inner != nil {
				e.Segments = append(e.Segments, inner)
			}
		}
	}
	return e
}
