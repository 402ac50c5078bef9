package ast

import (
	"strconv"

	"firerules/internal/source"
)

type ExprKind uint8

const (
	ExprUnary ExprKind = iota + 1
	ExprBinary
	ExprTernary
	ExprMember
	ExprMemberObject
	ExprMemberField
	ExprMemberVariable
	ExprMemberFunction
	ExprIndex
	ExprCall
	ExprList
	ExprMap
	ExprMapEntry
	ExprPath
	ExprRange
	ExprGroup
	ExprLiteral
	ExprVariable
)

var exprKindNames = [...]string{
	ExprUnary:          "Unary",
	ExprBinary:         "Binary",
	ExprTernary:        "Ternary",
	ExprMember:         "Member",
	ExprMemberObject:   "MemberObject",
	ExprMemberField:    "MemberField",
	ExprMemberVariable: "MemberVariable",
	ExprMemberFunction: "MemberFunction",
	ExprIndex:          "Indexing",
	ExprCall:           "FunctionCall",
	ExprList:           "List",
	ExprMap:            "Map",
	ExprMapEntry:       "MapEntry",
	ExprPath:           "Path",
	ExprRange:          "Range",
	ExprGroup:          "ExprGroup",
	ExprLiteral:        "Literal",
	ExprVariable:       "Variable",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) && exprKindNames[k] != "" {
		return exprKindNames[k]
	}
	return "ExprKind(" + strconv.Itoa(int(k)) + ")"
}

// Expr is the closed set of expression variants below.
type Expr interface {
	Node
	ExprKind() ExprKind
	exprNode()
}

func appendExpr(out []Node, exprs ...Expr) []Node {
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

type BinaryExpr struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

type TernaryExpr struct {
	base
	Cond, Then, Else Expr
}

// MemberExpr is `object.field`. Object and Field wrap the two sides so
// lookups can tell a receiver from an accessed name.
type MemberExpr struct {
	base
	Object *MemberObjectExpr
	Field  *MemberFieldExpr
}

type MemberObjectExpr struct {
	base
	Inner Expr
}

// MemberFieldExpr holds a *MemberVariableExpr or a *MemberFunctionExpr.
type MemberFieldExpr struct {
	base
	Inner Expr
}

// MemberVariableExpr is a plain field access such as `auth` in request.auth.
type MemberVariableExpr struct {
	base
	Name string
}

// MemberFunctionExpr is a method call such as `keys()` in data.keys().
type MemberFunctionExpr struct {
	base
	Name     string
	NameSpan source.Span
	Args     []Expr
}

type IndexExpr struct {
	base
	Object, Index Expr
}

// CallExpr is a call of a free function, user-defined or builtin.
type CallExpr struct {
	base
	Name     string
	NameSpan source.Span
	Args     []Expr
}

type ListExpr struct {
	base
	Items []Expr
}

type MapExpr struct {
	base
	Entries []*MapEntryExpr
}

type MapEntryExpr struct {
	base
	Key, Value Expr
}

// PathExpr is a document path. Plain segments are string literals,
// interpolations are the inner expression.
type PathExpr struct {
	base
	Segments []Expr
}

// RangeExpr is the `a:b` slice inside an index.
type RangeExpr struct {
	base
	Start, End Expr
}

type GroupExpr struct {
	base
	Inner Expr
}

type LiteralExpr struct {
	base
	Value Literal
}

// VariableExpr is a reference to a name.
type VariableExpr struct {
	base
	Name string
}

func (e *UnaryExpr) Children() []Node          { return appendExpr(nil, e.Operand) }
func (e *BinaryExpr) Children() []Node         { return appendExpr(nil, e.Left, e.Right) }
func (e *TernaryExpr) Children() []Node        { return appendExpr(nil, e.Cond, e.Then, e.Else) }
func (e *MemberObjectExpr) Children() []Node   { return appendExpr(nil, e.Inner) }
func (e *MemberFieldExpr) Children() []Node    { return appendExpr(nil, e.Inner) }
func (*MemberVariableExpr) Children() []Node   { return nil }
func (e *MemberFunctionExpr) Children() []Node { return appendExpr(nil, e.Args...) }
func (e *IndexExpr) Children() []Node          { return appendExpr(nil, e.Object, e.Index) }
func (e *CallExpr) Children() []Node           { return appendExpr(nil, e.Args...) }
func (e *ListExpr) Children() []Node           { return appendExpr(nil, e.Items...) }
func (e *PathExpr) Children() []Node           { return appendExpr(nil, e.Segments...) }
func (e *RangeExpr) Children() []Node          { return appendExpr(nil, e.Start, e.End) }
func (e *GroupExpr) Children() []Node          { return appendExpr(nil, e.Inner) }
func (e *MapEntryExpr) Children() []Node       { return appendExpr(nil, e.Key, e.Value) }
func (*LiteralExpr) Children() []Node          { return nil }
func (*VariableExpr) Children() []Node         { return nil }

func (e *MemberExpr) Children() []Node {
	out := make([]Node, 0, 2)
	if e.Object != nil {
		out = append(out, e.Object)
	}
	if e.Field != nil {
		out = append(out, e.Field)
	}
	return out
}

func (e *MapExpr) Children() []Node {
	out := make([]Node, 0, len(e.Entries))
	for _, entry := range e.Entries {
		out = append(out, entry)
	}
	return out
}

func (*UnaryExpr) ExprKind() ExprKind          { return ExprUnary }
func (*BinaryExpr) ExprKind() ExprKind         { return ExprBinary }
func (*TernaryExpr) ExprKind() ExprKind        { return ExprTernary }
func (*MemberExpr) ExprKind() ExprKind         { return ExprMember }
func (*MemberObjectExpr) ExprKind() ExprKind   { return ExprMemberObject }
func (*MemberFieldExpr) ExprKind() ExprKind    { return ExprMemberField }
func (*MemberVariableExpr) ExprKind() ExprKind { return ExprMemberVariable }
func (*MemberFunctionExpr) ExprKind() ExprKind { return ExprMemberFunction }
func (*IndexExpr) ExprKind() ExprKind          { return ExprIndex }
func (*CallExpr) ExprKind() ExprKind           { return ExprCall }
func (*ListExpr) ExprKind() ExprKind           { return ExprList }
func (*MapExpr) ExprKind() ExprKind            { return ExprMap }
func (*MapEntryExpr) ExprKind() ExprKind       { return ExprMapEntry }
func (*PathExpr) ExprKind() ExprKind           { return ExprPath }
func (*RangeExpr) ExprKind() ExprKind          { return ExprRange }
func (*GroupExpr) ExprKind() ExprKind          { return ExprGroup }
func (*LiteralExpr) ExprKind() ExprKind        { return ExprLiteral }
func (*VariableExpr) ExprKind() ExprKind       { return ExprVariable }

func (*UnaryExpr) exprNode()          {}
func (*BinaryExpr) exprNode()         {}
func (*TernaryExpr) exprNode()        {}
func (*MemberExpr) exprNode()         {}
func (*MemberObjectExpr) exprNode()   {}
func (*MemberFieldExpr) exprNode()    {}
func (*MemberVariableExpr) exprNode() {}
func (*MemberFunctionExpr) exprNode() {}
func (*IndexExpr) exprNode()          {}
func (*CallExpr) exprNode()           {}
func (*ListExpr) exprNode()           {}
func (*MapExpr) exprNode()            {}
func (*MapEntryExpr) exprNode()       {}
func (*PathExpr) exprNode()           {}
func (*RangeExpr) exprNode()          {}
func (*GroupExpr) exprNode()          {}
func (*LiteralExpr) exprNode()        {}
func (*VariableExpr) exprNode()       {}
