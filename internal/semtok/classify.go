package semtok

import (
	"firerules/internal/syntax"
	"firerules/internal/token"
)

// Class is the result of classifying one node.
type Class struct {
	Type      Type
	Modifiers uint32
}

type key struct {
	kind   string
	parent string
}

// anyParent matches every parent kind.
const anyParent = "*"

var table = map[key]Class{}

func set(kind string, parents []string, c Class) {
	for _, p := range parents {
		table[key{kind, p}] = c
	}
}

func init() {
	all := []string{anyParent}

	set(syntax.KindComment, all, Class{Type: TypeComment})
	set(syntax.KindNumber, all, Class{Type: TypeNumber})
	set(syntax.KindString, all, Class{Type: TypeString})
	set(syntax.KindBoolean, all, Class{Type: TypeKeyword})
	set(syntax.KindCollectionSeg, all, Class{Type: TypeString})
	set(syntax.KindPathSegment, all, Class{Type: TypeString})
	set(syntax.KindTypeName, all, Class{Type: TypeType})
	set(syntax.KindServiceName, all, Class{Type: TypeType})
	set(syntax.KindMethod, all, Class{Type: TypeProperty})
	set(syntax.KindFieldIdentifier, all, Class{Type: TypeMemberVariable})

	for _, kw := range []token.Kind{
		token.KwService, token.KwMatch, token.KwAllow, token.KwIf,
		token.KwFunction, token.KwLet, token.KwReturn, token.KwIn, token.KwIs,
		token.KwTrue, token.KwFalse, token.KwNull,
	} {
		set(kw.String(), all, Class{Type: TypeKeyword})
	}
	// The header node shares its kind with the keyword inside it.
	set(token.KwRulesVersion.String(), []string{syntax.KindRulesVersion}, Class{Type: TypeKeyword})

	for _, op := range []token.Kind{
		token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.Plus, token.Minus, token.Star, token.Percent,
		token.Bang, token.Question, token.Assign, token.StarStar,
	} {
		set(op.String(), all, Class{Type: TypeOperator})
	}
	// `/` and `:` also appear in paths, ranges and rule headers.
	set(token.Slash.String(), []string{syntax.KindMultiplication}, Class{Type: TypeOperator})
	set(token.Colon.String(), []string{syntax.KindTernary}, Class{Type: TypeOperator})

	set(syntax.KindIdentifier, []string{
		syntax.KindVariableDef, syntax.KindParameter, syntax.KindSingleSeg, syntax.KindMultiSeg,
		syntax.KindTernary, syntax.KindOr, syntax.KindAnd, syntax.KindRelation, syntax.KindContains,
		syntax.KindTypeComparison, syntax.KindAddition, syntax.KindMultiplication, syntax.KindUnary,
		syntax.KindMember, syntax.KindIndexing, syntax.KindRange, syntax.KindArgumentList,
		syntax.KindList, syntax.KindMapEntry, syntax.KindParenthesized, syntax.KindInterpolation,
		syntax.KindReturnStatement, syntax.KindRuleDef,
	}, Class{Type: TypeVariable})
	set(syntax.KindIdentifier, []string{syntax.KindFunctionDef}, Class{Type: TypeFunction, Modifiers: ModDeclaration})
	set(syntax.KindIdentifier, []string{syntax.KindFunctionCall}, Class{Type: TypeFunction})
}

// Classify looks up the (kind, parent) pair, falling back to the wildcard
// parent entry.
func Classify(kind, parent string) (Class, bool) {
	if c, ok := table[key{kind, parent}]; ok {
		return c, true
	}
	c, ok := table[key{kind, anyParent}]
	return c, ok
}
