package syntax

// Named node kinds produced by the parser.
const (
	KindSourceFile      = "source_file"
	KindRulesVersion    = "rules_version"
	KindServiceDef      = "service_def"
	KindServiceName     = "service_name"
	KindMatchBody       = "match_body"
	KindMatchDef        = "match_def"
	KindMatchPath       = "match_path"
	KindCollectionSeg   = "collection_path_seg"
	KindSingleSeg       = "single_path_seg"
	KindMultiSeg        = "multi_path_seg"
	KindFunctionDef     = "function_def"
	KindParameter       = "parameter"
	KindFunctionBody    = "function_body"
	KindVariableDef     = "variable_def"
	KindReturnStatement = "return_statement"
	KindRuleDef         = "rule_def"
	KindMethod          = "method"

	KindTernary        = "ternary_expression"
	KindOr             = "or_expression"
	KindAnd            = "and_expression"
	KindRelation       = "relation_expression"
	KindContains       = "contains_expression"
	KindTypeComparison = "type_comparison_expression"
	KindAddition       = "addition_expression"
	KindMultiplication = "multiplication_expression"
	KindUnary          = "unary_expression"
	KindMember         = "member_expression"
	KindIndexing       = "indexing_expression"
	KindRange          = "range"
	KindFunctionCall   = "function_call"
	KindArgumentList   = "argument_list"
	KindList           = "list"
	KindMap            = "map"
	KindMapEntry       = "map_entry"
	KindParenthesized  = "parenthesized_expression"
	KindPath           = "path"
	KindPathSegment    = "path_segment"
	KindInterpolation  = "path_interpolation"

	KindIdentifier      = "identifier"
	KindFieldIdentifier = "field_identifier"
	KindTypeName        = "type_name"
	KindNumber          = "number"
	KindString          = "string"
	KindBoolean         = "boolean"
	KindNull            = "null"
	KindComment         = "comment"

	KindError = "ERROR"
)

// Field names used with ChildByFieldName.
const (
	FieldVersion     = "version"
	FieldName        = "name"
	FieldBody        = "body"
	FieldPath        = "path"
	FieldParam       = "param"
	FieldValue       = "value"
	FieldMethod      = "method"
	FieldCondition   = "condition"
	FieldConsequence = "consequence"
	FieldAlternative = "alternative"
	FieldLeft        = "left"
	FieldOperator    = "operator"
	FieldRight       = "right"
	FieldOperand     = "operand"
	FieldObject      = "object"
	FieldField       = "field"
	FieldIndex       = "index"
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldArguments   = "arguments"
	FieldElement     = "element"
	FieldEntry       = "entry"
	FieldKey         = "key"
	FieldExpression  = "expression"
	FieldSegment     = "segment"
)

// Methods accepted in allow statements.
var Methods = map[string]bool{
	"read":   true,
	"write":  true,
	"get":    true,
	"list":   true,
	"create": true,
	"update": true,
	"delete": true,
}

// IsExpressionKind reports whether kind is an expression node.
func IsExpressionKind(kind string) bool {
	switch kind {
	case KindTernary, KindOr, KindAnd, KindRelation, KindContains, KindTypeComparison,
		KindAddition, KindMultiplication, KindUnary, KindMember, KindIndexing,
		KindFunctionCall, KindList, KindMap, KindParenthesized, KindPath,
		KindIdentifier, KindNumber, KindString, KindBoolean, KindNull:
		return true
	}
	return false
}
