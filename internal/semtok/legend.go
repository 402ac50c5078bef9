package semtok

import "go.lsp.dev/protocol"

// Type is an index into the token type legend.
type Type uint32

const (
	TypeComment Type = iota
	TypeNumber
	TypeString
	TypeVariable
	TypeOperator
	TypeKeyword
	TypeFunction
	TypeMemberVariable
	TypeProperty
	TypeType
)

// Modifier bits.
const (
	ModDeclaration uint32 = 1 << iota
)

var typeNames = [...]protocol.SemanticTokenTypes{
	TypeComment:        protocol.SemanticTokenComment,
	TypeNumber:         protocol.SemanticTokenNumber,
	TypeString:         protocol.SemanticTokenString,
	TypeVariable:       protocol.SemanticTokenVariable,
	TypeOperator:       protocol.SemanticTokenOperator,
	TypeKeyword:        protocol.SemanticTokenKeyword,
	TypeFunction:       protocol.SemanticTokenFunction,
	TypeMemberVariable: protocol.SemanticTokenVariable,
	TypeProperty:       protocol.SemanticTokenProperty,
	TypeType:           protocol.SemanticTokenType,
}

var modifierNames = [...]protocol.SemanticTokenModifiers{
	protocol.SemanticTokenModifierDeclaration,
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return string(typeNames[t])
	}
	return "unknown"
}

// Legend returns the token legend advertised during initialization. Index i
// of TokenTypes names Type(i).
func Legend() protocol.SemanticTokensLegend {
	types := make([]protocol.SemanticTokenTypes, len(typeNames))
	copy(types, typeNames[:])
	mods := make([]protocol.SemanticTokenModifiers, len(modifierNames))
	copy(mods, modifierNames[:])
	return protocol.SemanticTokensLegend{
		TokenTypes:     types,
		TokenModifiers: mods,
	}
}
