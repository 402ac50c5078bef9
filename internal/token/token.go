package token

// Token represents a single source token with its byte range.
type Token struct {
	Kind  Kind
	Start uint32 // inclusive byte offset
	End   uint32 // exclusive byte offset
	Text  string
}

// IsLiteral reports whether the token is a numeric, string, boolean or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwRulesVersion && t.Kind <= KwNull
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
