package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (unknown byte, unterminated string).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	Number
	String
	LineComment
	BlockComment

	KwRulesVersion // rules_version
	KwService      // service
	KwMatch        // match
	KwAllow        // allow
	KwIf           // if
	KwFunction     // function
	KwLet          // let
	KwReturn       // return
	KwIn           // in
	KwIs           // is
	KwTrue         // true
	KwFalse        // false
	KwNull         // null

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Colon     // :
	Dot       // .
	Slash     // /
	Assign    // =
	Question  // ?
	Bang      // !
	Plus      // +
	Minus     // -
	Star      // *
	StarStar  // **
	Percent   // %
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	EqEq      // ==
	BangEq    // !=
	AndAnd    // &&
	OrOr      // ||
	Dollar    // $
)

var kindNames = [...]string{
	Invalid:        "invalid",
	EOF:            "eof",
	Ident:          "identifier",
	Number:         "number",
	String:         "string",
	LineComment:    "comment",
	BlockComment:   "comment",
	KwRulesVersion: "rules_version",
	KwService:      "service",
	KwMatch:        "match",
	KwAllow:        "allow",
	KwIf:           "if",
	KwFunction:     "function",
	KwLet:          "let",
	KwReturn:       "return",
	KwIn:           "in",
	KwIs:           "is",
	KwTrue:         "true",
	KwFalse:        "false",
	KwNull:         "null",
	LBrace:         "{",
	RBrace:         "}",
	LParen:         "(",
	RParen:         ")",
	LBracket:       "[",
	RBracket:       "]",
	Semicolon:      ";",
	Comma:          ",",
	Colon:          ":",
	Dot:            ".",
	Slash:          "/",
	Assign:         "=",
	Question:       "?",
	Bang:           "!",
	Plus:           "+",
	Minus:          "-",
	Star:           "*",
	StarStar:       "**",
	Percent:        "%",
	Lt:             "<",
	LtEq:           "<=",
	Gt:             ">",
	GtEq:           ">=",
	EqEq:           "==",
	BangEq:         "!=",
	AndAnd:         "&&",
	OrOr:           "||",
	Dollar:         "$",
}

// String returns the grammar name of the kind: the literal spelling for
// keywords and punctuation, a category name otherwise.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
