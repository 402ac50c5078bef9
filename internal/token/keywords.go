package token

var keywords = map[string]Kind{
	"rules_version": KwRulesVersion,
	"service":       KwService,
	"match":         KwMatch,
	"allow":         KwAllow,
	"if":            KwIf,
	"function":      KwFunction,
	"let":           KwLet,
	"return":        KwReturn,
	"in":            KwIn,
	"is":            KwIs,
	"true":          KwTrue,
	"false":         KwFalse,
	"null":          KwNull,
}

// LookupKeyword reports whether ident is a reserved word. Keywords are
// case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
