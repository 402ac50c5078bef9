package ast

import (
	"strconv"
	"strings"
)

type LiteralKind uint8

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

func (k LiteralKind) String() string {
	switch k {
	case LitInteger:
		return "Integer"
	case LitFloat:
		return "Float"
	case LitString:
		return "String"
	case LitBool:
		return "Bool"
	case LitNull:
		return "Null"
	default:
		return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal is a decoded constant. Raw keeps the source spelling.
type Literal struct {
	Kind  LiteralKind
	Raw   string
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// numberLiteral classifies a numeric token: Float whenever the text parses
// as a float, Integer only when it does not. Plain "1" is therefore a Float.
func numberLiteral(raw string) Literal {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Literal{Kind: LitFloat, Raw: raw, Float: f}
	}
	i, _ := strconv.ParseInt(raw, 10, 64)
	return Literal{Kind: LitInteger, Raw: raw, Int: i}
}

func stringLiteral(raw string) Literal {
	return Literal{Kind: LitString, Raw: raw, Str: unquote(raw)}
}

// unquote strips the surrounding quotes and resolves simple escapes.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
