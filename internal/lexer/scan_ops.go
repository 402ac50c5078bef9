package lexer

import "firerules/internal/token"

// Greedy: two-byte operators first, then single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.emit(token.OrOr, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('*', '*'):
		return lx.emit(token.StarStar, start)
	}

	var kind token.Kind
	switch lx.cursor.Peek() {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '.':
		kind = token.Dot
	case '/':
		kind = token.Slash
	case '=':
		kind = token.Assign
	case '?':
		kind = token.Question
	case '!':
		kind = token.Bang
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '%':
		kind = token.Percent
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case '$':
		kind = token.Dollar
	default:
		lx.bumpRune()
		return lx.emit(token.Invalid, start)
	}
	lx.cursor.Bump()
	return lx.emit(kind, start)
}
