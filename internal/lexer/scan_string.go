package lexer

import "firerules/internal/token"

// scanString reads a single- or double-quoted string. Escapes are skipped, not
// validated. A newline or EOF before the closing quote yields Invalid.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return lx.emit(token.Invalid, start)
			}
			lx.cursor.Bump()
		case '\n':
			return lx.emit(token.Invalid, start)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.emit(token.Invalid, start)
}
