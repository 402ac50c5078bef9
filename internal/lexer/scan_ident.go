package lexer

import "firerules/internal/token"

// scanIdentOrKeyword reads an identifier and checks it against the keyword
// table. A non-letter rune in start position becomes an Invalid token.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if !isIdentStartRune(r) {
		lx.bumpRune()
		return lx.emit(token.Invalid, start)
	}
	lx.bumpRune()
	for !lx.cursor.EOF() {
		if b := lx.cursor.Peek(); b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
