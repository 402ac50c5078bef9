package lexer

import "firerules/internal/token"

// scanNumber reads 12, 1.5, .5, 1e3, 2.5E-4. A dot not followed by a digit
// ends the number so member access on literals stays intact.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.isNumberAfterDot() {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			return lx.emit(token.Number, start)
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.emit(token.Number, start)
}
