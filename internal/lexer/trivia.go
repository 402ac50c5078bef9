package lexer

import "firerules/internal/token"

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) atComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && (b1 == '/' || b1 == '*')
}

// scanComment reads `// ...` up to (not including) the newline, or a
// `/* ... */` block. An unterminated block runs to EOF.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return lx.emit(token.LineComment, start)
	}
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(token.BlockComment, start)
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.BlockComment, start)
}
