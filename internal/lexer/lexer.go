package lexer

import (
	"firerules/internal/source"
	"firerules/internal/token"
)

// Lexer turns a rules document into tokens. Whitespace is dropped; comments
// are returned as tokens so the parser can keep them in the tree.
type Lexer struct {
	file   *source.File
	cursor cursor
	look   *token.Token
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: newCursor(file.Content),
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Start: lx.cursor.Off, End: lx.cursor.Off}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '/' && lx.atComment():
		return lx.scanComment()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString(ch)
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole file, EOF token included.
func All(file *source.File) []token.Token {
	lx := New(file)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	return token.Token{
		Kind:  kind,
		Start: uint32(start),
		End:   lx.cursor.Off,
		Text:  lx.cursor.Text(start),
	}
}
