package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = utf8.RuneSelf

// byteClass flags for ASCII input; anything >= utf8RuneSelf goes through the
// unicode tables.
const (
	clsIdentStart uint8 = 1 << iota
	clsDigit
)

var asciiClass = func() (t [utf8RuneSelf]uint8) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= clsIdentStart
		t[c-'a'+'A'] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	for c := '0'; c <= '9'; c++ {
		t[c] |= clsDigit
	}
	return t
}()

func isDec(b byte) bool { return b < utf8RuneSelf && asciiClass[b]&clsDigit != 0 }

func isIdentStartByte(b byte) bool {
	return b < utf8RuneSelf && asciiClass[b]&clsIdentStart != 0
}

func isIdentContinueByte(b byte) bool {
	return b < utf8RuneSelf && asciiClass[b]&(clsIdentStart|clsDigit) != 0
}

func isIdentStartRune(r rune) bool    { return r == '_' || unicode.IsLetter(r) }
func isIdentContinueRune(r rune) bool { return isIdentStartRune(r) || unicode.IsDigit(r) }

// peekRune decodes the rune under the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("bumpRune: %w", err))
	}
	lx.cursor.Off += n
}

// isNumberAfterDot matches ".5".
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// try2 consumes the two-byte operator ab if it is next.
func (lx *Lexer) try2(a, b byte) bool {
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == a && b1 == b {
		lx.cursor.Off += 2
		return true
	}
	return false
}
