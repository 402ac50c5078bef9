package lexer

import (
	"fmt"

	"fortio.org/safecast"
)

// cursor walks the normalized file content byte by byte.
type cursor struct {
	src   []byte
	Off   uint32
	Limit uint32 // exclusive
}

func newCursor(src []byte) cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("file too large for uint32 offsets: %w", err))
	}
	return cursor{src: src, Limit: limit}
}

func (c *cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte or 0 at EOF.
func (c *cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 returns the current and the next byte; ok is false when fewer than
// two bytes remain.
func (c *cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Limit-c.Off < 2 || c.EOF() {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

func (c *cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Mark is a saved offset.
type Mark uint32

func (c *cursor) Mark() Mark         { return Mark(c.Off) }
func (c *cursor) Reset(m Mark)       { c.Off = uint32(m) }
func (c *cursor) Text(m Mark) string { return string(c.src[m:c.Off]) }
