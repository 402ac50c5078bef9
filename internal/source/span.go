package source

import "fmt"

// Point is a zero-based row and byte column inside a file.
type Point struct {
	Row    uint32
	Column uint32
}

// Less reports whether p sorts strictly before other.
func (p Point) Less(other Point) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Column < other.Column
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Span is a closed range of points: Start is the first byte of the construct
// and End is the first byte of its last character, so both lie inside it.
// Zero-width constructs have Start == End.
type Span struct {
	Start Point
	End   Point
}

// NewSpan returns the span between start and end, swapping them if they are
// out of order.
func NewSpan(start, end Point) Span {
	if end.Less(start) {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Contains reports whether p lies inside s, both endpoints included.
func (s Span) Contains(p Point) bool {
	if p.Row < s.Start.Row || p.Row > s.End.Row {
		return false
	}
	switch {
	case s.Start.Row < p.Row && p.Row < s.End.Row:
		return true
	case s.Start.Row == p.Row && p.Row < s.End.Row:
		return s.Start.Column <= p.Column
	case s.Start.Row < p.Row && p.Row == s.End.Row:
		return s.End.Column >= p.Column
	case s.Start.Row == s.End.Row && s.End.Row != p.Row:
		return false
	default:
		return s.Start.Column <= p.Column && p.Column <= s.End.Column
	}
}

// ContainsSpan reports whether other lies entirely inside s.
func (s Span) ContainsSpan(other Span) bool {
	return s.Contains(other.Start) && s.Contains(other.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start.Less(s.Start) {
		s.Start = other.Start
	}
	if s.End.Less(other.End) {
		s.End = other.End
	}
	return s
}

// Empty reports whether the span covers a single point.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
