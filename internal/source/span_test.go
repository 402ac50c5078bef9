package source

import "testing"

func TestSpanContains(t *testing.T) {
	multi := Span{Start: Point{Row: 1, Column: 4}, End: Point{Row: 3, Column: 2}}
	single := Span{Start: Point{Row: 2, Column: 5}, End: Point{Row: 2, Column: 9}}

	tests := []struct {
		name  string
		span  Span
		point Point
		want  bool
	}{
		{"row strictly inside", multi, Point{Row: 2, Column: 100}, true},
		{"start row after start column", multi, Point{Row: 1, Column: 4}, true},
		{"start row before start column", multi, Point{Row: 1, Column: 3}, false},
		{"end row at end column", multi, Point{Row: 3, Column: 2}, true},
		{"end row past end column", multi, Point{Row: 3, Column: 3}, false},
		{"row before span", multi, Point{Row: 0, Column: 5}, false},
		{"row after span with matching column", multi, Point{Row: 5, Column: 3}, false},
		{"single row other row", single, Point{Row: 1, Column: 6}, false},
		{"single row start", single, Point{Row: 2, Column: 5}, true},
		{"single row end", single, Point{Row: 2, Column: 9}, true},
		{"single row before", single, Point{Row: 2, Column: 4}, false},
		{"single row after", single, Point{Row: 2, Column: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Contains(tt.point); got != tt.want {
				t.Fatalf("Contains(%v, %v) = %v, want %v", tt.span, tt.point, got, tt.want)
			}
		})
	}
}

func TestSpanContainsOwnEndpoints(t *testing.T) {
	spans := []Span{
		{Start: Point{Row: 0, Column: 0}, End: Point{Row: 0, Column: 0}},
		{Start: Point{Row: 0, Column: 3}, End: Point{Row: 0, Column: 7}},
		{Start: Point{Row: 4, Column: 9}, End: Point{Row: 6, Column: 1}},
	}
	for _, sp := range spans {
		if !sp.Contains(sp.Start) {
			t.Fatalf("%v does not contain its start", sp)
		}
		if !sp.Contains(sp.End) {
			t.Fatalf("%v does not contain its end", sp)
		}
	}
}

func TestSpanCoverAndNew(t *testing.T) {
	a := NewSpan(Point{Row: 2, Column: 1}, Point{Row: 1, Column: 0})
	if a.Start != (Point{Row: 1, Column: 0}) {
		t.Fatalf("NewSpan did not order endpoints: %v", a)
	}
	b := Span{Start: Point{Row: 0, Column: 5}, End: Point{Row: 1, Column: 2}}
	got := a.Cover(b)
	want := Span{Start: Point{Row: 0, Column: 5}, End: Point{Row: 2, Column: 1}}
	if got != want {
		t.Fatalf("Cover = %v, want %v", got, want)
	}
	if !got.ContainsSpan(a) || !got.ContainsSpan(b) {
		t.Fatalf("cover %v must contain both inputs", got)
	}
}
