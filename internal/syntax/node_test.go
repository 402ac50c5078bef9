package syntax

import (
	"testing"

	"firerules/internal/source"
)

func TestNodeSpanIsClosed(t *testing.T) {
	tree := parseText(t, "service s {\n  allow read;\n}")
	rule := tree.Root.Child(0).ChildByFieldName(FieldBody).NamedChildren()[0]
	if got := rule.EndPoint(); got != (source.Point{Row: 1, Column: 13}) {
		t.Fatalf("EndPoint = %v", got)
	}
	want := source.Span{Start: source.Point{Row: 1, Column: 2}, End: source.Point{Row: 1, Column: 12}}
	if got := rule.Span(); got != want {
		t.Fatalf("Span = %v, want %v", got, want)
	}
	if !rule.Span().Contains(rule.Span().Start) || !rule.Span().Contains(rule.Span().End) {
		t.Fatal("closed span must contain its endpoints")
	}
}

func TestNodeSpanMultibyte(t *testing.T) {
	tree := parseText(t, "service s { allow read: if 'é'; }")
	str := collect(tree.Root, func(n *Node) bool { return n.Kind() == KindString })[0]
	// 'é' is four bytes; the last character is the closing quote.
	if str.Span().End.Column != str.StartPoint().Column+3 {
		t.Fatalf("span = %v", str.Span())
	}
}

func TestNodeFieldAccess(t *testing.T) {
	tree := parseText(t, "service s { match /a { } }")
	match := tree.Root.Child(0).ChildByFieldName(FieldBody).NamedChildren()[0]
	for i := range match.ChildCount() {
		if match.Child(i).Kind() == KindMatchPath && match.FieldNameForChild(i) != FieldPath {
			t.Fatalf("path child attached under %q", match.FieldNameForChild(i))
		}
	}
	if match.Child(-1) != nil || match.Child(99) != nil {
		t.Fatal("out of range Child must be nil")
	}
	if match.ChildByFieldName("nope") != nil {
		t.Fatal("unknown field must be nil")
	}
	if match.ChildByFieldName(FieldBody).Parent() != match {
		t.Fatal("parent link broken")
	}
}
