package semtok

import (
	"slices"
	"testing"

	"firerules/internal/source"
	"firerules/internal/syntax"
)

func tokenize(t *testing.T, src string) ([]AbsoluteToken, *source.File) {
	t.Helper()
	file := source.NewVirtualFile("test.rules", src)
	tree := syntax.Parse(file, syntax.Options{})
	return Absolute(tree.Root, file), file
}

func TestEncodeBareStatement(t *testing.T) {
	toks, _ := tokenize(t, "let x = 1;")
	got := Encode(toks)
	want := []uint32{
		0, 0, 3, 5, 0,
		0, 6, 1, 4, 0,
		0, 2, 1, 1, 0,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestEncodeFunction(t *testing.T) {
	src := "service s {\n  function f(a) {\n    return a.b == 1;\n  }\n}"
	toks, _ := tokenize(t, src)
	got := Encode(toks)
	want := []uint32{
		0, 0, 7, 5, 0,
		0, 8, 1, 9, 0,
		1, 2, 8, 5, 0,
		0, 9, 1, 6, 1,
		0, 2, 1, 3, 0,
		1, 4, 6, 5, 0,
		0, 7, 1, 3, 0,
		0, 2, 1, 7, 0,
		0, 2, 2, 4, 0,
		0, 3, 1, 1, 0,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Encode =\n%v\nwant\n%v", got, want)
	}
}

func TestEncodeRulesVersionHeader(t *testing.T) {
	toks, _ := tokenize(t, "rules_version = '2';\nservice s {}")
	got := Encode(toks)
	want := []uint32{
		0, 0, 13, 5, 0,
		0, 14, 1, 4, 0,
		0, 2, 3, 2, 0,
		1, 0, 7, 5, 0,
		0, 8, 1, 9, 0,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestAbsoluteKeepsMultilineComments(t *testing.T) {
	toks, _ := tokenize(t, "/* a\nbé */\nservice s {}")
	if len(toks) == 0 {
		t.Fatal("no tokens")
	}
	if toks[0] != (AbsoluteToken{Row: 0, Col: 0, Length: 11, Type: TypeComment}) {
		t.Fatalf("first = %+v", toks[0])
	}
}

func TestSplitLines(t *testing.T) {
	toks, file := tokenize(t, "/* a\nbé */\nservice s {}")
	split := SplitLines(toks, file)
	want := []AbsoluteToken{
		{Row: 0, Col: 0, Length: 4, Type: TypeComment},
		{Row: 1, Col: 0, Length: 6, Type: TypeComment},
		{Row: 2, Col: 0, Length: 7, Type: TypeKeyword},
		{Row: 2, Col: 8, Length: 1, Type: TypeType},
	}
	if !slices.Equal(split, want) {
		t.Fatalf("SplitLines = %+v, want %+v", split, want)
	}
	if toks[0].Length != 11 {
		t.Fatal("SplitLines modified its input")
	}
	utf := ToUTF16(split, file)
	if utf[1].Length != 5 {
		t.Fatalf("utf16 length = %d, want 5", utf[1].Length)
	}
	if split[1].Length != 6 {
		t.Fatal("ToUTF16 modified its input")
	}
}

func TestSplitLinesSkipsEmptyRows(t *testing.T) {
	toks, file := tokenize(t, "/*\n\nx*/")
	got := SplitLines(toks, file)
	want := []AbsoluteToken{
		{Row: 0, Col: 0, Length: 2, Type: TypeComment},
		{Row: 2, Col: 0, Length: 3, Type: TypeComment},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("SplitLines = %+v, want %+v", got, want)
	}
}

func TestAbsoluteDoesNotDescendIntoClassified(t *testing.T) {
	toks, _ := tokenize(t, "service cloud.firestore {}")
	want := []AbsoluteToken{
		{Row: 0, Col: 0, Length: 7, Type: TypeKeyword},
		{Row: 0, Col: 8, Length: 15, Type: TypeType},
	}
	if !slices.Equal(toks, want) {
		t.Fatalf("tokens = %+v, want %+v", toks, want)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		kind, parent string
		want         Class
		ok           bool
	}{
		{"identifier", syntax.KindFunctionDef, Class{Type: TypeFunction, Modifiers: ModDeclaration}, true},
		{"identifier", syntax.KindFunctionCall, Class{Type: TypeFunction}, true},
		{"identifier", syntax.KindMember, Class{Type: TypeVariable}, true},
		{"identifier", syntax.KindError, Class{}, false},
		{"/", syntax.KindMultiplication, Class{Type: TypeOperator}, true},
		{"/", syntax.KindPath, Class{}, false},
		{":", syntax.KindRuleDef, Class{}, false},
		{"let", syntax.KindError, Class{Type: TypeKeyword}, true},
		{"field_identifier", syntax.KindMember, Class{Type: TypeMemberVariable}, true},
		{"method", syntax.KindRuleDef, Class{Type: TypeProperty}, true},
		{".", syntax.KindMember, Class{}, false},
		{"rules_version", syntax.KindRulesVersion, Class{Type: TypeKeyword}, true},
		{"rules_version", syntax.KindSourceFile, Class{}, false},
		{"=", syntax.KindRulesVersion, Class{Type: TypeOperator}, true},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.kind, tt.parent)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Classify(%q, %q) = %+v, %v; want %+v, %v", tt.kind, tt.parent, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDecodeInvertsEncode(t *testing.T) {
	toks, _ := tokenize(t, "service s {\n  match /a/{id} {\n    allow read: if id == 'x' && true;\n  }\n}")
	back, err := Decode(Encode(toks))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(back, toks) {
		t.Fatalf("decode = %+v, want %+v", back, toks)
	}
	if _, err := Decode([]uint32{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated data")
	}
}

func TestLegendMatchesTypes(t *testing.T) {
	l := Legend()
	if len(l.TokenTypes) != int(TypeType)+1 {
		t.Fatalf("legend has %d types", len(l.TokenTypes))
	}
	if l.TokenTypes[TypeMemberVariable] != l.TokenTypes[TypeVariable] {
		t.Fatalf("member field should share the variable name, got %q", l.TokenTypes[TypeMemberVariable])
	}
	if len(l.TokenModifiers) != 1 || l.TokenModifiers[0] != "declaration" {
		t.Fatalf("modifiers = %v", l.TokenModifiers)
	}
}
