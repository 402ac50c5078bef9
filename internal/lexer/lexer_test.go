package lexer

import (
	"testing"

	"firerules/internal/source"
	"firerules/internal/token"
)

func lexKinds(t *testing.T, text string) []token.Token {
	t.Helper()
	toks := All(source.NewVirtualFile("t.rules", text))
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("token stream for %q does not end with EOF", text)
	}
	return toks[:len(toks)-1]
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []token.Kind
	}{
		{"header", "rules_version = '2';", []token.Kind{token.KwRulesVersion, token.Assign, token.String, token.Semicolon}},
		{"path", "match /users/{id=**}", []token.Kind{token.KwMatch, token.Slash, token.Ident, token.Slash, token.LBrace, token.Ident, token.Assign, token.StarStar, token.RBrace}},
		{"operators", "a && b || !c != d <= e >= f == g", []token.Kind{
			token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident, token.BangEq,
			token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident, token.EqEq, token.Ident,
		}},
		{"interpolation", "$(db)", []token.Kind{token.Dollar, token.LParen, token.Ident, token.RParen}},
		{"member on number", "1.size", []token.Kind{token.Number, token.Dot, token.Ident}},
		{"comments", "// hi\nx /* y */", []token.Kind{token.LineComment, token.Ident, token.BlockComment}},
		{"unknown byte", "a # b", []token.Kind{token.Ident, token.Invalid, token.Ident}},
		{"unicode ident", "héllo", []token.Kind{token.Ident}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexKinds(t, tt.input)
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(tt.kinds))
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] {
					t.Fatalf("token %d (%q) kind = %s, want %s", i, tok.Text, tok.Kind, tt.kinds[i])
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	for _, in := range []string{"0", "42", "1.5", ".5", "1e3", "2.5E-4"} {
		toks := lexKinds(t, in)
		if len(toks) != 1 || toks[0].Kind != token.Number || toks[0].Text != in {
			t.Fatalf("lex %q = %v", in, toks)
		}
	}
	toks := lexKinds(t, "1e")
	if len(toks) != 2 || toks[0].Text != "1" || toks[1].Kind != token.Ident {
		t.Fatalf("lex 1e = %v", toks)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{`"abc"`, token.String},
		{`'abc'`, token.String},
		{`'it\'s'`, token.String},
		{`"open`, token.Invalid},
		{"'line\nbreak'", token.Invalid},
	}
	for _, tt := range tests {
		toks := lexKinds(t, tt.input)
		if len(toks) == 0 || toks[0].Kind != tt.kind {
			t.Fatalf("lex %q = %v, want first kind %s", tt.input, toks, tt.kind)
		}
	}
}

func TestLexerOffsets(t *testing.T) {
	toks := lexKinds(t, "  allow read;")
	if toks[0].Start != 2 || toks[0].End != 7 {
		t.Fatalf("allow at [%d,%d), want [2,7)", toks[0].Start, toks[0].End)
	}
	if toks[1].Text != "read" || toks[1].Kind != token.Ident {
		t.Fatalf("second token = %+v", toks[1])
	}
}

func TestLexerPeek(t *testing.T) {
	lx := New(source.NewVirtualFile("p.rules", "a b"))
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	for range 2 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("want EOF, got %v", n.Kind)
		}
	}
}
