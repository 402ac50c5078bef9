package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"firerules/internal/semtok"
	"firerules/internal/source"
)

type TokenOutput struct {
	Line      uint32 `json:"line"`
	Col       uint32 `json:"col"`
	Length    uint32 `json:"length"`
	Type      string `json:"type"`
	Modifiers uint32 `json:"modifiers,omitempty"`
	Text      string `json:"text"`
}

type TokensOutput struct {
	Tokens []TokenOutput `json:"tokens"`
	// Data is the delta encoding sent to editors.
	Data []uint32 `json:"data"`
}

// FormatTokensPretty writes one line per token. Columns and lengths are
// bytes, 0-based like the editor protocol. Tokens must not span rows; see
// semtok.SplitLines.
func FormatTokensPretty(w io.Writer, tokens []semtok.AbsoluteToken, file *source.File) error {
	for i, tok := range tokens {
		mods := ""
		if tok.Modifiers&semtok.ModDeclaration != 0 {
			mods = " [declaration]"
		}
		if _, err := fmt.Fprintf(w, "%3d: %-9s %d:%d+%d %q%s\n",
			i+1, tok.Type.String(), tok.Row, tok.Col, tok.Length, tokenText(tok, file), mods); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены и их дельта-кодировку в формате JSON.
func FormatTokensJSON(w io.Writer, tokens []semtok.AbsoluteToken, file *source.File) error {
	out := TokensOutput{
		Tokens: make([]TokenOutput, 0, len(tokens)),
		Data:   semtok.Encode(semtok.ToUTF16(tokens, file)),
	}
	for _, tok := range tokens {
		out.Tokens = append(out.Tokens, TokenOutput{
			Line:      tok.Row,
			Col:       tok.Col,
			Length:    tok.Length,
			Type:      tok.Type.String(),
			Modifiers: tok.Modifiers,
			Text:      tokenText(tok, file),
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func tokenText(tok semtok.AbsoluteToken, file *source.File) string {
	if file == nil {
		return ""
	}
	return file.Slice(
		source.Point{Row: tok.Row, Column: tok.Col},
		source.Point{Row: tok.Row, Column: tok.Col + tok.Length},
	)
}
