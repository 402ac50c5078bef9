package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"

	"firerules/internal/analysis"
	"firerules/internal/source"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc := s.document(string(params.TextDocument.URI))
	if doc == nil {
		return s.sendResponse(msg.ID, []protocol.DocumentSymbol{})
	}
	return s.sendResponse(msg.ID, documentSymbols(doc.File, doc.Outline()))
}

func documentSymbols(file *source.File, syms []analysis.Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, sym := range syms {
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           symbolKind(sym.Kind),
			Range:          rangeForSpan(file, sym.Span),
			SelectionRange: rangeForSpan(file, sym.NameSpan),
		}
		if ds.Name == "" {
			ds.Name = sym.Kind.String()
		}
		if len(sym.Children) > 0 {
			ds.Children = documentSymbols(file, sym.Children)
		}
		out = append(out, ds)
	}
	return out
}

func symbolKind(k analysis.SymbolKind) protocol.SymbolKind {
	switch k {
	case analysis.SymbolMatch:
		return protocol.SymbolKindNamespace
	case analysis.SymbolFunction:
		return protocol.SymbolKindFunction
	case analysis.SymbolVariable:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindKey
	}
}
