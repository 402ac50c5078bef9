package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"

	"firerules/internal/semtok"
)

func (s *Server) handleSemanticTokensFull(msg *rpcMessage) error {
	var params protocol.SemanticTokensParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	doc := s.document(string(params.TextDocument.URI))
	if doc == nil {
		return s.sendResponse(msg.ID, protocol.SemanticTokens{Data: []uint32{}})
	}
	tokens := semtok.ToUTF16(semtok.SplitLines(doc.Tokens(), doc.File), doc.File)
	return s.sendResponse(msg.ID, protocol.SemanticTokens{Data: semtok.Encode(tokens)})
}
