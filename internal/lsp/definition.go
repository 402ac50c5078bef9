package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"
)

// handleDefinition answers with no locations. Resolution itself is
// available through analysis.Document.Definition; the trace log shows what
// it would return.
func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	if s.currentTrace() {
		if doc := s.document(string(params.TextDocument.URI)); doc != nil {
			def, err := doc.Definition(pointForPosition(doc.File, params.Position))
			if err != nil {
				s.logf("definition: %v", err)
			} else {
				s.logf("definition: %s at %s", def.Name, def.NameSpan)
			}
		}
	}
	return s.sendResponse(msg.ID, []protocol.Location{})
}
