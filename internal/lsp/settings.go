package lsp

import (
	"encoding/json"

	"firerules/internal/analysis"
	"firerules/internal/scope"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.scheduleDiagnostics()
	}
	return nil
}

// applySettings overlays client settings and reports whether documents need
// to be analyzed again.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logf("ignoring settings: %v", err)
		return false
	}
	cfg := settings.Firerules

	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.LSP.Trace != nil {
		s.traceLSP = *cfg.LSP.Trace
	}
	reanalyze := false
	if cfg.MaxDiagnostics != nil && *cfg.MaxDiagnostics > 0 && *cfg.MaxDiagnostics != s.maxDiagnostics {
		s.maxDiagnostics = *cfg.MaxDiagnostics
		reanalyze = true
	}
	if cfg.ScopePolicy != nil {
		policy, err := scope.ParsePolicy(*cfg.ScopePolicy)
		if err != nil {
			s.logf("ignoring settings: %v", err)
		} else if policy != s.analysisOpts.Policy {
			s.analysisOpts.Policy = policy
			s.store = analysis.NewStore(s.analysisOpts)
			reanalyze = true
		}
	}
	if reanalyze {
		for _, st := range s.docs {
			st.dirty = true
		}
	}
	return reanalyze
}
