package lsp

import (
	"sort"
	"time"

	"go.lsp.dev/protocol"

	"firerules/internal/analysis"
	"firerules/internal/diag"
)

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	s.latestSeq++
	seq := s.latestSeq
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

func (s *Server) stopDebounce() {
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	s.mu.Unlock()
}

func (s *Server) runDiagnostics(seq uint64) {
	s.mu.Lock()
	latest := s.latestSeq == seq
	s.mu.Unlock()
	if !latest || s.baseCtx.Err() != nil {
		return
	}
	s.flushDiagnostics()
}

type pendingDoc struct {
	uri     string
	text    string
	version int32
	rev     int32
}

// flushDiagnostics analyzes every dirty document and publishes its merged
// diagnostics.
func (s *Server) flushDiagnostics() {
	s.mu.Lock()
	pending := make([]pendingDoc, 0, len(s.docs))
	for uri, st := range s.docs {
		if !st.dirty {
			continue
		}
		st.dirty = false
		pending = append(pending, pendingDoc{uri: uri, text: st.text, version: st.version, rev: st.rev})
	}
	store := s.store
	maxDiagnostics := s.maxDiagnostics
	trace := s.traceLSP
	s.mu.Unlock()
	sort.Slice(pending, func(i, j int) bool { return pending[i].uri < pending[j].uri })

	for _, p := range pending {
		doc, fresh := store.Update(p.uri, p.rev, displayPath(p.uri), p.text)
		if !fresh && doc.Version != p.rev {
			if trace {
				s.logf("discard analysis: uri=%s rev=%d newer=%d", p.uri, p.rev, doc.Version)
			}
			continue
		}
		list, dropped := convertDiagnostics(doc, maxDiagnostics)
		if trace {
			s.logf("publishDiagnostics: uri=%s version=%d diags=%d dropped=%d", p.uri, p.version, len(list), dropped)
		}
		s.mu.Lock()
		if _, open := s.docs[p.uri]; !open {
			s.mu.Unlock()
			continue
		}
		s.published[p.uri] = struct{}{}
		s.mu.Unlock()
		if err := s.sendPublish(p.uri, p.version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
}

// convertDiagnostics caps, sorts and converts the merged diagnostics of doc.
func convertDiagnostics(doc *analysis.Document, limit int) ([]protocol.Diagnostic, int) {
	bag := diag.NewBag(limit)
	dropped := bag.AddAll(doc.Diagnostics())
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	out := make([]protocol.Diagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, protocol.Diagnostic{
			Range:    rangeForSpan(doc.File, d.Primary),
			Severity: severityFor(d.Severity),
			Code:     d.Code.ID(),
			Source:   "firerules",
			Message:  d.Message,
		})
	}
	return out, dropped
}

func severityFor(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	uris := make([]string, 0, len(prev))
	for uri := range prev {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, 0, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}
