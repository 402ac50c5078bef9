package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"go.lsp.dev/protocol"
)

const testURI = "file:///tmp/firestore.rules"

func TestRunInitializeShutdownExit(t *testing.T) {
	in := frame(t,
		map[string]any{"id": 1, "method": "initialize", "params": map[string]any{}},
		map[string]any{"method": "initialized", "params": map[string]any{}},
		map[string]any{"id": 2, "method": "shutdown"},
		map[string]any{"method": "exit"},
	)
	var out bytes.Buffer
	s := newTestServer(t, in, &out)
	if err := s.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("Run = %v, want ErrExit", err)
	}
	msgs := readAll(t, &out)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages", len(msgs))
	}
	var result initializeResult
	if err := json.Unmarshal(msgs[0].Result, &result); err != nil {
		t.Fatalf("decode initialize: %v", err)
	}
	caps := result.Capabilities
	if caps.SemanticTokensProvider == nil || !caps.SemanticTokensProvider.Full {
		t.Fatalf("semantic tokens not advertised: %+v", caps)
	}
	if got := len(caps.SemanticTokensProvider.Legend.TokenTypes); got != 10 {
		t.Fatalf("legend has %d types", got)
	}
	if !caps.DefinitionProvider || !caps.DocumentSymbolProvider || caps.TextDocumentSync.Change != 2 {
		t.Fatalf("capabilities = %+v", caps)
	}
}

func TestRunExitWithoutShutdown(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, frame(t, map[string]any{"method": "exit"}), &out)
	if err := s.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("Run = %v", err)
	}
}

func TestUnknownRequestGetsMethodNotFound(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, frame(t, map[string]any{"id": 7, "method": "textDocument/hover"}), &out)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	msgs := readAll(t, &out)
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeMethodNotFound {
		t.Fatalf("messages = %+v", msgs)
	}
}

func publishedDiagnostics(t *testing.T, out *bytes.Buffer) protocol.PublishDiagnosticsParams {
	t.Helper()
	msgs := readAll(t, out)
	if len(msgs) != 1 || msgs[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("messages = %+v", msgs)
	}
	var params protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(msgs[0].Params, &params); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	return params
}

func TestPublishMissingBrace(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service cloud.firestore {\n  match /a {\n  }\n")
	s.flushDiagnostics()

	params := publishedDiagnostics(t, &out)
	if string(params.URI) != testURI || params.Version != 1 {
		t.Fatalf("publish = %+v", params)
	}
	if len(params.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", params.Diagnostics)
	}
	d := params.Diagnostics[0]
	if d.Severity != protocol.DiagnosticSeverityError || !strings.HasPrefix(d.Message, "Missing") {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Code != "SYN2002" || d.Source != "firerules" {
		t.Fatalf("code/source = %v/%q", d.Code, d.Source)
	}
}

func TestPublishUndefinedFunctionRange(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {\n  allow read: if undefinedFn();\n}")
	s.flushDiagnostics()

	params := publishedDiagnostics(t, &out)
	if len(params.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", params.Diagnostics)
	}
	got := params.Diagnostics[0].Range
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 17},
		End:   protocol.Position{Line: 1, Character: 30},
	}
	if got != want {
		t.Fatalf("range = %+v, want %+v", got, want)
	}
}

func TestPublishCapsDiagnostics(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	s.maxDiagnostics = 2
	openDoc(t, s, testURI, "service s {\n  allow read: if a() && b() && c();\n}")
	s.flushDiagnostics()
	if got := len(publishedDiagnostics(t, &out).Diagnostics); got != 2 {
		t.Fatalf("published %d diagnostics, want 2", got)
	}
}

func TestFlushSkipsCleanDocuments(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {}")
	s.flushDiagnostics()
	out.Reset()
	s.flushDiagnostics()
	if out.Len() != 0 {
		t.Fatalf("clean document published again: %q", out.String())
	}
}

func TestDidChangeAppliesIncrementalEdits(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {}")
	params := map[string]any{
		"textDocument": map[string]any{"uri": testURI, "version": 2},
		"contentChanges": []map[string]any{{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 11},
				"end":   map[string]any{"line": 0, "character": 11},
			},
			"text": "\n  function f() { return 1; }\n",
		}},
	}
	if err := s.handleDidChange(&rpcMessage{Params: mustParams(t, params)}); err != nil {
		t.Fatalf("didChange: %v", err)
	}
	s.stopDebounce()
	doc := s.document(testURI)
	if doc == nil || len(doc.Definitions()) != 1 {
		t.Fatalf("document after change = %+v", doc)
	}
	if s.docs[testURI].version != 2 || s.docs[testURI].rev != 2 {
		t.Fatalf("state = %+v", s.docs[testURI])
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {")
	s.flushDiagnostics()
	out.Reset()
	params := map[string]any{"textDocument": map[string]any{"uri": testURI}}
	if err := s.handleDidClose(&rpcMessage{Params: mustParams(t, params)}); err != nil {
		t.Fatalf("didClose: %v", err)
	}
	if got := publishedDiagnostics(t, &out); len(got.Diagnostics) != 0 {
		t.Fatalf("close published %+v", got)
	}
	if s.document(testURI) != nil {
		t.Fatal("closed document still served")
	}
}

func request(t *testing.T, s *Server, out *bytes.Buffer, method string, params any, handler func(*rpcMessage) error) json.RawMessage {
	t.Helper()
	out.Reset()
	if err := handler(&rpcMessage{ID: json.RawMessage("1"), Method: method, Params: mustParams(t, params)}); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	msgs := readAll(t, out)
	if len(msgs) != 1 || msgs[0].Error != nil {
		t.Fatalf("%s response = %+v", method, msgs)
	}
	return msgs[0].Result
}

func TestSemanticTokensUseUTF16Columns(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "// é\nlet x = 1;")
	raw := request(t, s, &out, "textDocument/semanticTokens/full",
		map[string]any{"textDocument": map[string]any{"uri": testURI}}, s.handleSemanticTokensFull)
	var tokens protocol.SemanticTokens
	if err := json.Unmarshal(raw, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	want := []uint32{
		0, 0, 4, 0, 0,
		1, 0, 3, 5, 0,
		0, 6, 1, 4, 0,
		0, 2, 1, 1, 0,
	}
	if len(tokens.Data) != len(want) {
		t.Fatalf("data = %v, want %v", tokens.Data, want)
	}
	for i := range want {
		if tokens.Data[i] != want[i] {
			t.Fatalf("data = %v, want %v", tokens.Data, want)
		}
	}
}

func TestSemanticTokensSplitBlockComments(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "/* a\nbé */")
	raw := request(t, s, &out, "textDocument/semanticTokens/full",
		map[string]any{"textDocument": map[string]any{"uri": testURI}}, s.handleSemanticTokensFull)
	var tokens protocol.SemanticTokens
	if err := json.Unmarshal(raw, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	want := []uint32{
		0, 0, 4, 0, 0,
		1, 0, 5, 0, 0,
	}
	if !slices.Equal(tokens.Data, want) {
		t.Fatalf("data = %v, want %v", tokens.Data, want)
	}
}

func TestSemanticTokensUnknownDocument(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	raw := request(t, s, &out, "textDocument/semanticTokens/full",
		map[string]any{"textDocument": map[string]any{"uri": testURI}}, s.handleSemanticTokensFull)
	if string(raw) != `{"data":[]}` {
		t.Fatalf("result = %s", raw)
	}
}

func TestDefinitionReturnsEmpty(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	s.traceLSP = true
	openDoc(t, s, testURI, "service s {\n  function f() { return true; }\n  allow read: if f();\n}")
	raw := request(t, s, &out, "textDocument/definition", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 2, "character": 17},
	}, s.handleDefinition)
	if string(raw) != "[]" {
		t.Fatalf("definition = %s", raw)
	}
}

func TestDocumentSymbols(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {\n  match /users/{uid} {\n    function isOwner() { return true; }\n  }\n}")
	raw := request(t, s, &out, "textDocument/documentSymbol",
		map[string]any{"textDocument": map[string]any{"uri": testURI}}, s.handleDocumentSymbol)
	var syms []protocol.DocumentSymbol
	if err := json.Unmarshal(raw, &syms); err != nil {
		t.Fatalf("decode symbols: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "/users/{uid}" || syms[0].Kind != protocol.SymbolKindNamespace {
		t.Fatalf("symbols = %+v", syms)
	}
	fn := syms[0].Children
	if len(fn) != 1 || fn[0].Name != "isOwner" || fn[0].Kind != protocol.SymbolKindFunction {
		t.Fatalf("children = %+v", fn)
	}
	sel := fn[0].SelectionRange
	if sel.Start != (protocol.Position{Line: 2, Character: 13}) || sel.End != (protocol.Position{Line: 2, Character: 20}) {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestDidChangeConfigurationSwitchesPolicy(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(t, bytes.NewReader(nil), &out)
	openDoc(t, s, testURI, "service s {}")
	s.flushDiagnostics()
	before := s.store
	params := map[string]any{"settings": map[string]any{
		"firerules": map[string]any{"scopePolicy": "innermost", "lsp": map[string]any{"trace": true}},
	}}
	if err := s.handleDidChangeConfiguration(&rpcMessage{Params: mustParams(t, params)}); err != nil {
		t.Fatalf("didChangeConfiguration: %v", err)
	}
	s.stopDebounce()
	if s.store == before || !s.traceLSP || !s.docs[testURI].dirty {
		t.Fatal("settings not applied")
	}
	if s.store.Options().Policy.String() != "innermost" {
		t.Fatalf("policy = %v", s.store.Options().Policy)
	}
}
