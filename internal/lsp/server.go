package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.lsp.dev/protocol"

	"firerules/internal/analysis"
	"firerules/internal/semtok"
	"firerules/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce       time.Duration
	MaxDiagnostics int
	Analysis       analysis.Options
	Trace          bool
	// Log receives server logs; stderr when nil.
	Log io.Writer
}

// docState is the server's view of one open document. rev grows on every
// text change and is the version stored in analysis snapshots.
type docState struct {
	text    string
	version int32
	rev     int32
	dirty   bool
}

// Server handles stdio JSON-RPC for firestore rules documents.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	log    io.Writer

	mu                sync.Mutex
	docs              map[string]*docState
	store             *analysis.Store
	analysisOpts      analysis.Options
	published         map[string]struct{}
	shutdownRequested bool
	debounce          time.Duration
	debounceTimer     *time.Timer
	latestSeq         uint64
	maxDiagnostics    int
	traceLSP          bool
	baseCtx           context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logw := opts.Log
	if logw == nil {
		logw = os.Stderr
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		log:            logw,
		docs:           make(map[string]*docState),
		store:          analysis.NewStore(opts.Analysis),
		analysisOpts:   opts.Analysis,
		published:      make(map[string]struct{}),
		debounce:       debounce,
		maxDiagnostics: maxDiagnostics,
		traceLSP:       opts.Trace,
		baseCtx:        context.Background(),
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stopDebounce()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

type handlerFunc func(s *Server, msg *rpcMessage) error

var handlers = map[string]handlerFunc{
	"initialize":                       (*Server).handleInitialize,
	"initialized":                      func(*Server, *rpcMessage) error { return nil },
	"shutdown":                         (*Server).handleShutdown,
	"exit":                             (*Server).handleExit,
	"workspace/didChangeConfiguration": (*Server).handleDidChangeConfiguration,
	"textDocument/didOpen":             (*Server).handleDidOpen,
	"textDocument/didChange":           (*Server).handleDidChange,
	"textDocument/didSave":             (*Server).handleDidSave,
	"textDocument/didClose":            (*Server).handleDidClose,
	"textDocument/semanticTokens/full": (*Server).handleSemanticTokensFull,
	"textDocument/definition":          (*Server).handleDefinition,
	"textDocument/documentSymbol":      (*Server).handleDocumentSymbol,
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if s.currentTrace() {
		s.logf("<- %s", msg.Method)
	}
	h, ok := handlers[msg.Method]
	if !ok {
		// notifications we do not know are ignored
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found: "+msg.Method)
		}
		return nil
	}
	return h(s, msg)
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}
	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semtok.Legend(),
				Full:   true,
			},
		},
		ServerInfo: serverInfo{Name: "firerules", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopDebounce()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleExit(*rpcMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdownRequested {
		return ErrExit
	}
	return ErrExitWithoutShutdown
}

// touchDoc runs edit on the state of uri under the lock and schedules a
// diagnostics pass when edit reports a change. create adds missing entries.
func (s *Server) touchDoc(uri string, create bool, edit func(st *docState) bool) {
	s.mu.Lock()
	st := s.docs[uri]
	if st == nil && create {
		st = &docState{}
		s.docs[uri] = st
	}
	changed := st != nil && edit(st)
	if changed {
		st.dirty = true
	}
	s.mu.Unlock()
	if changed {
		s.scheduleDiagnostics()
	}
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := string(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.touchDoc(uri, true, func(st *docState) bool {
		st.text = params.TextDocument.Text
		st.version = params.TextDocument.Version
		st.rev++
		return true
	})
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := string(params.TextDocument.URI)
	if s.currentTrace() {
		s.logf("didChange: uri=%s version=%d changes=%d", uri, params.TextDocument.Version, len(params.ContentChanges))
	}
	s.touchDoc(uri, false, func(st *docState) bool {
		st.text = applyChanges(st.text, params.ContentChanges)
		st.version = params.TextDocument.Version
		st.rev++
		return true
	})
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	// a save re-runs diagnostics even when the text is unchanged
	s.touchDoc(string(params.TextDocument.URI), false, func(st *docState) bool {
		if params.Text != nil && *params.Text != st.text {
			st.text = *params.Text
			st.rev++
		}
		return true
	})
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := string(params.TextDocument.URI)
	s.mu.Lock()
	delete(s.docs, uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	store := s.store
	s.mu.Unlock()
	store.Remove(uri)
	if hadDiagnostics {
		if err := s.sendPublish(uri, 0, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	return nil
}

// document returns an analysis snapshot matching the current text of uri,
// analyzing it now if the stored one is stale.
func (s *Server) document(uri string) *analysis.Document {
	s.mu.Lock()
	st := s.docs[uri]
	if st == nil {
		s.mu.Unlock()
		return nil
	}
	text, rev := st.text, st.rev
	store := s.store
	s.mu.Unlock()

	if doc := store.Get(uri); doc != nil && doc.Version == rev {
		return doc
	}
	doc, _ := store.Update(uri, rev, displayPath(uri), text)
	return doc
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(rpcErrorResponse{JSONRPC: "2.0", ID: id, Error: rpcError{Code: code, Message: message}})
}

func (s *Server) sendPublish(uri string, version int32, list []protocol.Diagnostic) error {
	if list == nil {
		list = []protocol.Diagnostic{}
	}
	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: list,
	}
	if version > 0 {
		params.Version = safeUint32(int(version))
	}
	return s.send(rpcNotification{JSONRPC: "2.0", Method: "textDocument/publishDiagnostics", Params: params})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}
