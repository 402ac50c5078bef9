package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"firerules/internal/analysis"
)

func newTestServer(t *testing.T, in io.Reader, out *bytes.Buffer) *Server {
	t.Helper()
	return NewServer(in, out, ServerOptions{
		Debounce: time.Hour,
		Analysis: analysis.DefaultOptions(),
		Log:      io.Discard,
	})
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return data
}

func frame(t *testing.T, msgs ...map[string]any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		m["jsonrpc"] = "2.0"
		payload, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := writeMessage(&buf, payload); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return &buf
}

func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func openDoc(t *testing.T, s *Server, uri, text string) {
	t.Helper()
	params := map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "firestore-rules", "version": 1, "text": text},
	}
	if err := s.handleDidOpen(&rpcMessage{Method: "textDocument/didOpen", Params: mustParams(t, params)}); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	s.stopDebounce()
}
