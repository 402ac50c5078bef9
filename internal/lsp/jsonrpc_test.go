package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFramingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msgs := []string{`{"jsonrpc":"2.0","method":"one"}`, `{"jsonrpc":"2.0","method":"двa"}`, ``}
	for _, m := range msgs {
		if err := writeMessage(&buf, []byte(m)); err != nil {
			t.Fatalf("write %q: %v", m, err)
		}
	}
	reader := bufio.NewReader(&buf)
	for _, want := range msgs {
		got, err := readMessage(reader)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestReadMessageHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"content type first", "Content-Type: application/vscode-jsonrpc\r\ncontent-length: 2\r\n\r\n{}", "{}", false},
		{"missing length", "X-Other: 1\r\n\r\n{}", "", true},
		{"negative length", "Content-Length: -1\r\n\r\n", "", true},
		{"garbage length", "Content-Length: ten\r\n\r\n", "", true},
		{"too large", "Content-Length: 999999999999\r\n\r\n", "", true},
		{"short body", "Content-Length: 10\r\n\r\n{}", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readMessage(bufio.NewReader(strings.NewReader(tt.input)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(got) != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
	_, err := readMessage(bufio.NewReader(strings.NewReader("\r\n")))
	if !errors.Is(err, errNoContentLength) {
		t.Fatalf("err = %v, want errNoContentLength", err)
	}
}
