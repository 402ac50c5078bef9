package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxMessageSize bounds one framed payload (64 MiB).
const maxMessageSize = 64 << 20

var errNoContentLength = errors.New("missing Content-Length header")

// readMessage reads one Content-Length framed payload. Unknown headers such as
// Content-Type are skipped.
func readMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid Content-Length %q", strings.TrimSpace(value))
		}
		if n > maxMessageSize {
			return nil, fmt.Errorf("message of %d bytes exceeds limit of %d", n, maxMessageSize)
		}
		length = n
	}
	if length < 0 {
		return nil, errNoContentLength
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return payload, nil
}

// writeMessage frames payload and hands header and body to w in one Write.
func writeMessage(w io.Writer, payload []byte) error {
	frame := make([]byte, 0, len(payload)+32)
	frame = append(frame, "Content-Length: "...)
	frame = strconv.AppendInt(frame, int64(len(payload)), 10)
	frame = append(frame, "\r\n\r\n"...)
	frame = append(frame, payload...)
	_, err := w.Write(frame)
	return err
}
