// Package lsp implements a minimal stdio JSON-RPC server for the
// language-server surface: a `Content-Length:`-framed
// request/response/notification loop wired to
// the same lint/project/symtab/format machinery the CLI entry points
// drive, rather than a second implementation of that logic.
//
// The wire framing itself is hand-rolled rather than imported from a
// third-party LSP transport library: no full source for one exists
// anywhere in the retrieved pack (only a bare go.mod manifest
// mentioning go.lsp.dev's packages, with no accompanying source to
// ground an exact call-site against), and the framing is explicitly
// named as an out-of-scope external collaborator, so a small, honest
// stdlib implementation was preferred over guessing at an
// unverifiable API (see DESIGN.md).
package lsp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readFrame reads one `Content-Length: N\r\n\r\n<N bytes>` frame from
// r, returning the body bytes.
func readFrame(r *bufio.Reader) ([]byte, error) {
	var contentLength int
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
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: bad Content-Length header %q: %w", value, err)
			}
			contentLength = n
		}
	}
	if contentLength <= 0 {
		return nil, fmt.Errorf("lsp: missing or zero Content-Length header")
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeFrame writes body to w with a Content-Length header, per the
// same framing readFrame parses.
func writeFrame(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
