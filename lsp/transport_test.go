package lsp

import (
	"bufio"
	"bytes"
	"testing"
)

func TestWriteFrameReadFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	body := []byte(`{"jsonrpc":"2.0","method":"initialized"}`)

	if err := writeFrame(&buf, body); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("readFrame = %q, want %q", got, body)
	}
}

func TestReadFrame_MissingContentLength(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte("\r\n")))
	if _, err := readFrame(r); err == nil {
		t.Error("expected an error for a frame with no Content-Length header")
	}
}

func TestConn_WriteResponseThenNotification(t *testing.T) {
	var buf bytes.Buffer
	c := newConn(&bytes.Buffer{}, &buf)

	if err := c.writeResponse([]byte(`1`), map[string]string{"ok": "yes"}, nil); err != nil {
		t.Fatalf("writeResponse: %v", err)
	}
	if err := c.writeNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{URI: "file:///a.sv"}); err != nil {
		t.Fatalf("writeNotification: %v", err)
	}

	r := bufio.NewReader(&buf)
	first, err := readFrame(r)
	if err != nil {
		t.Fatalf("reading first frame: %v", err)
	}
	if !bytes.Contains(first, []byte(`"ok":"yes"`)) {
		t.Errorf("first frame missing result payload: %s", first)
	}
	second, err := readFrame(r)
	if err != nil {
		t.Fatalf("reading second frame: %v", err)
	}
	if !bytes.Contains(second, []byte("publishDiagnostics")) {
		t.Errorf("second frame missing method name: %s", second)
	}
}
