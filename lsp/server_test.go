package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/svlang/svkit/lint"
)

// frame wraps body in the same Content-Length envelope the transport
// expects, for building request streams in tests.
func frame(t *testing.T, body string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := writeFrame(&buf, []byte(body)); err != nil {
		t.Fatalf("framing test message: %v", err)
	}
	return buf.String()
}

func TestServer_InitializeRequest(t *testing.T) {
	server := NewServer(lint.NewRegistry(), nil, nil)

	in := frame(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`) +
		frame(t, `{"jsonrpc":"2.0","method":"exit"}`)

	var out bytes.Buffer
	if err := server.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	body, err := readFrame(bufio.NewReader(&out))
	if err != nil {
		t.Fatalf("reading initialize response: %v", err)
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("initialize returned an error: %+v", resp.Error)
	}
}

func TestServer_DidOpen_PublishesDiagnostics(t *testing.T) {
	reg := lint.NewRegistry()
	server := NewServer(reg, map[string]string{}, nil)

	params, err := json.Marshal(didOpenParams{
		TextDocument: textDocumentItem{
			URI:     "file:///tmp/example.sv",
			Version: 1,
			Text:    "module m;\nendmodule\n",
		},
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	reqBody, err := json.Marshal(request{JSONRPC: "2.0", Method: "textDocument/didOpen", Params: params})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	in := frame(t, string(reqBody)) + frame(t, `{"jsonrpc":"2.0","method":"exit"}`)

	var out bytes.Buffer
	if err := server.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	body, err := readFrame(bufio.NewReader(&out))
	if err != nil {
		t.Fatalf("reading publishDiagnostics notification: %v", err)
	}
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		t.Fatalf("decoding notification: %v", err)
	}
	if n.Method != "textDocument/publishDiagnostics" {
		t.Errorf("method = %q, want textDocument/publishDiagnostics", n.Method)
	}
}
