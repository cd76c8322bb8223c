package lsp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/svlang/svkit/lint"
)

// Server is the language-server process state: the enabled lint
// rules/waivers every diagnostics pass runs with, and the set of
// currently-open documents.
type Server struct {
	registry *lint.Registry
	enabled  map[string]string
	waivers  []lint.Waiver

	docs *documentStore
	conn *conn

	shutdownRequested bool
}

// NewServer constructs a Server that lints with reg's rules, enabled
// per the enabled map (rule name -> config string, the same shape
// cmd/svlint's --rules/--rules_config flags resolve to), applying
// waivers.
func NewServer(reg *lint.Registry, enabled map[string]string, waivers []lint.Waiver) *Server {
	return &Server{
		registry: reg,
		enabled:  enabled,
		waivers:  waivers,
		docs:     newDocumentStore(),
	}
}

// Serve runs the read-dispatch-write loop against r/w until the peer
// closes the stream or an "exit" notification is received. It returns
// nil on a clean exit, or the read error otherwise.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.conn = newConn(r, w)
	for {
		req, err := s.conn.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if exit := s.dispatch(req); exit {
			return nil
		}
	}
}

// dispatch handles one decoded message, returning true once the
// server should stop serving (an "exit" notification).
func (s *Server) dispatch(req *request) (exit bool) {
	isRequest := len(req.ID) > 0

	result, rpcErr := s.handle(req)

	if req.Method == "exit" {
		return true
	}
	if !isRequest {
		if rpcErr != nil {
			slog.Warn("lsp notification handler failed", "method", req.Method, "message", rpcErr.Message)
		}
		return false
	}
	if err := s.conn.writeResponse(req.ID, result, rpcErr); err != nil {
		slog.Error("lsp writing response failed", "method", req.Method, "error", err)
	}
	return false
}

func (s *Server) handle(req *request) (interface{}, *rpcError) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.Params)
	case "initialized":
		return nil, nil
	case "shutdown":
		s.shutdownRequested = true
		return nil, nil
	case "exit":
		return nil, nil
	case "textDocument/didOpen":
		return nil, s.handleDidOpen(req.Params)
	case "textDocument/didChange":
		return nil, s.handleDidChange(req.Params)
	case "textDocument/didClose":
		return nil, s.handleDidClose(req.Params)
	case "textDocument/didSave":
		return nil, s.handleDidSave(req.Params)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(req.Params)
	case "textDocument/documentHighlight":
		return s.handleDocumentHighlight(req.Params)
	case "textDocument/definition":
		return s.handleDefinition(req.Params)
	case "textDocument/formatting":
		return s.handleFormatting(req.Params)
	case "textDocument/rangeFormatting":
		return s.handleRangeFormatting(req.Params)
	case "textDocument/rename":
		return s.handleRename(req.Params)
	case "textDocument/codeAction":
		return s.handleCodeAction(req.Params)
	default:
		return nil, &rpcError{Code: errCodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

// serverCapabilities is the subset of InitializeResult.capabilities
// svkit's server actually implements; every other field defaults to
// its JSON zero value (unregistered/disabled), which clients are
// required to treat as "not supported" per the protocol.
type serverCapabilities struct {
	TextDocumentSync           int                       `json:"textDocumentSync"`
	DocumentSymbolProvider     bool                      `json:"documentSymbolProvider"`
	DocumentHighlightProvider  bool                      `json:"documentHighlightProvider"`
	DefinitionProvider         bool                      `json:"definitionProvider"`
	DocumentFormattingProvider bool                      `json:"documentFormattingProvider"`
	DocumentRangeFormatting    bool                      `json:"documentRangeFormattingProvider"`
	RenameProvider             bool                      `json:"renameProvider"`
	CodeActionProvider         bool                      `json:"codeActionProvider"`
}

type initializeResult struct {
	Capabilities serverCapabilities `json:"capabilities"`
}

// textDocumentSyncFull is the textDocumentSync.Kind value meaning the
// client sends the entire document text on every change, the simplest
// of the three kinds the protocol defines and the only one this
// server asks for.
const textDocumentSyncFull = 1

func (s *Server) handleInitialize(params json.RawMessage) (interface{}, *rpcError) {
	return initializeResult{Capabilities: serverCapabilities{
		TextDocumentSync:           textDocumentSyncFull,
		DocumentSymbolProvider:     true,
		DocumentHighlightProvider:  true,
		DefinitionProvider:         true,
		DocumentFormattingProvider: true,
		DocumentRangeFormatting:    true,
		RenameProvider:             true,
		CodeActionProvider:         true,
	}}, nil
}
