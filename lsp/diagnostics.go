package lsp

import (
	"encoding/json"
	"strings"

	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/lint/rules"
	"github.com/svlang/svkit/parseengine"
	"github.com/svlang/svkit/symtab"
)

// textDocumentItem mirrors the protocol's TextDocumentItem: a URI,
// its content, and a monotonically increasing version.
type textDocumentItem struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
	Text    string `json:"text"`
}

type versionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type contentChangeEvent struct {
	// Text is the new full document content. Only
	// textDocumentSyncFull is advertised in handleInitialize, so
	// Range/RangeLength (incremental-sync fields) are never populated
	// by a well-behaved client and are not read here.
	Text string `json:"text"`
}

type didOpenParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

type didChangeParams struct {
	TextDocument   versionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []contentChangeEvent             `json:"contentChanges"`
}

type didCloseParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

type didSaveParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

func (s *Server) handleDidOpen(params json.RawMessage) *rpcError {
	var p didOpenParams
	if err := json.Unmarshal(params, &p); err != nil {
		return &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	s.docs.open(p.TextDocument.URI, uriToPath(p.TextDocument.URI), p.TextDocument.Version, []byte(p.TextDocument.Text))
	s.publishDiagnostics(p.TextDocument.URI)
	return nil
}

func (s *Server) handleDidChange(params json.RawMessage) *rpcError {
	var p didChangeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	if len(p.ContentChanges) == 0 {
		return nil
	}
	// Full-document sync: the last change event in the batch carries
	// the entire new content.
	latest := p.ContentChanges[len(p.ContentChanges)-1]
	s.docs.update(p.TextDocument.URI, p.TextDocument.Version, []byte(latest.Text))
	s.publishDiagnostics(p.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(params json.RawMessage) *rpcError {
	var p didCloseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	s.docs.close(p.TextDocument.URI)
	// Clear diagnostics for a closed document rather than leaving a
	// stale set in the client's UI.
	s.conn.writeNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []lspDiagnostic{},
	})
	return nil
}

func (s *Server) handleDidSave(params json.RawMessage) *rpcError {
	var p didSaveParams
	if err := json.Unmarshal(params, &p); err != nil {
		return &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	s.publishDiagnostics(p.TextDocument.URI)
	return nil
}

// diagnosticSeverity mirrors the protocol's DiagnosticSeverity enum
// (1 = Error .. 4 = Hint).
const (
	diagSeverityError   = 1
	diagSeverityWarning = 2
	diagSeverityInfo    = 3
	diagSeverityHint    = 4
)

type lspDiagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
}

type publishDiagnosticsParams struct {
	URI         string          `json:"uri"`
	Diagnostics []lspDiagnostic `json:"diagnostics"`
}

// lexParse is the LexParseFunc lint.RunFile drives, identical in
// shape to the one cmd/svlint wires up, kept private here since the
// server never needs it outside diagnostics/symbol/codeaction
// handlers that all re-derive the same TextStructure per request.
func lexParse(path string, source []byte) (*lint.TextStructure, *diag.Bag) {
	bag := &diag.Bag{}
	toks, lexDiags := parseengine.Lex(source)
	for _, d := range lexDiags {
		bag.Add(d)
	}
	tree, parseDiags := parseengine.Parse(toks)
	for _, d := range parseDiags {
		bag.Add(d)
	}
	lines := strings.Split(string(source), "\n")
	return &lint.TextStructure{
		Path:       path,
		Source:     source,
		Tokens:     toks,
		Lines:      lines,
		Tree:       tree,
		LexClean:   !bag.HasErrorOrWorse(),
		ParseClean: !bag.HasErrorOrWorse(),
	}, bag
}

// runDiagnostics lexes, parses, and lints source, returning both the
// resulting violations (for codeAction/symbol reuse) and its
// TextStructure. When unqualified-reference-no-typo is enabled, a
// symbol table spanning every currently open document is built first
// so that rule sees the whole project, not just the one file being
// diagnosed.
func (s *Server) runDiagnostics(path string, source []byte) ([]lint.ViolationWithStatus, *lint.TextStructure, *diag.Bag) {
	ts, _ := lexParse(path, source)

	var table *symtab.SymbolTable
	if _, wired := s.enabled[rules.UnqualifiedReferenceNoTypoName]; wired {
		table = s.buildSymbolTable(path, source)
	}

	violations, bag := lint.RunFile(path, source, s.enabled, s.registry, s.waivers, lexParse, table)
	return violations, ts, bag
}

// buildSymbolTable lexes and parses every open document (substituting
// source/path for whichever one is currently being diagnosed, in case
// it hasn't been saved into the document store's snapshot yet) and
// folds them all into one resolved, project-wide symbol table.
func (s *Server) buildSymbolTable(path string, source []byte) *symtab.SymbolTable {
	docs := s.docs.snapshot()
	docs[path] = source

	table := symtab.New(nil)
	for p, src := range docs {
		tree, _ := lexParse(p, src)
		table.Build(tree.Tree, p)
	}
	table.ResolveLocallyOnly()
	table.Resolve()
	return table
}

func (s *Server) publishDiagnostics(uri string) {
	doc, ok := s.docs.get(uri)
	if !ok {
		return
	}
	violations, _, bag := s.runDiagnostics(doc.path, doc.text)

	var diags []lspDiagnostic
	for _, d := range bag.Items() {
		sev := diagSeverityError
		switch d.Severity {
		case diag.Warning:
			sev = diagSeverityWarning
		case diag.Info:
			sev = diagSeverityInfo
		}
		pos := Position{}
		if d.Pos != nil {
			pos = Position{Line: d.Pos.Line - 1, Character: d.Pos.Column - 1}
		}
		diags = append(diags, lspDiagnostic{
			Range:    Range{Start: pos, End: pos},
			Severity: sev,
			Source:   "svkit",
			Message:  d.Message,
		})
	}
	for _, v := range violations {
		start := offsetToPosition(doc.text, v.Violation.Token.Range().Start)
		end := offsetToPosition(doc.text, v.Violation.Token.Range().End)
		diags = append(diags, lspDiagnostic{
			Range:    Range{Start: start, End: end},
			Severity: diagSeverityWarning,
			Source:   "svkit",
			Message:  v.Violation.Reason,
			Code:     v.Rule,
		})
	}
	if diags == nil {
		diags = []lspDiagnostic{}
	}

	s.conn.writeNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}
