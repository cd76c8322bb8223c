package lsp

import (
	"encoding/json"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/parseengine"
	"github.com/svlang/svkit/token"
)

// symbolKind mirrors the protocol's SymbolKind enum for the shapes
// svkit's CST actually distinguishes (module/class/package as
// Namespace-ish containers, function/task as Function/Method).
const (
	symbolKindModule   = 2  // Module
	symbolKindPackage  = 4  // Package
	symbolKindClass    = 5  // Class
	symbolKindFunction = 12 // Function
	symbolKindMethod   = 6  // Method (used for tasks)
)

type documentSymbol struct {
	Name           string           `json:"name"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []documentSymbol `json:"children,omitempty"`
}

var tagSymbolKind = map[cst.NodeTag]int{
	cst.TagModuleDeclaration:   symbolKindModule,
	cst.TagPackageDeclaration:  symbolKindPackage,
	cst.TagClassDeclaration:    symbolKindClass,
	cst.TagFunctionDeclaration: symbolKindFunction,
	cst.TagTaskDeclaration:     symbolKindMethod,
}

func (s *Server) handleDocumentSymbol(params json.RawMessage) (interface{}, *rpcError) {
	var p textDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	doc, ok := s.docs.get(p.TextDocument.URI)
	if !ok {
		return []documentSymbol{}, nil
	}
	_, ts, _ := s.runDiagnostics(doc.path, doc.text)
	if ts.Tree == nil {
		return []documentSymbol{}, nil
	}
	return collectDocumentSymbols(ts.Tree, doc.text), nil
}

type textDocumentParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

// collectDocumentSymbols walks every Node descendant of sym,
// emitting one documentSymbol per declaration tag this server
// recognises (the closed set of container/declaration tags a symbol
// outline cares about),
// nesting children the way the protocol's hierarchical
// DocumentSymbol shape expects.
func collectDocumentSymbols(sym *cst.Symbol, src []byte) []documentSymbol {
	var out []documentSymbol
	n, ok := cst.SymbolCastToNode(sym)
	if !ok {
		return out
	}
	if kind, isDecl := tagSymbolKind[n.Tag]; isDecl {
		name := firstIdentifierName(sym)
		rng := symbolRange(sym, src)
		ds := documentSymbol{
			Name:           name,
			Kind:           kind,
			Range:          rng,
			SelectionRange: rng,
		}
		for _, c := range n.Children {
			ds.Children = append(ds.Children, collectDocumentSymbols(c, src)...)
		}
		return append(out, ds)
	}
	for _, c := range n.Children {
		out = append(out, collectDocumentSymbols(c, src)...)
	}
	return out
}

// firstIdentifierName finds the first identifier-kind leaf under sym,
// a pragmatic stand-in for a true "declared name" accessor: the CST
// here carries no dedicated name-child index per tag, only an ordered
// children list, so the first identifier token in source order is the
// declaration's name in every production this server recognises
// (module/package/class/function/task headers all lead with their
// name).
func firstIdentifierName(sym *cst.Symbol) string {
	if sym == nil {
		return ""
	}
	if l, ok := cst.SymbolCastToLeaf(sym); ok {
		if l.Token.TokenKind().IsIdentifierKind() {
			return l.Token.Text
		}
		return ""
	}
	n, ok := cst.SymbolCastToNode(sym)
	if !ok {
		return ""
	}
	for _, c := range n.Children {
		if name := firstIdentifierName(c); name != "" {
			return name
		}
	}
	return ""
}

func symbolRange(sym *cst.Symbol, src []byte) Range {
	first := cst.GetLeftmostLeaf(sym)
	last := cst.GetRightmostLeaf(sym)
	if first == nil || last == nil {
		return Range{}
	}
	return Range{
		Start: offsetToPosition(src, first.Token.Range().Start),
		End:   offsetToPosition(src, last.Token.Range().End),
	}
}

type textDocumentPositionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type locationResult struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type documentHighlightResult struct {
	Range Range `json:"range"`
	Kind  int   `json:"kind"`
}

// identifierAt returns the identifier-kind token whose byte range
// contains offset, or (token.Token{}, false) if none does.
func identifierAt(toks []token.Token, offset int) (token.Token, bool) {
	for _, t := range toks {
		if !t.TokenKind().IsIdentifierKind() {
			continue
		}
		r := t.Range()
		if offset >= r.Start && offset < r.End {
			return t, true
		}
	}
	return token.Token{}, false
}

// handleDocumentHighlight and handleDefinition both resolve the
// identifier at the cursor lexically within the single open document:
// the symbol table's ReferenceComponent tree (C7) does not retain the
// byte position of a reference's own occurrence, only the identifier
// text and its resolved declaration, so a true cross-file
// go-to-definition would have nowhere to point the "from" side of the
// edit back at. Matching every same-spelled identifier token in the
// current document is the closest honest approximation available
// without extending that data model.
func (s *Server) handleDocumentHighlight(params json.RawMessage) (interface{}, *rpcError) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	doc, ok := s.docs.get(p.TextDocument.URI)
	if !ok {
		return []documentHighlightResult{}, nil
	}
	toks := lexOnly(doc.text)
	offset := positionToOffset(doc.text, p.Position)
	target, ok := identifierAt(toks, offset)
	if !ok {
		return []documentHighlightResult{}, nil
	}
	var out []documentHighlightResult
	for _, t := range toks {
		if t.TokenKind().IsIdentifierKind() && t.Text == target.Text {
			out = append(out, documentHighlightResult{
				Range: Range{
					Start: offsetToPosition(doc.text, t.Range().Start),
					End:   offsetToPosition(doc.text, t.Range().End),
				},
				Kind: 1, // Text
			})
		}
	}
	if out == nil {
		out = []documentHighlightResult{}
	}
	return out, nil
}

// handleDefinition returns the first same-spelled identifier token in
// the document as the "definition" site, the same single-file
// lexical heuristic handleDocumentHighlight uses, for the reason
// documented on it.
func (s *Server) handleDefinition(params json.RawMessage) (interface{}, *rpcError) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	doc, ok := s.docs.get(p.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	toks := lexOnly(doc.text)
	offset := positionToOffset(doc.text, p.Position)
	target, ok := identifierAt(toks, offset)
	if !ok {
		return nil, nil
	}
	for _, t := range toks {
		if t.TokenKind().IsIdentifierKind() && t.Text == target.Text {
			return locationResult{
				URI: p.TextDocument.URI,
				Range: Range{
					Start: offsetToPosition(doc.text, t.Range().Start),
					End:   offsetToPosition(doc.text, t.Range().End),
				},
			}, nil
		}
	}
	return nil, nil
}

type renameParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	NewName      string                 `json:"newName"`
}

type textEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type workspaceEditResult struct {
	Changes map[string][]textEdit `json:"changes"`
}

// handleRename renames every occurrence of the identifier at the
// cursor within the current document, the same single-file scope
// handleDocumentHighlight and handleDefinition settle for.
func (s *Server) handleRename(params json.RawMessage) (interface{}, *rpcError) {
	var p renameParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	doc, ok := s.docs.get(p.TextDocument.URI)
	if !ok {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: "document not open"}
	}
	toks := lexOnly(doc.text)
	offset := positionToOffset(doc.text, p.Position)
	target, ok := identifierAt(toks, offset)
	if !ok {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: "no identifier at position"}
	}
	var edits []textEdit
	for _, t := range toks {
		if t.TokenKind().IsIdentifierKind() && t.Text == target.Text {
			edits = append(edits, textEdit{
				Range: Range{
					Start: offsetToPosition(doc.text, t.Range().Start),
					End:   offsetToPosition(doc.text, t.Range().End),
				},
				NewText: p.NewName,
			})
		}
	}
	return workspaceEditResult{Changes: map[string][]textEdit{p.TextDocument.URI: edits}}, nil
}

// lexOnly tokenizes src for the lexical helpers above, which only
// need the token stream and tolerate lex diagnostics since they are
// matching identifier spellings, not requiring a clean parse.
func lexOnly(src []byte) []token.Token {
	toks, _ := parseengine.Lex(src)
	return toks
}
