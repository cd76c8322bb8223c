package lsp

import "encoding/json"

// codeActionParams mirrors the subset of CodeActionParams this server
// reads: which document, and the range the client is asking for
// actions within (diagnostics the client already has are ignored —
// the server just recomputes the same violations covered by
// publishDiagnostics and filters by range overlap, keeping the two
// code paths from drifting apart).
type codeActionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

type codeAction struct {
	Title string              `json:"title"`
	Kind  string              `json:"kind"`
	Edit  workspaceEditResult `json:"edit"`
}

const codeActionKindQuickFix = "quickfix"

// handleCodeAction turns each in-range violation's lint.AutoFix
// (C8/C10's ReplacementEdit set) into one LSP CodeAction with a
// WorkspaceEdit, the same edit application lint.AutoFix.Apply
// performs, expressed as protocol text edits instead of a rewritten
// string.
func (s *Server) handleCodeAction(params json.RawMessage) (interface{}, *rpcError) {
	var p codeActionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: errCodeInvalidParams, Message: err.Error()}
	}
	doc, ok := s.docs.get(p.TextDocument.URI)
	if !ok {
		return []codeAction{}, nil
	}
	violations, _, _ := s.runDiagnostics(doc.path, doc.text)

	requestStart := positionToOffset(doc.text, p.Range.Start)
	requestEnd := positionToOffset(doc.text, p.Range.End)

	var actions []codeAction
	for _, v := range violations {
		tokStart := v.Violation.Token.Range().Start
		tokEnd := v.Violation.Token.Range().End
		if tokEnd < requestStart || tokStart > requestEnd {
			continue
		}
		for _, fix := range v.Violation.Autofixes {
			var edits []textEdit
			for _, e := range fix.Edits() {
				edits = append(edits, textEdit{
					Range: Range{
						Start: offsetToPosition(doc.text, e.Fragment.Start),
						End:   offsetToPosition(doc.text, e.Fragment.End),
					},
					NewText: e.Replacement,
				})
			}
			actions = append(actions, codeAction{
				Title: "svkit: fix " + v.Rule,
				Kind:  codeActionKindQuickFix,
				Edit: workspaceEditResult{
					Changes: map[string][]textEdit{p.TextDocument.URI: edits},
				},
			})
		}
	}
	if actions == nil {
		actions = []codeAction{}
	}
	return actions, nil
}
