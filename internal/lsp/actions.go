package lsp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"devreplay/internal/engine"
	"devreplay/internal/rule"
)

// handleCodeAction builds the quick-fix menu for a set of diagnostics.
// The request re-lints the document so actions are generated against the
// current rule-file state rather than whatever was loaded when the
// diagnostics were published. Anything that cannot be resolved degrades
// to a smaller action list; the request itself never fails.
func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	uri := canonicalURI(params.TextDocument.URI)

	s.mu.Lock()
	text, open := s.docs[uri]
	version := s.versions[uri]
	ws := s.workspace
	s.mu.Unlock()

	mine := make([]lspDiagnostic, 0, len(params.Context.Diagnostics))
	for _, d := range params.Context.Diagnostics {
		if d.Source == sourceName {
			mine = append(mine, d)
		}
	}
	if uri == "" || !open || !ws.ok() || len(mine) == 0 {
		return s.sendResponse(msg.ID, []codeAction{})
	}

	path := uriToPath(uri)
	f, err := s.loadRules(ws.root)
	if err != nil {
		s.logger.Warn("failed to load rules for code action", "err", err)
		return s.sendResponse(msg.ID, []codeAction{})
	}
	results := s.lint(path, text, f.Rules)

	actions := make([]codeAction, 0, len(mine)*4+1)
	for _, d := range mine {
		actions = append(actions, s.actionsForDiagnostic(uri, version, text, d, results)...)
	}
	actions = append(actions, s.fixAllAction(uri, version, path, text, f.Rules, mine))
	return s.sendResponse(msg.ID, actions)
}

// actionsForDiagnostic builds the per-diagnostic remedies: one quick-fix
// edit plus the three severity commands.
func (s *Server) actionsForDiagnostic(uri string, version int, text string, d lspDiagnostic, results []engine.Result) []codeAction {
	r, resolved := resolveRule(d.Code, results)

	ruleID := d.Code
	if resolved && r.RuleID != "" {
		ruleID = r.RuleID
	}

	var actions []codeAction

	// Single fix. When the rule cannot be recovered or its pattern no
	// longer matches the range content, the action is still offered with
	// an empty edit so the action list stays consistent under drift.
	edits := []textEdit{}
	title := "Fix this problem"
	preferred := false
	if resolved {
		title = fmt.Sprintf("Fix: %s", r.Description())
		if fixed, ok := s.fixWithRule(sliceRange(text, d.Range), r); ok {
			edits = []textEdit{{Range: d.Range, NewText: fixed}}
			preferred = true
		}
	}
	actions = append(actions, codeAction{
		Title:       title,
		Kind:        "quickfix",
		Diagnostics: []lspDiagnostic{d},
		IsPreferred: preferred,
		Edit:        editFor(uri, version, edits),
	})

	// The severity commands need a stable identifier. A numeric index
	// fallback is not one, so they are omitted for ID-less rules.
	if ruleID == "" || isIndexCode(ruleID, results) {
		return actions
	}
	actions = append(actions,
		codeAction{
			Title:       fmt.Sprintf("Disable rule %s", ruleID),
			Kind:        "quickfix",
			Diagnostics: []lspDiagnostic{d},
			Command: &command{
				Title:     "Disable rule",
				Command:   cmdDisableRule,
				Arguments: []any{ruleID},
			},
		},
		codeAction{
			Title:       fmt.Sprintf("Upgrade severity of %s", ruleID),
			Kind:        "quickfix",
			Diagnostics: []lspDiagnostic{d},
			Command: &command{
				Title:     "Upgrade severity",
				Command:   cmdUpgradeSeverity,
				Arguments: []any{ruleID},
			},
		},
		codeAction{
			Title:       fmt.Sprintf("Downgrade severity of %s", ruleID),
			Kind:        "quickfix",
			Diagnostics: []lspDiagnostic{d},
			Command: &command{
				Title:     "Downgrade severity",
				Command:   cmdDowngradeSeverity,
				Arguments: []any{ruleID},
			},
		},
	)
	return actions
}

// fixAllAction builds the whole-document fix: a single transform over the
// full text against every current rule, requested once per code-action
// request so independently computed per-diagnostic fixes cannot conflict.
func (s *Server) fixAllAction(uri string, version int, path, text string, rules []rule.Rule, mine []lspDiagnostic) codeAction {
	wholeRange := lspRange{
		Start: position{Line: 0, Character: 0},
		End:   position{Line: lastLine(text), Character: math.MaxInt32},
	}
	edits := []textEdit{}
	if fixed, ok := s.fixWithRules(path, text, rules); ok {
		edits = []textEdit{{Range: wholeRange, NewText: fixed}}
	}
	return codeAction{
		Title:       "Fix all devreplay problems",
		Kind:        "source.fixAll",
		Diagnostics: mine,
		Edit:        editFor(uri, version, edits),
	}
}

func editFor(uri string, version int, edits []textEdit) *workspaceEdit {
	if len(edits) == 0 {
		// No computable replacement: a deliberate no-op edit, not an
		// omitted action.
		return &workspaceEdit{DocumentChanges: []textDocumentEdit{}}
	}
	v := version
	return &workspaceEdit{
		DocumentChanges: []textDocumentEdit{{
			TextDocument: optionalVersionedTextDocumentIdentifier{URI: uri, Version: &v},
			Edits:        edits,
		}},
	}
}

// resolveRule recovers the rule that produced a diagnostic from a fresh
// lint pass. The diagnostic's code is matched against rule identifiers
// first; a purely numeric code falls back to indexing the result list,
// which only holds up while the result order is unchanged.
func resolveRule(code string, results []engine.Result) (rule.Rule, bool) {
	if code == "" {
		return rule.Rule{}, false
	}
	for _, res := range results {
		if res.Rule.RuleID == code {
			return res.Rule, true
		}
	}
	if idx, err := strconv.Atoi(code); err == nil && idx >= 0 && idx < len(results) {
		return results[idx].Rule, true
	}
	return rule.Rule{}, false
}

// isIndexCode reports whether a code is a bare list-index fallback rather
// than a rule identifier.
func isIndexCode(code string, results []engine.Result) bool {
	for _, res := range results {
		if res.Rule.RuleID == code {
			return false
		}
	}
	_, err := strconv.Atoi(code)
	return err == nil
}
