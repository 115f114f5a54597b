package lsp

import (
	"strconv"

	"devreplay/internal/engine"
	"devreplay/internal/rule"
)

// LSP diagnostic severities.
const (
	diagError   = 1
	diagWarning = 2
	diagInfo    = 3
	diagHint    = 4
)

// LSP diagnostic tags.
const (
	tagUnnecessary = 1
	tagDeprecated  = 2
)

// diagnosticSeverity maps a rule severity onto the editor's scale. "off"
// never reaches this function on the publish path because the engine
// filters off-severity rules before matching; anything unrecognized maps
// to warning so an unknown severity weakens a diagnostic instead of
// dropping it.
func diagnosticSeverity(sev rule.Severity) int {
	switch sev {
	case rule.SeverityError:
		return diagError
	case rule.SeverityWarning:
		return diagWarning
	case rule.SeverityInfo:
		return diagInfo
	case rule.SeverityHint:
		return diagHint
	default:
		return diagWarning
	}
}

// resultRange converts a lint result's 1-based positions to a 0-based
// editor range. The shift is applied independently to both ends; a
// malformed upstream position is clamped at zero rather than propagated
// as a negative coordinate.
func resultRange(res engine.Result) lspRange {
	return lspRange{
		Start: position{Line: maxZero(res.Start.Line - 1), Character: maxZero(res.Start.Character - 1)},
		End:   position{Line: maxZero(res.End.Line - 1), Character: maxZero(res.End.Character - 1)},
	}
}

// diagnosticCode is the correlation key carried in a diagnostic's code
// field: the rule's stable identifier when it has one, falling back to
// the result's index in the lint output. The index fallback breaks if
// results are reordered between publish and a later code-action request,
// so rules should carry IDs.
func diagnosticCode(res engine.Result, index int) string {
	if res.Rule.RuleID != "" {
		return res.Rule.RuleID
	}
	return strconv.Itoa(index)
}

func toDiagnostic(res engine.Result, index int) lspDiagnostic {
	d := lspDiagnostic{
		Range:    resultRange(res),
		Severity: diagnosticSeverity(res.Rule.EffectiveSeverity()),
		Code:     diagnosticCode(res, index),
		Source:   sourceName,
		Message:  res.Rule.Description(),
	}
	if res.Rule.Unnecessary {
		d.Tags = append(d.Tags, tagUnnecessary)
	}
	if res.Rule.Deprecated {
		d.Tags = append(d.Tags, tagDeprecated)
	}
	return d
}

// publishFor re-lints one document and publishes the full diagnostic
// list for its current version, replacing whatever was published before.
// Lint failures and guard-clause exclusions both publish an empty list;
// nothing on this path surfaces an error to the editor.
func (s *Server) publishFor(uri string) {
	s.mu.Lock()
	text, open := s.docs[uri]
	version := s.versions[uri]
	ws := s.workspace
	maxDiagnostics := s.maxDiagnostics
	trace := s.trace
	s.mu.Unlock()
	if !open {
		return
	}

	diags := s.computeDiagnostics(uri, text, ws)
	if len(diags) > maxDiagnostics {
		diags = diags[:maxDiagnostics]
	}

	s.mu.Lock()
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	if err := s.sendPublish(uri, &version, diags); err != nil {
		s.logger.Warn("failed to publish diagnostics", "err", err)
		return
	}
	if trace {
		s.logger.Debug("publishDiagnostics", "uri", uri, "version", version, "count", len(diags))
	}
}

func (s *Server) computeDiagnostics(uri, text string, ws workspace) []lspDiagnostic {
	path := uriToPath(uri)
	if path == "" || excludedPath(path) {
		return nil
	}
	if !ws.ok() {
		return nil
	}
	f, err := s.loadRules(ws.root)
	if err != nil {
		s.logger.Warn("failed to load rules", "err", err)
		return nil
	}
	results := s.lint(path, text, f.Rules)
	diags := make([]lspDiagnostic, 0, len(results))
	for i, res := range results {
		diags = append(diags, toDiagnostic(res, i))
	}
	return diags
}
