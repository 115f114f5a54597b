package lsp

import (
	"encoding/json"
	"errors"

	"devreplay/internal/rule"
)

// overrideForCommand maps a server-executed command onto the severity
// override it applies.
func overrideForCommand(name string) (rule.Override, bool) {
	switch name {
	case cmdDisableRule:
		return rule.OverrideOff, true
	case cmdUpgradeSeverity:
		return rule.OverrideUpgrade, true
	case cmdDowngradeSeverity:
		return rule.OverrideDowngrade, true
	default:
		return "", false
	}
}

// handleExecuteCommand runs one of the severity commands. Unrecognized
// commands, missing arguments and a missing workspace all return a null
// result without touching the rule file; the editor never sees an error
// for them. A successful mutation republishes every open document so the
// new severity shows up without waiting for the next edit.
func (s *Server) handleExecuteCommand(msg *rpcMessage) error {
	var params executeCommandParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendResponse(msg.ID, nil)
		}
	}
	override, known := overrideForCommand(params.Command)
	if !known || len(params.Arguments) == 0 {
		return s.sendResponse(msg.ID, nil)
	}
	var ruleID string
	if err := json.Unmarshal(params.Arguments[0], &ruleID); err != nil || ruleID == "" {
		return s.sendResponse(msg.ID, nil)
	}

	s.mu.Lock()
	ws := s.workspace
	s.mu.Unlock()
	if !ws.ok() {
		return s.sendResponse(msg.ID, nil)
	}

	if err := s.applyOverride(ws.root, ruleID, override); err != nil {
		s.logger.Warn("failed to persist severity override", "rule", ruleID, "err", err)
		return s.sendResponse(msg.ID, nil)
	}
	if err := s.sendResponse(msg.ID, nil); err != nil {
		return err
	}
	s.republishOpenDocs()
	return nil
}

// applyOverride is the read-modify-write transaction against the rule
// file. The first save is guarded by the loaded content's fingerprint; if
// an external editor raced us, the file is reloaded and the override
// re-applied once more on the fresh state. The retry saves with the fresh
// fingerprint, so two racing writers serialize instead of silently
// clobbering each other.
func (s *Server) applyOverride(workspacePath, ruleID string, override rule.Override) error {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := s.loadRules(workspacePath)
		if err != nil {
			return err
		}
		if rule.UpdateSeverity(f.Rules, ruleID, override) == 0 {
			// Nothing matched; not an error, and nothing to write.
			return nil
		}
		err = s.saveRules(f, workspacePath)
		if err == nil {
			return nil
		}
		if !errors.Is(err, rule.ErrConcurrentEdit) {
			return err
		}
	}
	return rule.ErrConcurrentEdit
}
