package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if len(params.Settings) == 0 {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		return nil
	}
	s.mu.Lock()
	if settings.Devreplay.MaxDiagnostics != nil && *settings.Devreplay.MaxDiagnostics > 0 {
		s.maxDiagnostics = *settings.Devreplay.MaxDiagnostics
	}
	if settings.Devreplay.Trace != nil {
		s.trace = *settings.Devreplay.Trace
	}
	s.mu.Unlock()
	return nil
}
