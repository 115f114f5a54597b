// Package lsp implements the devreplay language server: it keeps editor
// document state in sync, republishes pattern-lint diagnostics on every
// edit, serves quick-fix code actions, and executes the severity-override
// commands that persist back to the workspace's rule file.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"devreplay/internal/engine"
	"devreplay/internal/logging"
	"devreplay/internal/rule"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// sourceName tags every diagnostic this server publishes, and filters
// foreign diagnostics out of code-action requests.
const sourceName = "devreplay"

// Commands exposed to the editor. Fix and fixAll are resolved directly to
// edits at code-action time; only the severity commands are executed
// server-side because they mutate the rule file.
const (
	cmdDisableRule       = "devreplay.disableRule"
	cmdUpgradeSeverity   = "devreplay.upgradeSeverity"
	cmdDowngradeSeverity = "devreplay.downgradeSeverity"
)

// LintFunc matches rules against a document and returns ordered results.
type LintFunc func(path, content string, rules []rule.Rule) []engine.Result

// FixFunc computes the fixed form of one diagnostic's range content, or
// ok=false when the rule's pattern no longer applies to it.
type FixFunc func(text string, r rule.Rule) (string, bool)

// FixAllFunc computes a single whole-document transform over every
// applicable rule.
type FixAllFunc func(path, text string, rules []rule.Rule) (string, bool)

// LoadRulesFunc loads the workspace's current rule file.
type LoadRulesFunc func(workspacePath string) (*rule.File, error)

// SaveRulesFunc writes a rule file back to the workspace.
type SaveRulesFunc func(f *rule.File, workspacePath string) error

// ServerOptions configures server behavior. Zero fields use the real
// engine and rule store; tests inject fakes.
type ServerOptions struct {
	MaxDiagnostics int
	Logger         *log.Logger
	Lint           LintFunc
	FixWithRule    FixFunc
	FixWithRules   FixAllFunc
	LoadRules      LoadRulesFunc
	SaveRules      SaveRulesFunc
}

// Server handles stdio JSON-RPC for the devreplay language server.
// Message handling is strictly sequential: every document event re-lints
// and republishes synchronously before the next message is read, so a
// rapid edit burst produces one publish per event with last-write-wins
// semantics and nothing to cancel.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex
	logger *log.Logger

	docs      map[string]string
	versions  map[string]int
	published map[string]struct{}

	workspace         workspace
	shutdownRequested bool
	maxDiagnostics    int
	trace             bool

	lint         LintFunc
	fixWithRule  FixFunc
	fixWithRules FixAllFunc
	loadRules    LoadRulesFunc
	saveRules    SaveRulesFunc
}

// NewServer constructs a language server reading from in and writing to
// out (normally stdin/stdout).
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	lint := opts.Lint
	if lint == nil {
		lint = engine.Lint
	}
	fixOne := opts.FixWithRule
	if fixOne == nil {
		fixOne = engine.FixWithRule
	}
	fixAll := opts.FixWithRules
	if fixAll == nil {
		fixAll = func(path, text string, rules []rule.Rule) (string, bool) {
			return engine.FixWithRules(text, engine.Applicable(path, text, rules))
		}
	}
	load := opts.LoadRules
	if load == nil {
		load = rule.Load
	}
	save := opts.SaveRules
	if save == nil {
		save = func(f *rule.File, workspacePath string) error {
			return f.Save(workspacePath)
		}
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		logger:         logger,
		docs:           make(map[string]string),
		versions:       make(map[string]int),
		published:      make(map[string]struct{}),
		maxDiagnostics: maxDiagnostics,
		lint:           lint,
		fixWithRule:    fixOne,
		fixWithRules:   fixAll,
		loadRules:      load,
		saveRules:      save,
	}
}

// Run serves LSP requests until shutdown, EOF or context cancellation.
// Cancellation is observed between messages; the current message always
// finishes first.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("failed to parse message", "err", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "workspace/executeCommand":
		return s.handleExecuteCommand(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspace = workspace{root: root}
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			CodeActionProvider: &codeActionOptions{
				CodeActionKinds: []string{"quickfix", "source.fixAll"},
			},
			ExecuteCommandProvider: &executeCommandOptions{
				Commands: []string{cmdDisableRule, cmdUpgradeSeverity, cmdDowngradeSeverity},
			},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = params.TextDocument.Text
	s.versions[uri] = params.TextDocument.Version
	s.mu.Unlock()
	s.publishFor(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	text := s.docs[uri]
	text = applyChanges(text, params.ContentChanges)
	s.docs[uri] = text
	s.versions[uri] = params.TextDocument.Version
	trace := s.trace
	s.mu.Unlock()
	if trace {
		s.logger.Debug("didChange", "uri", uri, "version", params.TextDocument.Version)
	}
	s.publishFor(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	if params.Text != nil {
		s.docs[uri] = *params.Text
	}
	s.mu.Unlock()
	s.publishFor(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.docs, uri)
	delete(s.versions, uri)
	delete(s.published, uri)
	s.mu.Unlock()
	// Editors do not clear diagnostics on close by themselves; publish an
	// explicit empty list.
	if err := s.sendPublish(uri, nil, nil); err != nil {
		s.logger.Warn("failed to clear diagnostics", "err", err)
	}
	return nil
}

// republishOpenDocs re-lints and republishes every open document, in URI
// order. Used after a rule-file mutation so the editor reflects the new
// severities without waiting for the next edit.
func (s *Server) republishOpenDocs() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		s.publishFor(uri)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logger.Warn("failed to clear diagnostics", "err", err)
		}
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

// excludedPath reports whether a document must never be linted: the rule
// file itself, and anything under version-control metadata.
func excludedPath(path string) bool {
	if path == "" {
		return true
	}
	if filepath.Base(path) == rule.FileName {
		return true
	}
	normalized := filepath.ToSlash(path)
	if strings.HasSuffix(normalized, "/.git") || strings.Contains(normalized, "/.git/") {
		return true
	}
	return false
}

func maxZero(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
