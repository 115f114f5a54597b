package lsp

// workspace is the single active workspace folder. The server supports at
// most one folder; it is set once during initialize and never changes.
// The zero value is the explicit "uninitialized" state: every operation
// that needs the rule-file path checks ok() and degrades to a no-op when
// no folder was supplied.
type workspace struct {
	root string
}

func (w workspace) ok() bool {
	return w.root != ""
}
