package lsp

import (
	"path/filepath"
	"testing"
)

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub dir", "file.go")
	uri := pathToURI(path)
	if uri == "" {
		t.Fatal("empty uri")
	}
	if got := uriToPath(uri); got != path {
		t.Fatalf("round trip: got %q, want %q", got, path)
	}
}

func TestURIToPathEscaped(t *testing.T) {
	got := uriToPath("file:///tmp/with%20space/file.txt")
	want := filepath.FromSlash("/tmp/with space/file.txt")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestURIToPathForeignScheme(t *testing.T) {
	if got := uriToPath("untitled:Untitled-1"); got != "" {
		t.Fatalf("expected empty path for non-file scheme, got %q", got)
	}
}

func TestCanonicalURIStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	uri := pathToURI(path)
	once := canonicalURI(uri)
	twice := canonicalURI(once)
	if once != twice {
		t.Fatalf("canonicalURI not idempotent: %q vs %q", once, twice)
	}
	if canonicalURI("") != "" {
		t.Fatal("empty uri must stay empty")
	}
}

func TestExcludedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{filepath.FromSlash("/ws/.devreplay.json"), true},
		{filepath.FromSlash("/ws/.git"), true},
		{filepath.FromSlash("/ws/.git/config"), true},
		{filepath.FromSlash("/ws/src/main.go"), false},
		{filepath.FromSlash("/ws/gitlog.txt"), false},
	}
	for _, tt := range tests {
		if got := excludedPath(tt.path); got != tt.want {
			t.Errorf("excludedPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
