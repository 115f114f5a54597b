package lsp

import "testing"

func TestApplyChangesFullReplace(t *testing.T) {
	got := applyChanges("old text", []textDocumentContentChangeEvent{{Text: "new text"}})
	if got != "new text" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyChangesIncremental(t *testing.T) {
	text := "hello world\nsecond line\n"
	changes := []textDocumentContentChangeEvent{{
		Range: &lspRange{Start: position{0, 6}, End: position{0, 11}},
		Text:  "there",
	}}
	got := applyChanges(text, changes)
	if got != "hello there\nsecond line\n" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyChangesSequential(t *testing.T) {
	text := "abc"
	changes := []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{0, 1}, End: position{0, 2}}, Text: "X"},
		{Range: &lspRange{Start: position{0, 2}, End: position{0, 3}}, Text: "Y"},
	}
	got := applyChanges(text, changes)
	if got != "aXY" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyChangesInsertion(t *testing.T) {
	text := "ab"
	changes := []textDocumentContentChangeEvent{{
		Range: &lspRange{Start: position{0, 1}, End: position{0, 1}},
		Text:  "-",
	}}
	if got := applyChanges(text, changes); got != "a-b" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyChangesOutOfBoundsClamped(t *testing.T) {
	text := "short"
	changes := []textDocumentContentChangeEvent{{
		Range: &lspRange{Start: position{5, 0}, End: position{9, 9}},
		Text:  "!",
	}}
	if got := applyChanges(text, changes); got != "short!" {
		t.Fatalf("got %q", got)
	}
}

func TestOffsetForPositionUTF16(t *testing.T) {
	// The emoji occupies two UTF-16 units but four bytes.
	text := "a\U0001F600b"
	tests := []struct {
		pos  position
		want int
	}{
		{position{0, 0}, 0},
		{position{0, 1}, 1},
		{position{0, 3}, 5},
		{position{0, 4}, 6},
	}
	for _, tt := range tests {
		if got := offsetForPosition(text, tt.pos); got != tt.want {
			t.Errorf("offsetForPosition(%+v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestSliceRange(t *testing.T) {
	text := "foo bar\nbaz\n"
	got := sliceRange(text, lspRange{Start: position{0, 4}, End: position{0, 7}})
	if got != "bar" {
		t.Fatalf("got %q", got)
	}
	got = sliceRange(text, lspRange{Start: position{1, 0}, End: position{1, 3}})
	if got != "baz" {
		t.Fatalf("got %q", got)
	}
}

func TestSliceRangeInverted(t *testing.T) {
	got := sliceRange("abc", lspRange{Start: position{0, 2}, End: position{0, 1}})
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one line", 0},
		{"a\nb", 1},
		{"a\nb\n", 2},
	}
	for _, tt := range tests {
		if got := lastLine(tt.text); got != tt.want {
			t.Errorf("lastLine(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
