package dashboard

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("Row 12: Invalid date \"soon\"", 12)
	want := "Row 12:\nInvalid\ndate \"soon\""
	if got != want {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	if got := wrapText("abcdefgh", 3); got != "abc\ndef\ngh" {
		t.Fatalf("wrapText = %q", got)
	}
}

func TestWrapTextKeepsShortAndNewlines(t *testing.T) {
	if got := wrapText("a b\nc", 10); got != "a b\nc" {
		t.Fatalf("wrapText = %q", got)
	}
	if got := wrapText("anything", 0); got != "anything" {
		t.Fatalf("expected passthrough for zero width, got %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	if got := wrapText("日本語", 4); got != "日本\n語" {
		t.Fatalf("wrapText = %q", got)
	}
}
