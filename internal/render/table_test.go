package render

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"WER", "12.34%"},
		{"Substitutions", "7"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Metric         Value" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "WER           12.34%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Substitutions      7" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestDisplayWidthCountsColumns(t *testing.T) {
	if displayWidth("abc") != 3 {
		t.Fatalf("unexpected width for ascii")
	}
	// Arabic letters are narrow; the word occupies one column per letter.
	if displayWidth("مرحبا") != 5 {
		t.Fatalf("unexpected width for Arabic: %d", displayWidth("مرحبا"))
	}
}
