package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable(column{title: "Char"}, column{title: "Accuracy", right: true}, column{title: "Correct", right: true})
	tbl.add("a", "97.50%", "12")
	tbl.add("<space>", "8.00%", "3")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableWideChars(t *testing.T) {
	tbl := newTextTable(column{title: "Word"}, column{title: "Meaning"})
	tbl.add("苹果", "apple")
	tbl.add("a", "一")
	lines := tbl.lines()
	if lines[1] != "苹果 apple" || lines[2] != "a    一" {
		t.Fatalf("unexpected wide-char rows: %q %q", lines[1], lines[2])
	}
}

func TestTextTableShortRows(t *testing.T) {
	tbl := newTextTable(column{title: "A"}, column{title: "B", right: true})
	tbl.add("xyz")
	var buf bytes.Buffer
	if err := tbl.write(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.String() != "A   B\nxyz\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
