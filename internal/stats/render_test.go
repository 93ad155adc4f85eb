package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/qwerty/internal/model"
)

func TestRenderSummaryByDictionary(t *testing.T) {
	runs := []model.SessionAggregate{
		{SessionID: 1, DictID: "cet4", WordsCompleted: 10, Correct: 50, DurationMs: 60000},
		{SessionID: 2, DictID: "code", WordsCompleted: 5, Correct: 100, DurationMs: 60000},
		{SessionID: 3, DictID: "cet4", WordsCompleted: 2, Correct: 9, Incorrect: 1, DurationMs: 60000},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, runs); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Runs: 3", "Words: 17", "Time: 3m0s", "Words/min", "Best WPM"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	var cet4, code string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "cet4"):
			cet4 = line
		case strings.HasPrefix(line, "code"):
			code = line
		}
	}
	if fields := strings.Fields(cet4); len(fields) != 7 || fields[1] != "2" || fields[2] != "12" || fields[3] != "6.0" || fields[5] != "10.0" || fields[6] != "98.3%" {
		t.Fatalf("unexpected cet4 row %q", cet4)
	}
	if fields := strings.Fields(code); len(fields) != 7 || fields[4] != "20.0" || fields[6] != "100.0%" {
		t.Fatalf("unexpected code row %q", code)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No practice runs found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderCurve(t *testing.T) {
	runs := []model.SessionAggregate{
		{WordsCompleted: 10, Correct: 50, DurationMs: 60000},
		{WordsCompleted: 5, Correct: 100, DurationMs: 60000},
	}
	var buf bytes.Buffer
	if err := RenderCurve(&buf, runs, 1); err != nil {
		t.Fatalf("RenderCurve failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"WPM", "20.0", "_#", "Words/min", "5.0", "#_", "Accuracy", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderChapters(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	var buf bytes.Buffer
	err := RenderChapters(&buf, []model.ChapterAggregate{
		{DictID: "cet4", ChapterLength: 20, Chapter: 0, Runs: 2, WordsCompleted: 30, Correct: 190, Incorrect: 10, DurationMs: 120000, LastPracticed: last},
	})
	if err != nil {
		t.Fatalf("RenderChapters failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Chapters" {
		t.Fatalf("unexpected heading %q", lines[0])
	}
	fields := strings.Fields(lines[2])
	want := []string{"cet4", "1", "20", "2", "30", "15.0", "95.0%", "2026-03-01"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected chapter row %q", lines[2])
	}

	buf.Reset()
	if err := RenderChapters(&buf, nil); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output without chapters, got %q %v", buf.String(), err)
	}
}

func TestRenderWeakChars(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWeakChars(&buf, []model.CharAggregate{
		{Char: " ", Correct: 1, Incorrect: 3},
		{Char: "e", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 10},
	}, 5)
	if err != nil {
		t.Fatalf("RenderWeakChars failed: %v", err)
	}
	if got := buf.String(); got != "Weak characters: <space> (25.0%) e (75.0%)\n\n" {
		t.Fatalf("unexpected weak line %q", got)
	}
}

func TestRenderCharTableOrdersByAccuracy(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCharTable(&buf, []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1, LatencySumMs: 900, LatencyCount: 9},
		{Char: "b", Correct: 1, Incorrect: 1},
	})
	if err != nil {
		t.Fatalf("RenderCharTable failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "b") || !strings.HasPrefix(lines[3], "a") {
		t.Fatalf("expected least accurate first:\n%s", buf.String())
	}
	if !strings.Contains(lines[3], "100.0") || !strings.Contains(lines[3], "90.00%") {
		t.Fatalf("unexpected row %q", lines[3])
	}
}
