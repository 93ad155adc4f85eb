package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/qwerty/internal/model"
)

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func rate(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// RenderSummary prints totals and a per-dictionary breakdown of runs.
func RenderSummary(w io.Writer, runs []model.SessionAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No practice runs found.")
		return err
	}
	type dictTotals struct {
		runs []model.SessionAggregate
		best float64
	}
	byDict := map[string]*dictTotals{}
	var words int
	var duration int64
	for _, run := range runs {
		words += run.WordsCompleted
		duration += run.DurationMs
		d, ok := byDict[run.DictID]
		if !ok {
			d = &dictTotals{}
			byDict[run.DictID] = d
		}
		d.runs = append(d.runs, run)
		d.best = max(d.best, RunMetrics(run).WPM)
	}

	total := Totals(runs)
	practiced := (time.Duration(duration) * time.Millisecond).Round(time.Second)
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d  Words: %d  Time: %s", len(runs), words, practiced),
		fmt.Sprintf("Pace: %s WPM  %s words/min  Accuracy %s", rate(total.WPM), rate(total.WordsPerMin), percent(total.Accuracy)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(byDict))
	for id := range byDict {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tbl := newTextTable(
		column{title: "Dict"},
		column{title: "Runs", right: true},
		column{title: "Words", right: true},
		column{title: "Words/min", right: true},
		column{title: "WPM", right: true},
		column{title: "Best WPM", right: true},
		column{title: "Accuracy", right: true},
	)
	for _, id := range ids {
		d := byDict[id]
		m := Totals(d.runs)
		dictWords := 0
		for _, run := range d.runs {
			dictWords += run.WordsCompleted
		}
		tbl.add(id, strconv.Itoa(len(d.runs)), strconv.Itoa(dictWords), rate(m.WordsPerMin), rate(m.WPM), rate(d.best), percent(m.Accuracy))
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderCurve prints speed, pace and accuracy trends smoothed over window runs.
func RenderCurve(w io.Writer, runs []model.SessionAggregate, window int) error {
	if len(runs) == 0 {
		return nil
	}
	wpm := make([]float64, len(runs))
	pace := make([]float64, len(runs))
	acc := make([]float64, len(runs))
	for i, run := range runs {
		m := RunMetrics(run)
		wpm[i], pace[i], acc[i] = m.WPM, m.WordsPerMin, m.Accuracy*100
	}
	tbl := newTextTable(column{title: "Curve"}, column{title: "Last", right: true}, column{title: "Trend"})
	for _, series := range []struct {
		name   string
		values []float64
		suffix string
	}{
		{"WPM", wpm, ""},
		{"Words/min", pace, ""},
		{"Accuracy", acc, "%"},
	} {
		smoothed := MovingAverage(series.values, window)
		tbl.add(series.name, rate(smoothed[len(smoothed)-1])+series.suffix, Sparkline(smoothed))
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderChapters prints per-chapter progress, one row per dictionary,
// chapter length and chapter. Chapters are numbered from 1.
func RenderChapters(w io.Writer, chapters []model.ChapterAggregate) error {
	if len(chapters) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Chapters"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "Dict"},
		column{title: "Chapter", right: true},
		column{title: "Length", right: true},
		column{title: "Runs", right: true},
		column{title: "Words", right: true},
		column{title: "Words/min", right: true},
		column{title: "Accuracy", right: true},
		column{title: "Last"},
	)
	for _, ch := range chapters {
		m := Measure(ch.Correct, ch.Incorrect, ch.WordsCompleted, ch.DurationMs)
		tbl.add(
			ch.DictID,
			strconv.Itoa(ch.Chapter+1),
			strconv.Itoa(ch.ChapterLength),
			strconv.Itoa(ch.Runs),
			strconv.Itoa(ch.WordsCompleted),
			rate(m.WordsPerMin),
			percent(m.Accuracy),
			ch.LastPracticed.Local().Format("2006-01-02"),
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderWeakChars prints the n weakest characters on one line, if any.
func RenderWeakChars(w io.Writer, aggs []model.CharAggregate, n int) error {
	weak := WeakChars(aggs, n, MinWeakAttempts)
	if len(weak) == 0 {
		return nil
	}
	parts := make([]string, len(weak))
	for i, agg := range weak {
		parts[i] = fmt.Sprintf("%s (%s)", CharLabel(agg.Char), percent(CharAccuracy(agg)))
	}
	_, err := fmt.Fprintf(w, "Weak characters: %s\n\n", strings.Join(parts, " "))
	return err
}

// RenderCharTable prints per-character aggregates, least accurate first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := CharAccuracy(sorted[i]), CharAccuracy(sorted[j])
		if ai != aj {
			return ai < aj
		}
		return sorted[i].Char < sorted[j].Char
	})
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	tbl := newTextTable(
		column{title: "Char"},
		column{title: "Accuracy", right: true},
		column{title: "Avg Latency (ms)", right: true},
		column{title: "Correct", right: true},
		column{title: "Incorrect", right: true},
	)
	for _, agg := range sorted {
		latency := 0.0
		if agg.LatencyCount > 0 {
			latency = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		tbl.add(CharLabel(agg.Char), fmt.Sprintf("%.2f%%", CharAccuracy(agg)*100), rate(latency),
			strconv.Itoa(agg.Correct), strconv.Itoa(agg.Incorrect))
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
