package stats

import (
	"math"
	"testing"

	"github.com/verte-zerg/qwerty/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeasure(t *testing.T) {
	m := Measure(50, 10, 6, 60000)
	if !approx(m.WPM, 10) || !approx(m.CPM, 50) || !approx(m.WordsPerMin, 6) {
		t.Fatalf("unexpected rates %+v", m)
	}
	if !approx(m.Accuracy, 50.0/60.0) {
		t.Fatalf("unexpected accuracy %f", m.Accuracy)
	}
	zero := Measure(10, 0, 2, 0)
	if zero.WPM != 0 || zero.WordsPerMin != 0 {
		t.Fatalf("expected zero rates for zero duration, got %+v", zero)
	}
	if zero.Accuracy != 1 {
		t.Fatalf("accuracy does not depend on duration, got %f", zero.Accuracy)
	}
}

func TestTotalsWeighsByDuration(t *testing.T) {
	runs := []model.SessionAggregate{
		{Correct: 100, WordsCompleted: 20, DurationMs: 60000},
		{Correct: 10, WordsCompleted: 1, DurationMs: 60000 * 9},
	}
	m := Totals(runs)
	if !approx(m.CPM, 11) || !approx(m.WordsPerMin, 2.1) {
		t.Fatalf("expected pooled rates, got %+v", m)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Fatalf("index %d: got %f, want %f", i, got[i], want[i])
		}
	}
	same := MovingAverage([]float64{1, 5}, 0)
	if same[0] != 1 || same[1] != 5 {
		t.Fatalf("expected window < 1 to copy values, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "===" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != "_#" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}
