// Package stats turns the practice log into history reports: speed and
// accuracy per run, vocabulary pace per dictionary and chapter, and the
// characters that keep going wrong.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/qwerty/internal/model"
)

// Metrics are the derived rates of one or more practice runs. WPM counts
// five correct characters as a word; WordsPerMin counts completed headwords.
type Metrics struct {
	WPM         float64
	CPM         float64
	Accuracy    float64
	WordsPerMin float64
}

// Measure derives rates from raw counts. A zero duration yields zero rates.
func Measure(correct, incorrect, words int, durationMs int64) Metrics {
	var m Metrics
	if attempts := correct + incorrect; attempts > 0 {
		m.Accuracy = float64(correct) / float64(attempts)
	}
	if durationMs <= 0 {
		return m
	}
	minutes := float64(durationMs) / 60000
	m.CPM = float64(correct) / minutes
	m.WPM = m.CPM / 5
	m.WordsPerMin = float64(words) / minutes
	return m
}

// RunMetrics measures a single stored run.
func RunMetrics(run model.SessionAggregate) Metrics {
	return Measure(run.Correct, run.Incorrect, run.WordsCompleted, run.DurationMs)
}

// Totals pools runs before measuring, so long runs weigh more than short ones.
func Totals(runs []model.SessionAggregate) Metrics {
	var correct, incorrect, words int
	var duration int64
	for _, run := range runs {
		correct += run.Correct
		incorrect += run.Incorrect
		words += run.WordsCompleted
		duration += run.DurationMs
	}
	return Measure(correct, incorrect, words, duration)
}

// MovingAverage smooths values over the trailing window.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

const sparkRamp = "_.,-=+*#"

// Sparkline draws values on an ASCII ramp scaled to their own range.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkRamp[len(sparkRamp)/2]), len(values))
	}
	top := float64(len(sparkRamp) - 1)
	var b strings.Builder
	for _, v := range values {
		b.WriteByte(sparkRamp[int(math.Round((v-lo)/(hi-lo)*top))])
	}
	return b.String()
}
