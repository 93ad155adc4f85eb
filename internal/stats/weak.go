package stats

import (
	"sort"

	"github.com/verte-zerg/qwerty/internal/model"
)

// MinWeakAttempts is how often a character must have been typed before its
// accuracy is trusted.
const MinWeakAttempts = 3

// CharAccuracy is the share of correct attempts, 1 when never typed.
func CharAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1
	}
	return float64(agg.Correct) / float64(total)
}

// WeakChars returns up to n missed characters with the lowest accuracy,
// worst first. Characters typed fewer than minAttempts times are skipped.
// n <= 0 returns all of them.
func WeakChars(aggs []model.CharAggregate, n, minAttempts int) []model.CharAggregate {
	weak := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect == 0 || agg.Correct+agg.Incorrect < minAttempts {
			continue
		}
		weak = append(weak, agg)
	}
	sort.SliceStable(weak, func(i, j int) bool {
		ai, aj := CharAccuracy(weak[i]), CharAccuracy(weak[j])
		if ai != aj {
			return ai < aj
		}
		if weak[i].Incorrect != weak[j].Incorrect {
			return weak[i].Incorrect > weak[j].Incorrect
		}
		return weak[i].Char < weak[j].Char
	})
	if n > 0 && len(weak) > n {
		weak = weak[:n]
	}
	return weak
}

// CharLabel names a character for tables.
func CharLabel(ch string) string {
	if ch == " " {
		return "<space>"
	}
	return ch
}
