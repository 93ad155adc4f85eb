package session

import (
	"time"

	"github.com/verte-zerg/qwerty/internal/model"
)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// tally accumulates typing stats for the practice log.
type tally struct {
	started        bool
	startedAt      time.Time
	prevCorrectAt  time.Time
	correct        int
	incorrect      int
	wordsCompleted int
	chars          map[rune]*charStat
}

func (t *tally) reset() {
	*t = tally{chars: map[rune]*charStat{}}
}

func (t *tally) record(now time.Time, expected rune, ok bool) {
	if !t.started {
		t.started = true
		t.startedAt = now
	}
	entry := t.entry(expected)
	if !ok {
		t.incorrect++
		entry.incorrect++
		return
	}
	t.correct++
	entry.correct++
	if !t.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(t.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	t.prevCorrectAt = now
}

func (t *tally) entry(expected rune) *charStat {
	if t.chars == nil {
		t.chars = map[rune]*charStat{}
	}
	entry, ok := t.chars[expected]
	if !ok {
		entry = &charStat{}
		t.chars[expected] = entry
	}
	return entry
}

// Tally returns the stats gathered since the last Start. Stats are empty
// when no character was typed; read-only advancement only counts words.
func (s *Session) Tally() (model.PracticeStats, []model.CharStats) {
	t := &s.tally
	endedAt := s.now()
	startedAt := t.startedAt
	if !t.started {
		startedAt = endedAt
	}
	stats := model.PracticeStats{
		StartedAt:      startedAt,
		EndedAt:        endedAt,
		DictID:         s.dictID,
		Chapter:        s.chapter,
		ChapterLength:  s.Settings().ChapterLength,
		ReadOnly:       s.readOnly,
		WordsCompleted: t.wordsCompleted,
		Correct:        t.correct,
		Incorrect:      t.incorrect,
		DurationMs:     endedAt.Sub(startedAt).Milliseconds(),
	}
	chars := make([]model.CharStats, 0, len(t.chars))
	for ch, entry := range t.chars {
		chars = append(chars, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	return stats, chars
}
