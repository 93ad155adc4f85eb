// Package model defines shared data structures.
package model

import "time"

// DictionaryDescriptor describes one vocabulary source in the catalog.
type DictionaryDescriptor struct {
	ID          string
	Name        string
	Source      string
	Description string
	Lang        string
}

// WordEntry is a single headword with its translation.
type WordEntry struct {
	Headword    string
	Translation string
	USPhone     string
	UKPhone     string
}

// Settings is an immutable configuration snapshot. Replace it as a whole.
type Settings struct {
	Placeholder   string
	ChapterLength int
	WrongDelay    time.Duration
}

// Cue names an audio cue emitted by the session.
type Cue string

// Audio cues.
const (
	CueClick   Cue = "click"
	CueSuccess Cue = "success"
	CueWrong   Cue = "wrong"
)

// PracticeStats captures one practice run between start and stop.
type PracticeStats struct {
	StartedAt      time.Time
	EndedAt        time.Time
	DictID         string
	Chapter        int
	ChapterLength  int
	ReadOnly       bool
	WordsCompleted int
	Correct        int
	Incorrect      int
	DurationMs     int64
}

// CharStats stores per-character stats for a practice run.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across practice runs.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a practice run for reporting.
type SessionAggregate struct {
	SessionID      int64
	EndedAt        time.Time
	DictID         string
	Chapter        int
	ChapterLength  int
	ReadOnly       bool
	WordsCompleted int
	Correct        int
	Incorrect      int
	DurationMs     int64
}

// ChapterAggregate sums the practice runs spent in one chapter. Chapters
// are only comparable under the same chapter length.
type ChapterAggregate struct {
	DictID         string
	ChapterLength  int
	Chapter        int
	Runs           int
	WordsCompleted int
	Correct        int
	Incorrect      int
	DurationMs     int64
	LastPracticed  time.Time
}

// HistoryFilter selects practice runs for the history report.
type HistoryFilter struct {
	DictID      string
	Since       *time.Time
	Last        int
	CurveWindow int
}
