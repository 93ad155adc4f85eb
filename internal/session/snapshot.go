package session

import "github.com/verte-zerg/qwerty/internal/model"

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Phase   Phase
	Word    model.WordEntry
	HasWord bool
	Typed   int

	WordVisible      bool
	PlaceholderFill  bool
	ReadOnly         bool
	TranslationShown bool
	Placeholder      string

	DictID       string
	DictName     string
	Chapter      int
	ChapterCount int
	WordIndex    int
	ChapterSize  int
}

// Wrong reports whether the last character was rejected.
func (s Snapshot) Wrong() bool {
	return s.Phase == WrongHold
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	word, ok := s.CurrentWord()
	return Snapshot{
		Phase:            s.phase,
		Word:             word,
		HasWord:          ok,
		Typed:            s.typed,
		WordVisible:      s.wordVisible,
		PlaceholderFill:  s.placeholderFill,
		ReadOnly:         s.readOnly,
		TranslationShown: !s.readOnly || s.revealed,
		Placeholder:      s.Settings().Placeholder,
		DictID:           s.dictID,
		DictName:         s.dictName,
		Chapter:          s.chapter,
		ChapterCount:     s.chapterCount(),
		WordIndex:        s.wordIndex,
		ChapterSize:      len(s.chapterWords()),
	}
}
