// Package session implements the typing session state machine: word,
// chapter and dictionary progression, per-character validation, the
// wrong-input cooldown and the read-only advancement path.
//
// A Session is not safe for concurrent use. The host delivers every event
// from a single loop and schedules cooldowns itself, handing the token
// back through ExpireCooldown.
package session

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/verte-zerg/qwerty/internal/chapter"
	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/typing"
)

// Phase is the controller state.
type Phase int

// Controller states.
const (
	Idle Phase = iota
	AwaitingInput
	WrongHold
)

func (p Phase) String() string {
	switch p {
	case AwaitingInput:
		return "awaiting-input"
	case WrongHold:
		return "wrong-hold"
	default:
		return "idle"
	}
}

// WordSource resolves dictionary ids to word lists.
type WordSource interface {
	Lookup(id string) (model.DictionaryDescriptor, bool)
	Resolve(id string) ([]model.WordEntry, error)
}

// CueSink receives audio cues.
type CueSink interface {
	Cue(model.Cue)
}

// Cooldown asks the host to call ExpireCooldown(Token) after Delay.
type Cooldown struct {
	Token uint64
	Delay time.Duration
}

// Outcome reports what an input event did. Ignored events carry the reason
// in Err; hosts are expected to drop them silently.
type Outcome struct {
	Result   typing.Result
	Handled  bool
	Advanced bool
	Cooldown *Cooldown
	Err      error
}

func ignored(err error) Outcome {
	return Outcome{Err: err}
}

// Options sets the initial cursor and toggles.
type Options struct {
	DictID          string
	Chapter         int
	HideWord        bool
	ReadOnly        bool
	PlaceholderFill bool
	Now             func() time.Time
}

// Session owns the mutable typing cursor.
type Session struct {
	source   WordSource
	cues     CueSink
	settings atomic.Pointer[model.Settings]
	now      func() time.Time

	dictID    string
	dictName  string
	words     []model.WordEntry
	chapter   int
	wordIndex int
	typed     int
	phase     Phase

	readOnly        bool
	wordVisible     bool
	placeholderFill bool
	revealed        bool

	cooldownToken uint64
	driver        readOnlyDriver
	tally         tally
}

type nopCues struct{}

func (nopCues) Cue(model.Cue) {}

// New returns an idle session. The dictionary is loaded by Start.
func New(source WordSource, cues CueSink, settings model.Settings, opts Options) (*Session, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	desc, ok := source.Lookup(opts.DictID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown dictionary %q", ErrOutOfRange, opts.DictID)
	}
	if cues == nil {
		cues = nopCues{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		source:          source,
		cues:            cues,
		now:             now,
		dictID:          desc.ID,
		dictName:        desc.Name,
		chapter:         opts.Chapter,
		readOnly:        opts.ReadOnly,
		wordVisible:     !opts.HideWord,
		placeholderFill: opts.PlaceholderFill,
	}
	if s.chapter < 0 {
		s.chapter = 0
	}
	s.settings.Store(&settings)
	s.tally.reset()
	return s, nil
}

// ValidateSettings checks every field against its domain.
func ValidateSettings(settings model.Settings) error {
	if settings.ChapterLength <= 0 {
		return fmt.Errorf("%w: chapter length must be > 0", ErrConfigRejected)
	}
	if settings.WrongDelay <= 0 {
		return fmt.Errorf("%w: wrong delay must be > 0", ErrConfigRejected)
	}
	if settings.Placeholder == "" {
		return fmt.Errorf("%w: placeholder must not be empty", ErrConfigRejected)
	}
	return nil
}

// Settings returns the current configuration snapshot.
func (s *Session) Settings() model.Settings {
	return *s.settings.Load()
}

// Phase returns the controller state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Started reports whether the session left Idle.
func (s *Session) Started() bool {
	return s.phase != Idle
}

// ReadOnly reports whether read-only advancement is active.
func (s *Session) ReadOnly() bool {
	return s.readOnly
}

// Start moves Idle to AwaitingInput at word 0 of the last-used chapter.
// A dictionary that fails to load leaves the session untouched.
func (s *Session) Start() error {
	if s.phase != Idle {
		return nil
	}
	words, err := s.source.Resolve(s.dictID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	s.words = words
	s.chapter = chapter.Clamp(s.chapter, s.chapterCount())
	s.phase = AwaitingInput
	s.resetCursor()
	s.tally.reset()
	if s.readOnly {
		s.driver.arm()
	}
	return nil
}

// Stop returns to Idle, cancelling any pending cooldown and disarming the
// read-only driver. The chapter is kept for the next Start.
func (s *Session) Stop() {
	if s.phase == Idle {
		return
	}
	s.cancelCooldown()
	s.driver.disarm()
	s.phase = Idle
	s.typed = 0
	s.revealed = false
}

// ReceiveCharacter validates one typed character. It is only handled in
// AwaitingInput outside read-only mode; characters arriving during the
// cooldown are discarded.
func (s *Session) ReceiveCharacter(r rune) Outcome {
	switch {
	case s.phase == Idle:
		return ignored(ErrNotStarted)
	case s.readOnly, s.phase == WrongHold:
		return ignored(ErrInvalidTransition)
	}
	word, ok := s.currentWord()
	if !ok {
		return ignored(ErrInvalidTransition)
	}
	expected := []rune(word.Headword)
	result := typing.Compare(expected, s.typed, r)
	if s.typed < len(expected) {
		s.tally.record(s.now(), expected[s.typed], result != typing.Wrong)
	}
	out := Outcome{Result: result, Handled: true}
	switch result {
	case typing.Continue:
		s.typed++
		s.cues.Cue(model.CueClick)
	case typing.Complete:
		s.cues.Cue(model.CueSuccess)
		s.finishWord()
		out.Advanced = true
	case typing.Wrong:
		s.phase = WrongHold
		s.cooldownToken++
		s.cues.Cue(model.CueWrong)
		out.Cooldown = &Cooldown{Token: s.cooldownToken, Delay: s.Settings().WrongDelay}
	}
	return out
}

// ExpireCooldown ends WrongHold when token is the pending cooldown. Tokens
// from cancelled cooldowns are ignored. The cursor does not move.
func (s *Session) ExpireCooldown(token uint64) bool {
	if s.phase != WrongHold || token != s.cooldownToken {
		return false
	}
	s.phase = AwaitingInput
	return true
}

// ChangeDictionary selects another dictionary and rewinds to chapter 0.
// Unknown ids keep the current dictionary. Stats gathered so far belong to
// the previous dictionary, so the tally restarts; hosts that keep a practice
// log read Tally before switching.
func (s *Session) ChangeDictionary(id string) error {
	desc, ok := s.source.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: unknown dictionary %q", ErrOutOfRange, id)
	}
	var words []model.WordEntry
	if s.phase != Idle {
		loaded, err := s.source.Resolve(id)
		if err != nil {
			return fmt.Errorf("failed to change dictionary: %w", err)
		}
		words = loaded
	}
	s.dictID = desc.ID
	s.dictName = desc.Name
	s.words = words
	s.chapter = 0
	s.resetCursor()
	s.tally.reset()
	return nil
}

// ChangeChapter moves to chapter n, clamped into range, and returns the
// chapter actually selected.
func (s *Session) ChangeChapter(n int) int {
	if s.words == nil {
		if words, err := s.source.Resolve(s.dictID); err == nil {
			s.words = words
		}
	}
	s.chapter = chapter.Clamp(n, s.chapterCount())
	s.resetCursor()
	return s.chapter
}

// ToggleWordVisibility flips between showing the headword and the placeholder.
func (s *Session) ToggleWordVisibility() {
	s.wordVisible = !s.wordVisible
}

// TogglePlaceholder flips padding of the untyped remainder in the input fragment.
func (s *Session) TogglePlaceholder() {
	s.placeholderFill = !s.placeholderFill
}

// ToggleReadOnlyMode switches between typed validation and trigger-driven
// advancement. The current word restarts so the two paths never share a
// half-typed cursor.
func (s *Session) ToggleReadOnlyMode() {
	s.readOnly = !s.readOnly
	s.cancelCooldown()
	s.typed = 0
	s.revealed = false
	if s.phase == WrongHold {
		s.phase = AwaitingInput
	}
	if s.readOnly && s.phase != Idle {
		s.driver.arm()
	} else {
		s.driver.disarm()
	}
}

// ApplySettings swaps in a new snapshot. Rejected settings keep the
// previous snapshot. A chapter length change re-partitions the dictionary.
func (s *Session) ApplySettings(next model.Settings) error {
	if err := ValidateSettings(next); err != nil {
		return err
	}
	prev := s.settings.Swap(&next)
	if prev.ChapterLength != next.ChapterLength {
		// Before the dictionary is loaded there is nothing to clamp against;
		// Start clamps the kept chapter.
		if s.words != nil {
			s.chapter = chapter.Clamp(s.chapter, s.chapterCount())
		}
		s.resetCursor()
	}
	return nil
}

// CurrentWord returns the word under the cursor.
func (s *Session) CurrentWord() (model.WordEntry, bool) {
	if s.phase == Idle {
		return model.WordEntry{}, false
	}
	return s.currentWord()
}

// ChapterCount returns the number of chapters of the active dictionary, or
// 0 before it is loaded.
func (s *Session) ChapterCount() int {
	return s.chapterCount()
}

// DictID returns the active dictionary id.
func (s *Session) DictID() string {
	return s.dictID
}

// Chapter returns the active chapter index.
func (s *Session) Chapter() int {
	return s.chapter
}

func (s *Session) currentWord() (model.WordEntry, bool) {
	words := s.chapterWords()
	if s.wordIndex < 0 || s.wordIndex >= len(words) {
		return model.WordEntry{}, false
	}
	return words[s.wordIndex], true
}

func (s *Session) chapterWords() []model.WordEntry {
	return chapter.Words(s.words, s.Settings().ChapterLength, s.chapter)
}

func (s *Session) chapterCount() int {
	return chapter.Count(len(s.words), s.Settings().ChapterLength)
}

// finishWord advances the cursor. Past the last word of the last chapter
// it wraps to chapter 0 without any end-of-course signal.
func (s *Session) finishWord() {
	s.tally.wordsCompleted++
	s.wordIndex++
	if s.wordIndex >= len(s.chapterWords()) {
		s.wordIndex = 0
		s.chapter++
		if s.chapter >= s.chapterCount() {
			s.chapter = 0
		}
	}
	s.typed = 0
	s.revealed = false
	s.cancelCooldown()
	if s.phase == WrongHold {
		s.phase = AwaitingInput
	}
}

func (s *Session) resetCursor() {
	s.wordIndex = 0
	s.typed = 0
	s.revealed = false
	s.cancelCooldown()
	if s.phase == WrongHold {
		s.phase = AwaitingInput
	}
}

func (s *Session) cancelCooldown() {
	s.cooldownToken++
}
