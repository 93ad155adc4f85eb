// Package display derives the rendered text fragments from a session snapshot.
package display

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/qwerty/internal/session"
)

// Markers used in the input fragment.
const (
	CursorMarker = "_"
	WrongMarker  = "✗"
)

// Fragments are the three slots shown to the learner.
type Fragments struct {
	Word        string
	Input       string
	Translation string
	// Wrong marks the input fragment for the wrong-input highlight.
	Wrong bool
}

// Format builds all fragments. It holds no state of its own.
func Format(s session.Snapshot) Fragments {
	if !s.HasWord {
		return Fragments{}
	}
	return Fragments{
		Word:        WordFragment(s),
		Input:       InputFragment(s),
		Translation: TranslationFragment(s),
		Wrong:       s.Wrong(),
	}
}

// WordFragment is the headword, or the placeholder repeated once per
// character when the word is hidden.
func WordFragment(s session.Snapshot) string {
	if s.WordVisible {
		return s.Word.Headword
	}
	return strings.Repeat(s.Placeholder, len([]rune(s.Word.Headword)))
}

// InputFragment is the confirmed prefix followed by the cursor marker, or
// the wrong marker during the cooldown.
func InputFragment(s session.Snapshot) string {
	runes := []rune(s.Word.Headword)
	typed := s.Typed
	if typed > len(runes) {
		typed = len(runes)
	}
	var b strings.Builder
	b.WriteString(string(runes[:typed]))
	if typed < len(runes) {
		if s.Wrong() {
			b.WriteString(WrongMarker)
		} else {
			b.WriteString(CursorMarker)
		}
		if s.PlaceholderFill {
			b.WriteString(strings.Repeat(s.Placeholder, len(runes)-typed-1))
		}
	}
	return b.String()
}

// TranslationFragment is withheld in read-only mode until revealed.
func TranslationFragment(s session.Snapshot) string {
	if !s.TranslationShown {
		return ""
	}
	return s.Word.Translation
}

// Fit truncates text to width terminal cells.
func Fit(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}
