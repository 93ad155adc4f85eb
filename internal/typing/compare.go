// Package typing compares typed characters against a target word.
package typing

// Result is the outcome of comparing one typed character.
type Result int

// Comparison results.
const (
	Continue Result = iota
	Wrong
	Complete
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Complete:
		return "complete"
	default:
		return "wrong"
	}
}

// Compare checks input against expected[confirmed]. Complete means the input
// finished the word.
func Compare(expected []rune, confirmed int, input rune) Result {
	if confirmed < 0 || confirmed >= len(expected) {
		return Wrong
	}
	if input != expected[confirmed] {
		return Wrong
	}
	if confirmed == len(expected)-1 {
		return Complete
	}
	return Continue
}
