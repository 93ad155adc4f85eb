package session

import "errors"

var (
	// ErrNotStarted is reported for input events while the session is idle.
	ErrNotStarted = errors.New("session not started")
	// ErrInvalidTransition is reported for events the current state does not handle.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrOutOfRange is reported for a selection outside the catalog.
	ErrOutOfRange = errors.New("selection out of range")
	// ErrConfigRejected is reported for settings outside their domain.
	ErrConfigRejected = errors.New("configuration rejected")
)
