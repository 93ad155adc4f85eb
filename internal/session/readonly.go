package session

// Trigger is an external read-only advancement signal.
type Trigger int

// Read-only triggers.
const (
	TriggerLine Trigger = iota
	TriggerSpace
)

// readOnlyDriver gates trigger handling. It is armed only while the session
// is started in read-only mode, which keeps it exclusive with
// ReceiveCharacter.
type readOnlyDriver struct {
	armed bool
}

func (d *readOnlyDriver) arm() {
	d.armed = true
}

func (d *readOnlyDriver) disarm() {
	d.armed = false
}

// HandleTrigger advances on a line trigger like a completed word, minus the
// success cue, and reveals the translation on a space trigger.
func (s *Session) HandleTrigger(t Trigger) Outcome {
	if s.phase == Idle {
		return ignored(ErrNotStarted)
	}
	if !s.driver.armed || !s.readOnly {
		return ignored(ErrInvalidTransition)
	}
	switch t {
	case TriggerLine:
		s.finishWord()
		return Outcome{Handled: true, Advanced: true}
	case TriggerSpace:
		s.revealed = true
		return Outcome{Handled: true}
	default:
		return ignored(ErrInvalidTransition)
	}
}
