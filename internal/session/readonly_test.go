package session

import (
	"errors"
	"testing"

	"github.com/verte-zerg/qwerty/internal/model"
)

func TestReadOnlyLineTriggerAdvancesWithoutSuccessCue(t *testing.T) {
	s, cues := newTestSession(t, numberedWords(3), Options{ReadOnly: true})

	out := s.HandleTrigger(TriggerLine)
	if !out.Handled || !out.Advanced {
		t.Fatalf("expected line trigger to advance, got %+v", out)
	}
	if len(cues.cues) != 0 {
		t.Fatalf("expected no cues, got %v", cues.cues)
	}
	snap := s.Snapshot()
	if snap.WordIndex != 1 || snap.Typed != 0 || snap.TranslationShown {
		t.Fatalf("unexpected state after line trigger: %+v", snap)
	}
}

func TestReadOnlySpaceTriggerRevealsTranslation(t *testing.T) {
	s, _ := newTestSession(t, numberedWords(3), Options{ReadOnly: true})
	if s.Snapshot().TranslationShown {
		t.Fatalf("translation must be withheld in read-only mode")
	}
	out := s.HandleTrigger(TriggerSpace)
	if !out.Handled || out.Advanced {
		t.Fatalf("unexpected space outcome %+v", out)
	}
	snap := s.Snapshot()
	if !snap.TranslationShown || snap.WordIndex != 0 {
		t.Fatalf("expected revealed translation on the same word, got %+v", snap)
	}
	s.HandleTrigger(TriggerLine)
	if s.Snapshot().TranslationShown {
		t.Fatalf("expected translation hidden again on the next word")
	}
}

func TestReadOnlyExcludesTypedInput(t *testing.T) {
	s, _ := newTestSession(t, numberedWords(3), Options{ReadOnly: true})
	if out := s.ReceiveCharacter('w'); out.Handled || !errors.Is(out.Err, ErrInvalidTransition) {
		t.Fatalf("expected typed input to be ignored, got %+v", out)
	}

	s.ToggleReadOnlyMode()
	if out := s.HandleTrigger(TriggerLine); out.Handled {
		t.Fatalf("expected trigger to be ignored after disabling read-only")
	}
	if out := s.ReceiveCharacter('w'); !out.Handled {
		t.Fatalf("expected typed input after disabling read-only, got %+v", out)
	}
}

func TestToggleReadOnlyClearsWrongHold(t *testing.T) {
	s, _ := newTestSession(t, numberedWords(3), Options{})
	s.ReceiveCharacter('w')
	out := s.ReceiveCharacter('x')
	s.ToggleReadOnlyMode()
	snap := s.Snapshot()
	if snap.Wrong() || snap.Typed != 0 || !snap.ReadOnly {
		t.Fatalf("unexpected state after enabling read-only: %+v", snap)
	}
	if s.ExpireCooldown(out.Cooldown.Token) {
		t.Fatalf("expected cooldown cancelled by mode switch")
	}
	if res := s.HandleTrigger(TriggerSpace); !res.Handled {
		t.Fatalf("expected armed driver, got %+v", res)
	}
}

func TestTriggersIgnoredWhileIdle(t *testing.T) {
	src := &fakeSource{dicts: map[string][]model.WordEntry{"main": numberedWords(3)}}
	s, err := New(src, nil, testSettings(), Options{DictID: "main", ReadOnly: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if out := s.HandleTrigger(TriggerLine); !errors.Is(out.Err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %+v", out)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Stop()
	if out := s.HandleTrigger(TriggerSpace); out.Handled {
		t.Fatalf("expected driver disarmed by stop")
	}
}
