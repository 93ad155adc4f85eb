package feed

import (
	"errors"
	"testing"
)

func TestDecodeChar(t *testing.T) {
	ev, err := Decode([]byte(`{"kind":"char","char":"é"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if ev.Kind != KindChar || ev.Char != 'é' {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDecodeTriggers(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindSpace} {
		ev, err := Decode([]byte(`{"kind":"` + string(kind) + `"}`))
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", kind, err)
		}
		if ev.Kind != kind {
			t.Fatalf("expected %s, got %s", kind, ev.Kind)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []string{
		`{"kind":"char","char":"ab"}`,
		`{"kind":"char","char":""}`,
		`{"kind":"delete"}`,
	}
	for _, input := range cases {
		if _, err := Decode([]byte(input)); !errors.Is(err, ErrRejected) {
			t.Fatalf("expected ErrRejected for %s, got %v", input, err)
		}
	}
	if _, err := Decode([]byte(`not json`)); err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSubscribeRequiresSubject(t *testing.T) {
	if _, err := Subscribe("nats://127.0.0.1:1", "", func(Event) {}, nil); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
