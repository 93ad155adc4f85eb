// Package feed receives keystroke and trigger events published over NATS,
// so another process (an editor plugin, a second keyboard) can drive a
// practice session.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nats-io/nats.go"
)

// Kind is the type of a remote event.
type Kind string

// Event kinds.
const (
	KindChar  Kind = "char"
	KindLine  Kind = "line"
	KindSpace Kind = "space"
)

// ErrRejected is returned for payloads the session must never see.
var ErrRejected = errors.New("event rejected")

// Event is one decoded remote input.
type Event struct {
	Kind Kind
	Char rune
}

type wireEvent struct {
	Kind string `json:"kind"`
	Char string `json:"char"`
}

// Decode parses a JSON event. Character events must carry exactly one
// character; pastes and deletions are rejected here.
func Decode(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	switch Kind(w.Kind) {
	case KindChar:
		if utf8.RuneCountInString(w.Char) != 1 {
			return Event{}, fmt.Errorf("%w: char payload %q is not a single character", ErrRejected, w.Char)
		}
		r, _ := utf8.DecodeRuneInString(w.Char)
		if r == utf8.RuneError {
			return Event{}, fmt.Errorf("%w: invalid utf-8", ErrRejected)
		}
		return Event{Kind: KindChar, Char: r}, nil
	case KindLine, KindSpace:
		return Event{Kind: Kind(w.Kind)}, nil
	default:
		return Event{}, fmt.Errorf("%w: unknown kind %q", ErrRejected, w.Kind)
	}
}

// Subscription is an active feed.
type Subscription struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// Subscribe connects to url and delivers decoded events on subject. Events
// that fail to decode go to onError. Handlers run on the NATS goroutine.
func Subscribe(url, subject string, handle func(Event), onError func(error)) (*Subscription, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		return nil, fmt.Errorf("remote subject is empty")
	}
	if onError == nil {
		onError = func(error) {}
	}
	conn, err := nats.Connect(url, nats.Name("qwerty"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		ev, err := Decode(msg.Data)
		if err != nil {
			onError(err)
			return
		}
		handle(ev)
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return &Subscription{conn: conn, sub: sub}, nil
}

// Close unsubscribes and drains the connection.
func (s *Subscription) Close() error {
	if s == nil {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return s.conn.Drain()
}
