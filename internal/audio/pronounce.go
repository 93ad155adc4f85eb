package audio

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const wordToken = "{word}"

// DefaultPronounceTimeout bounds a single pronunciation command.
const DefaultPronounceTimeout = 5 * time.Second

// Pronouncer speaks headwords through an external command, one at a time.
type Pronouncer struct {
	template string
	lock     *Lock
	run      Runner
	timeout  time.Duration
	done     func(word string, err error)
}

// NewPronouncer builds a pronouncer from a command template such as
// "espeak {word}". An empty template disables pronunciation. done, when
// set, is called after each accepted request finishes.
func NewPronouncer(template string, run Runner, done func(word string, err error)) *Pronouncer {
	if run == nil {
		run = ExecRunner
	}
	return &Pronouncer{
		template: strings.TrimSpace(template),
		lock:     &Lock{},
		run:      run,
		timeout:  DefaultPronounceTimeout,
		done:     done,
	}
}

// Enabled reports whether a command is configured.
func (p *Pronouncer) Enabled() bool {
	return p != nil && p.template != ""
}

// Request starts pronouncing word. It returns false without queueing when
// another pronunciation is still playing.
func (p *Pronouncer) Request(word string) bool {
	if !p.Enabled() || word == "" {
		return false
	}
	if !p.lock.TryAcquire() {
		return false
	}
	name, args := p.command(word)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.run(ctx, name, args...)
		cancel()
		if err != nil {
			err = fmt.Errorf("failed to pronounce %q: %w", word, err)
		}
		p.lock.Release()
		if p.done != nil {
			p.done(word, err)
		}
	}()
	return true
}

func (p *Pronouncer) command(word string) (string, []string) {
	parts := strings.Fields(p.template)
	replaced := false
	for i, part := range parts {
		if strings.Contains(part, wordToken) {
			parts[i] = strings.ReplaceAll(part, wordToken, word)
			replaced = true
		}
	}
	if !replaced {
		parts = append(parts, word)
	}
	return parts[0], parts[1:]
}
