// Package audio plays typing cues and word pronunciations.
package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/verte-zerg/qwerty/internal/model"
)

// Runner starts an external command and waits for it.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs commands with os/exec, discarding their output.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// CuePlayer emits cues either through configured commands or the terminal
// bell. A cue without a command is silent except for the wrong cue, which
// rings the bell.
type CuePlayer struct {
	enabled  bool
	commands map[model.Cue]string
	bell     io.Writer
	run      Runner
	onError  func(error)
}

// NewCuePlayer returns a cue sink. bell may be nil to disable the bell.
func NewCuePlayer(enabled bool, commands map[model.Cue]string, bell io.Writer, run Runner, onError func(error)) *CuePlayer {
	if run == nil {
		run = ExecRunner
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &CuePlayer{
		enabled:  enabled,
		commands: commands,
		bell:     bell,
		run:      run,
		onError:  onError,
	}
}

// Cue implements session.CueSink. Commands run in the background so the
// event loop never waits on audio.
func (p *CuePlayer) Cue(c model.Cue) {
	if p == nil || !p.enabled {
		return
	}
	if cmd := strings.TrimSpace(p.commands[c]); cmd != "" {
		parts := strings.Fields(cmd)
		go func() {
			if err := p.run(context.Background(), parts[0], parts[1:]...); err != nil {
				p.onError(fmt.Errorf("failed to play %s cue: %w", c, err))
			}
		}()
		return
	}
	if c == model.CueWrong && p.bell != nil {
		if _, err := io.WriteString(p.bell, "\a"); err != nil {
			p.onError(fmt.Errorf("failed to ring bell: %w", err))
		}
	}
}
