package termui

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	cursorHome     = "\x1b[H"
	clearLine      = "\x1b[2K"
	altScreenEnter = "\x1b[?1049h" + cursorHome
	altScreenExit  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J" + cursorHome
)

// realTerminal enters/exits raw + alternate-screen mode on a real tty. No
// bracketed paste, no mouse tracking: the program never needs mouse or paste
// events.
type realTerminal struct {
	in  *os.File
	out io.Writer

	mu      sync.Mutex
	entered bool
	state   *term.State
}

func newRealTerminal(in *os.File, out io.Writer) *realTerminal {
	return &realTerminal{in: in, out: out}
}

func (rt *realTerminal) Enter() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.entered {
		return nil
	}

	state, err := term.MakeRaw(int(rt.in.Fd()))
	if err != nil {
		return err
	}
	if err := rt.writeString(altScreenEnter + clearScreen + hideCursor); err != nil {
		_ = term.Restore(int(rt.in.Fd()), state)
		return err
	}

	rt.state = state
	rt.entered = true
	return nil
}

func (rt *realTerminal) Exit() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.entered {
		return nil
	}
	rt.entered = false

	var firstErr error
	if rt.state != nil {
		if err := term.Restore(int(rt.in.Fd()), rt.state); err != nil {
			firstErr = err
		}
		rt.state = nil
	}
	if err := rt.writeString(showCursor + altScreenExit); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (rt *realTerminal) writeString(s string) error {
	if rt.out == nil || s == "" {
		return nil
	}
	_, err := io.WriteString(rt.out, s)
	return err
}
