package termui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// controlSequenceMap covers only the CSI and SS3 sequences the controller's key
// bindings actually use (arrows, PgUp/PgDn, Home/End); modifier variants and
// function keys that nothing here binds are deliberately left undecoded.
var controlSequenceMap = map[string]ControlKey{
	"\x1b[A":  ControlKeyUp,
	"\x1b[B":  ControlKeyDown,
	"\x1b[C":  ControlKeyRight,
	"\x1b[D":  ControlKeyLeft,
	"\x1bOA":  ControlKeyUp,
	"\x1bOB":  ControlKeyDown,
	"\x1bOC":  ControlKeyRight,
	"\x1bOD":  ControlKeyLeft,
	"\x1b[5~": ControlKeyPgUp,
	"\x1b[6~": ControlKeyPgDown,
	"\x1b[1~": ControlKeyHome,
	"\x1b[H":  ControlKeyHome,
	"\x1bOH":  ControlKeyHome,
	"\x1b[4~": ControlKeyEnd,
	"\x1b[F":  ControlKeyEnd,
	"\x1bOF":  ControlKeyEnd,
}

type inputReader struct {
	t      *TUI
	reader io.Reader

	pending []byte
}

func newInputReader(t *TUI, r io.Reader) *inputReader {
	return &inputReader{t: t, reader: r}
}

func (p *inputReader) start() {
	p.t.wg.Add(1)
	go func() {
		defer p.t.wg.Done()
		p.run()
	}()
}

func (p *inputReader) run() {
	buf := make([]byte, 1024)
	for {
		select {
		case <-p.t.ctx.Done():
			return
		default:
		}

		n, err := p.reader.Read(buf)
		if n > 0 {
			p.pending = append(p.pending, buf[:n]...)
			p.processPending()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}
			select {
			case <-p.t.ctx.Done():
				return
			default:
			}
		}
	}
}

func (p *inputReader) processPending() {
	for len(p.pending) > 0 {
		b := p.pending[0]

		if b == 0x1b {
			if p.handleEscape() {
				continue
			}
			break
		}
		if b < 0x20 || b == 0x7f {
			p.emitControl(b)
			p.pending = p.pending[1:]
			continue
		}
		if !utf8.FullRune(p.pending) {
			break
		}
		r, size := utf8.DecodeRune(p.pending)
		if r == utf8.RuneError && size == 1 {
			p.pending = p.pending[1:]
			continue
		}
		p.t.Send(KeyEvent{Runes: []rune{r}})
		p.pending = p.pending[size:]
	}
}

func (p *inputReader) emitControl(b byte) {
	var key ControlKey
	switch b {
	case '\r', '\n':
		key = ControlKeyEnter
	case 0x7f, 0x08:
		key = ControlKeyBackspace
	case 0x03:
		key = ControlKeyCtrlC
	default:
		return
	}
	p.t.Send(KeyEvent{ControlKey: key})
}

// handleEscape consumes a lone ESC or a recognized CSI/SS3 sequence starting
// at p.pending[0]. Returns true if it consumed input (so the caller should
// keep looping), false if more bytes are needed or nothing matched.
func (p *inputReader) handleEscape() bool {
	if len(p.pending) == 1 {
		// Bare ESC with nothing buffered after it yet. Since termui never runs
		// with a pty fast enough to race a genuine Alt-prefixed key against
		// this check in practice for the bindings this program uses, treat it
		// as a plain Escape rather than waiting on a timer.
		p.t.Send(KeyEvent{ControlKey: ControlKeyEsc})
		p.pending = p.pending[1:]
		return true
	}

	for seq, key := range controlSequenceMap {
		if bytes.HasPrefix(p.pending, []byte(seq)) {
			p.t.Send(KeyEvent{ControlKey: key})
			p.pending = p.pending[len(seq):]
			return true
		}
	}

	if len(p.pending) >= 2 && p.pending[1] == '[' {
		if n := csiSequenceLength(p.pending); n > 0 {
			if n > len(p.pending) {
				return false
			}
			// Unrecognized CSI sequence; discard it whole.
			p.pending = p.pending[n:]
			return true
		}
		return false
	}

	p.t.Send(KeyEvent{ControlKey: ControlKeyEsc})
	p.pending = p.pending[1:]
	return true
}

// csiSequenceLength returns the byte length of the CSI sequence starting at
// buf (which must begin with ESC '['), or 0 if more bytes are needed.
func csiSequenceLength(buf []byte) int {
	for i := 2; i < len(buf); i++ {
		c := buf[i]
		if c >= '@' && c <= '~' {
			return i + 1
		}
	}
	return 0
}
