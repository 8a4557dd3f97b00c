// Package termui is a trimmed terminal-application runtime: a Model interface
// driven by Init/Update/View, a background message channel, and a redraw loop
// that only rewrites the screen lines that changed. It intentionally leaves
// out mouse tracking, bracketed paste, and process suspend (Ctrl-Z), none of
// which a two-pane diff/merge view needs.
package termui

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/sidefold/sidefold/internal/termformat"
)

// Message is any event or user-defined message delivered to Update.
type Message any

// ControlKey identifies a non-printable key press.
type ControlKey int

const (
	ControlKeyNone ControlKey = iota
	ControlKeyEnter
	ControlKeyEsc
	ControlKeyBackspace
	ControlKeyUp
	ControlKeyDown
	ControlKeyLeft
	ControlKeyRight
	ControlKeyPgUp
	ControlKeyPgDown
	ControlKeyHome
	ControlKeyEnd
	ControlKeyCtrlC
)

// KeyEvent is sent when the user presses a key.
type KeyEvent struct {
	ControlKey ControlKey
	Runes      []rune
}

// IsRunes reports whether the event is a plain printable keystroke.
func (k KeyEvent) IsRunes() bool {
	return k.ControlKey == ControlKeyNone && len(k.Runes) > 0
}

// Rune returns the first rune of the event, or 0 if it carries none.
func (k KeyEvent) Rune() rune {
	if len(k.Runes) > 0 {
		return k.Runes[0]
	}
	return 0
}

// ResizeEvent is sent at startup and whenever the terminal window resizes.
type ResizeEvent struct {
	Width  int
	Height int
}

// CancelFunc cancels a signal event or a periodic send. Safe to call multiple
// times and safe to call after the TUI has stopped.
type CancelFunc func()

// SigTermEvent is sent on a quit request. Leaving Cancel uncalled causes
// RunTUI to return nil.
type SigTermEvent struct {
	Cancel CancelFunc
}

// SigIntEvent is sent on an interrupt request. Leaving Cancel uncalled causes
// RunTUI to return ErrInterrupted.
type SigIntEvent struct {
	Cancel CancelFunc
}

// PanicMessage is sent in place of a background task's normal result when
// that task (started via Go) panics. Without this, a panicking worker would
// otherwise leave the model waiting forever for a message that never
// arrives; models that dispatch long-running work through Go should handle
// PanicMessage the same way they handle their own failure messages.
type PanicMessage struct {
	Value any
}

// Model is a user program driven by the termui event loop.
type Model interface {
	// Init runs once, after raw mode is entered.
	Init(t *TUI)
	// Update handles one event or Send'd message.
	Update(t *TUI, m Message)
	// View renders the full screen as a newline-joined string.
	View() string
}

// ErrNoTTY is returned when no usable terminal is available.
var ErrNoTTY = errors.New("termui: no tty available")

// ErrInterrupted is returned when the program is interrupted.
var ErrInterrupted = errors.New("termui: interrupted")

// Options configure RunTUI.
type Options struct {
	Input     io.Reader // overrides os.Stdin; used by tests
	Output    io.Writer // overrides os.Stdout; used by tests
	Framerate int       // frames/sec for the redraw loop; defaults to 20 (the ~50ms tick the controller polls at)
}

type terminalController interface {
	Enter() error
	Exit() error
}

// RunTUI enters raw/alt-screen mode, runs m to completion, and restores the
// terminal before returning.
func RunTUI(m Model, opts Options) error {
	if m == nil {
		return errors.New("termui: model is nil")
	}
	t := newTUI(m, opts)
	if err := t.prepareIO(); err != nil {
		return err
	}
	return t.run()
}

type signalKind int

const (
	_ signalKind = iota
	signalKindQuit
	signalKindInterrupt
)

type signalRequest struct {
	kind     signalKind
	canceled atomic.Bool
	once     sync.Once
}

func (s *signalRequest) cancelFunc() CancelFunc {
	return func() { s.once.Do(func() { s.canceled.Store(true) }) }
}

func (s *signalRequest) isCanceled() bool { return s != nil && s.canceled.Load() }

type messageEnvelope struct {
	msg    Message
	signal *signalRequest
}

// TUI is the running instance created by RunTUI; it is the value passed to a
// Model's Init/Update so the model can Send messages, Quit, or spawn work.
type TUI struct {
	model Model
	opts  Options

	frameDuration time.Duration

	term   terminalController
	input  io.Reader
	output io.Writer

	ctx    context.Context
	cancel context.CancelFunc

	messages chan messageEnvelope

	mu          sync.Mutex
	stopping    bool
	err         error
	stopClosers []func()

	sizeMu     sync.Mutex
	lastWidth  int
	lastHeight int
	sizeKnown  bool

	wg sync.WaitGroup

	renderMu  sync.Mutex
	prevLines []string
	fullDraw  bool
	lastDraw  time.Time
}

func newTUI(m Model, opts Options) *TUI {
	ctx, cancel := context.WithCancel(context.Background())
	framerate := opts.Framerate
	if framerate <= 0 {
		framerate = 20
	}
	return &TUI{
		model:         m,
		opts:          opts,
		ctx:           ctx,
		cancel:        cancel,
		messages:      make(chan messageEnvelope, 64),
		frameDuration: time.Second / time.Duration(framerate),
		fullDraw:      true,
	}
}

func (t *TUI) prepareIO() error {
	input := t.opts.Input
	if input == nil {
		input = os.Stdin
	}
	output := t.opts.Output
	if output == nil {
		output = os.Stdout
	}
	t.input = input
	t.output = output

	file, ok := input.(*os.File)
	if !ok || file == nil || !term.IsTerminal(int(file.Fd())) {
		return ErrNoTTY
	}
	t.term = newRealTerminal(file, output)
	return nil
}

func (t *TUI) run() (err error) {
	defer func() {
		if t.term != nil {
			_ = t.term.Exit()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			t.stop(nil)
			panic(r)
		}
	}()

	t.startSignalProcessor()
	if err := t.term.Enter(); err != nil {
		return err
	}
	t.startInputReader()
	t.startResizeWatcher()
	t.triggerResizeEvent()

	t.model.Init(t)
	t.render()

	for {
		select {
		case <-t.ctx.Done():
			t.wg.Wait()
			return t.err
		case env := <-t.messages:
			t.model.Update(t, env.msg)
			t.render()

			if env.signal != nil && !env.signal.isCanceled() {
				switch env.signal.kind {
				case signalKindQuit:
					t.stop(nil)
				case signalKindInterrupt:
					t.stop(ErrInterrupted)
				}
			}
		}
	}
}

func (t *TUI) render() {
	if t.output == nil {
		return
	}
	var lines []string
	if v := t.model.View(); v != "" {
		lines = strings.Split(v, "\n")
	}

	t.renderMu.Lock()
	defer t.renderMu.Unlock()

	if t.frameDuration > 0 && !t.lastDraw.IsZero() {
		if remaining := t.frameDuration - time.Since(t.lastDraw); remaining > 0 {
			time.Sleep(remaining)
		}
	}

	out, changed := t.buildOutputLocked(lines)
	t.prevLines = lines
	if !changed {
		return
	}
	_, _ = io.WriteString(t.output, out)
	t.lastDraw = time.Now()
}

func (t *TUI) buildOutputLocked(lines []string) (string, bool) {
	full := t.fullDraw
	t.fullDraw = false

	var b strings.Builder
	if full {
		b.WriteString(clearScreen)
	}

	maxLen := len(lines)
	if prevLen := len(t.prevLines); !full && prevLen > maxLen {
		maxLen = prevLen
	}

	for i := 0; i < maxLen; i++ {
		var newLine, prevLine string
		if i < len(lines) {
			newLine = lines[i]
		}
		if i < len(t.prevLines) {
			prevLine = t.prevLines[i]
		}
		if !full && newLine == prevLine {
			continue
		}
		b.WriteString("\x1b[")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(";1H")
		if newLine == "" || termformat.TextWidthWithANSICodes(newLine) != termformat.TextWidthWithANSICodes(prevLine) {
			b.WriteString(clearLine)
		}
		b.WriteString(newLine)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// Quit requests a clean shutdown; RunTUI returns nil once it takes effect.
func (t *TUI) Quit() { t.enqueueSignal(signalKindQuit) }

// Interrupt requests an interrupted shutdown; RunTUI returns ErrInterrupted.
func (t *TUI) Interrupt() { t.enqueueSignal(signalKindInterrupt) }

// Send enqueues m for delivery to Update. Safe from any goroutine.
func (t *TUI) Send(m Message) { t.enqueue(messageEnvelope{msg: m}) }

// SendPeriodically sends m every d until the returned CancelFunc is called or
// the program stops.
func (t *TUI) SendPeriodically(m Message, d time.Duration) CancelFunc {
	if d <= 0 {
		d = time.Millisecond
	}
	ctx, cancel := context.WithCancel(t.ctx)
	if !t.registerStopCloser(cancel) {
		cancel()
		return func() {}
	}
	var once sync.Once
	cancelFn := func() { once.Do(cancel) }

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Send(m)
			}
		}
	}()
	return cancelFn
}

// Go runs f on a new goroutine; if f returns a non-nil Message, it is sent to
// Update. Intended for background I/O work such as the load pipeline.
func (t *TUI) Go(f func(ctx context.Context) Message) {
	ctx, cancel := context.WithCancel(t.ctx)
	if !t.registerStopCloser(cancel) {
		cancel()
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
				t.Send(PanicMessage{Value: r})
			}
		}()
		if msg := f(ctx); msg != nil {
			t.Send(msg)
		}
	}()
}

func (t *TUI) enqueueSignal(kind signalKind) {
	req := &signalRequest{kind: kind}
	var msg Message
	switch kind {
	case signalKindQuit:
		msg = SigTermEvent{Cancel: req.cancelFunc()}
	case signalKindInterrupt:
		msg = SigIntEvent{Cancel: req.cancelFunc()}
	}
	t.enqueue(messageEnvelope{msg: msg, signal: req})
}

func (t *TUI) enqueue(env messageEnvelope) {
	t.mu.Lock()
	if t.stopping {
		t.mu.Unlock()
		return
	}
	ch := t.messages
	t.mu.Unlock()

	select {
	case ch <- env:
	case <-t.ctx.Done():
	}
}

func (t *TUI) stop(err error) {
	t.mu.Lock()
	if t.stopping {
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
		t.cancel()
		return
	}
	t.stopping = true
	t.err = err
	closers := t.stopClosers
	t.stopClosers = nil
	t.mu.Unlock()

	t.cancel()
	for _, fn := range closers {
		fn()
	}
}

func (t *TUI) registerStopCloser(fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopping {
		return false
	}
	t.stopClosers = append(t.stopClosers, fn)
	return true
}

func (t *TUI) triggerResizeEvent() {
	width, height, err := t.terminalSize()
	if err != nil {
		return
	}
	t.sizeMu.Lock()
	changed := !t.sizeKnown || t.lastWidth != width || t.lastHeight != height
	t.lastWidth, t.lastHeight, t.sizeKnown = width, height, true
	t.sizeMu.Unlock()
	if !changed {
		return
	}
	t.renderMu.Lock()
	t.fullDraw = true
	t.renderMu.Unlock()
	t.Send(ResizeEvent{Width: width, Height: height})
}

func (t *TUI) terminalSize() (int, int, error) {
	if f, ok := t.output.(*os.File); ok && f != nil {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			return w, h, nil
		}
	}
	if f, ok := t.input.(*os.File); ok && f != nil {
		return term.GetSize(int(f.Fd()))
	}
	return 0, 0, errors.New("termui: terminal size unavailable")
}

func (t *TUI) startInputReader() {
	if t.input == nil {
		return
	}
	newInputReader(t, t.input).start()
}
