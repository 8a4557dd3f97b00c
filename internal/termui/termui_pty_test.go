package termui

import (
	"io"
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// setupTestTTY allocates a real pseudo-terminal so the raw-mode and
// input-decoding paths run against an actual tty, not a plain pipe.
func setupTestTTY(t *testing.T) (input, output *os.File, ptmx *os.File) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("termui pty test requires a unix pty")
	}

	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}))

	drainDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, ptmx)
		close(drainDone)
	}()

	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
		<-drainDone
	})

	return tty, tty, ptmx
}

type recordingModel struct {
	mu     sync.Mutex
	events []Message
	t      *TUI
}

func (m *recordingModel) Init(t *TUI) { m.t = t }

func (m *recordingModel) Update(t *TUI, msg Message) {
	m.mu.Lock()
	m.events = append(m.events, msg)
	m.mu.Unlock()

	if ke, ok := msg.(KeyEvent); ok && ke.ControlKey == ControlKeyEnter {
		t.Quit()
	}
}

func (m *recordingModel) View() string { return "hello" }

func (m *recordingModel) seen() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.events...)
}

func TestRunTUIQuitsOnEnterKeypress(t *testing.T) {
	input, output, ptmx := setupTestTTY(t)

	m := &recordingModel{}
	done := make(chan error, 1)
	go func() {
		done <- RunTUI(m, Options{Input: input, Output: output})
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := ptmx.Write([]byte{'\r'})
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunTUI did not return after Enter keypress")
	}

	foundEnter := false
	for _, ev := range m.seen() {
		if ke, ok := ev.(KeyEvent); ok && ke.ControlKey == ControlKeyEnter {
			foundEnter = true
		}
	}
	require.True(t, foundEnter, "expected an Enter KeyEvent to have reached Update")
}

func TestRunTUIRejectsNonTTY(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })

	m := &recordingModel{}
	err = RunTUI(m, Options{Input: r, Output: w})
	require.ErrorIs(t, err, ErrNoTTY)
}
