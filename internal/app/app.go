// Package app is the diff/merge session's controller: a
// Loading/Done/Saving/Error state machine wired to termui.Model. It owns the
// resolution vector and scroll/selection state exclusively on the UI thread
// and dispatches the background load pipeline (load both files, index them,
// diff them) via termui.TUI.Go -- one UI thread, one worker, a channel
// carrying log lines and a single terminal Done/Error message.
// termui.TUI's buffered Send channel already delivers messages FIFO, so
// streaming a log line per pipeline stage is just calling t.Send from inside
// the Go worker closure; no separate channel is needed.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/merge"
	"github.com/sidefold/sidefold/internal/render"
	"github.com/sidefold/sidefold/internal/resolve"
	"github.com/sidefold/sidefold/internal/termui"
	"github.com/sidefold/sidefold/internal/viewmap"
)

type stateKind int

const (
	stateLoading stateKind = iota
	stateDone
	stateSaving
	stateError
)

const defaultSaveDraft = "merged_output.json"

const spinnerTickInterval = 120 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// logLineMsg is one progress line streamed from the load-pipeline worker.
type logLineMsg string

// loadDoneMsg is the single terminal success message the worker sends.
type loadDoneMsg struct {
	left, right *fileview.FileView
	hunks       []diffcore.Hunk
}

// loadErrMsg is the single terminal failure message the worker sends.
type loadErrMsg struct{ err error }

type spinnerTickMsg struct{}

// Model is the application's termui.Model.
type Model struct {
	leftPath, rightPath string

	kind     stateKind
	logLines []string
	spinner  int
	errMsg   string

	saveDraft  string
	saveStatus string

	left, right *fileview.FileView
	hunks       []diffcore.Hunk
	prefix      []int
	resolutions []resolve.Resolution

	selected  int // -1 means None
	scrollRow int
	width     int
	height    int

	theme render.Theme
	t     *termui.TUI
}

// New constructs the controller for a two-file merge session. Loading begins
// once the termui runtime calls Init.
func New(leftPath, rightPath string) *Model {
	return &Model{
		leftPath:  leftPath,
		rightPath: rightPath,
		kind:      stateLoading,
		selected:  -1,
		saveDraft: defaultSaveDraft,
		theme:     render.DefaultTheme(),
		width:     80,
		height:    24,
	}
}

// Init starts the spinner ticker and the background load pipeline.
func (m *Model) Init(t *termui.TUI) {
	m.t = t
	t.SendPeriodically(spinnerTickMsg{}, spinnerTickInterval)
	t.Go(m.loadPipeline(t))
}

// loadPipeline loads both files (in parallel), indexes them, and diffs them,
// streaming progress via t.Send and returning the single terminal message
// for Go to deliver.
func (m *Model) loadPipeline(t *termui.TUI) func(ctx context.Context) termui.Message {
	return func(ctx context.Context) termui.Message {
		t.Send(logLineMsg(fmt.Sprintf("loading %s", m.leftPath)))
		t.Send(logLineMsg(fmt.Sprintf("loading %s", m.rightPath)))

		type loaded struct {
			view *fileview.FileView
			err  error
		}
		leftCh := make(chan loaded, 1)
		rightCh := make(chan loaded, 1)

		go func() {
			src, err := content.Load(m.leftPath)
			if err != nil {
				leftCh <- loaded{err: err}
				return
			}
			leftCh <- loaded{view: fileview.New(src)}
		}()
		go func() {
			src, err := content.Load(m.rightPath)
			if err != nil {
				rightCh <- loaded{err: err}
				return
			}
			rightCh <- loaded{view: fileview.New(src)}
		}()

		leftResult := <-leftCh
		rightResult := <-rightCh

		if leftResult.err != nil {
			return loadErrMsg{err: leftResult.err}
		}
		if rightResult.err != nil {
			return loadErrMsg{err: rightResult.err}
		}

		if leftResult.view.Source().PrettyPrinted {
			t.Send(logLineMsg("left: pretty-printed as JSON"))
		}
		if rightResult.view.Source().PrettyPrinted {
			t.Send(logLineMsg("right: pretty-printed as JSON"))
		}

		t.Send(logLineMsg("indexing complete, computing diff"))
		hunks, err := diffcore.Compute(leftResult.view, rightResult.view)
		if err != nil {
			return loadErrMsg{err: err}
		}
		t.Send(logLineMsg(fmt.Sprintf("diff complete: %d hunks", len(hunks))))

		return loadDoneMsg{left: leftResult.view, right: rightResult.view, hunks: hunks}
	}
}

// Update handles one event or Send'd message per the current state.
func (m *Model) Update(t *termui.TUI, msg termui.Message) {
	switch ev := msg.(type) {
	case termui.ResizeEvent:
		m.width, m.height = ev.Width, ev.Height
		return
	case termui.SigTermEvent:
		return
	case termui.SigIntEvent:
		return
	case termui.PanicMessage:
		m.errMsg = fmt.Sprintf("internal error: %v", ev.Value)
		m.kind = stateError
		return
	}

	switch m.kind {
	case stateLoading:
		m.updateLoading(t, msg)
	case stateDone:
		m.updateDone(t, msg)
	case stateSaving:
		m.updateSaving(t, msg)
	case stateError:
		m.updateError(t, msg)
	}
}

func (m *Model) updateLoading(t *termui.TUI, msg termui.Message) {
	switch ev := msg.(type) {
	case spinnerTickMsg:
		m.spinner = (m.spinner + 1) % len(spinnerFrames)
	case logLineMsg:
		m.logLines = append(m.logLines, string(ev))
	case loadDoneMsg:
		m.left, m.right, m.hunks = ev.left, ev.right, ev.hunks
		m.prefix = viewmap.BuildRowIndex(m.hunks)
		m.resolutions = resolve.NewVector(len(m.hunks))
		m.kind = stateDone
	case loadErrMsg:
		m.errMsg = ev.err.Error()
		m.kind = stateError
	}
	// Keyboard input is ignored while loading.
}

func (m *Model) updateDone(t *termui.TUI, msg termui.Message) {
	ke, ok := msg.(termui.KeyEvent)
	if !ok {
		return
	}

	switch {
	case ke.ControlKey == termui.ControlKeyCtrlC:
		t.Interrupt()
		return
	case ke.ControlKey == termui.ControlKeyEsc || ke.Rune() == 'q':
		t.Quit()
		return
	}

	total := viewmap.TotalRows(m.prefix)

	switch {
	case ke.ControlKey == termui.ControlKeyDown || ke.Rune() == 'j':
		m.scrollRow = clampScroll(m.scrollRow+1, total)
	case ke.ControlKey == termui.ControlKeyUp || ke.Rune() == 'k':
		m.scrollRow = clampScroll(m.scrollRow-1, total)
	case ke.ControlKey == termui.ControlKeyPgDown:
		m.scrollRow = clampScroll(m.scrollRow+m.viewportHeight(), total)
	case ke.ControlKey == termui.ControlKeyPgUp:
		m.scrollRow = clampScroll(m.scrollRow-m.viewportHeight(), total)
	case ke.ControlKey == termui.ControlKeyHome:
		m.scrollRow = 0
	case ke.ControlKey == termui.ControlKeyEnd:
		m.scrollRow = clampScroll(total-1, total)
	case ke.Rune() == 'n':
		if idx := nextNonEqual(m.hunks, m.selected); idx != -1 {
			m.selected = idx
			m.scrollRow = m.prefix[idx]
		}
	case ke.Rune() == 'p':
		from := m.selected
		if from == -1 {
			from = 0
		}
		if idx := prevNonEqual(m.hunks, from); idx != -1 {
			m.selected = idx
			m.scrollRow = m.prefix[idx]
		}
	case ke.ControlKey == termui.ControlKeyLeft || ke.Rune() == '1':
		if m.selected != -1 {
			m.resolutions[m.selected] = resolve.PickLeft
		} else {
			m.scrollRow = clampScroll(m.scrollRow-10, total)
		}
	case ke.ControlKey == termui.ControlKeyRight || ke.Rune() == '2':
		if m.selected != -1 {
			m.resolutions[m.selected] = resolve.PickRight
		} else {
			m.scrollRow = clampScroll(m.scrollRow+10, total)
		}
	case ke.Rune() == '3':
		if m.selected != -1 {
			m.resolutions[m.selected] = resolve.PickBoth
		}
	case ke.ControlKey == termui.ControlKeyBackspace:
		if m.selected != -1 {
			m.resolutions[m.selected] = resolve.Unresolved
		}
	case ke.Rune() == 's':
		m.kind = stateSaving
		m.saveDraft = defaultSaveDraft
		m.saveStatus = ""
	}
}

func (m *Model) updateSaving(t *termui.TUI, msg termui.Message) {
	ke, ok := msg.(termui.KeyEvent)
	if !ok {
		return
	}

	switch {
	case ke.ControlKey == termui.ControlKeyEsc:
		m.kind = stateDone
	case ke.ControlKey == termui.ControlKeyBackspace:
		if n := len(m.saveDraft); n > 0 {
			m.saveDraft = m.saveDraft[:n-1]
		}
	case ke.ControlKey == termui.ControlKeyEnter:
		m.performSave()
		m.kind = stateDone
	case ke.IsRunes():
		m.saveDraft += string(ke.Runes)
	}
}

func (m *Model) updateError(t *termui.TUI, msg termui.Message) {
	ke, ok := msg.(termui.KeyEvent)
	if !ok {
		return
	}
	if ke.ControlKey == termui.ControlKeyCtrlC {
		t.Interrupt()
		return
	}
	if ke.ControlKey == termui.ControlKeyEsc || ke.Rune() == 'q' {
		t.Quit()
	}
}

// performSave writes the merge to m.saveDraft. A write failure is swallowed
// into a transient status line rather than moving to Error, returning to
// Done unconditionally and leaving the user free to edit the filename and
// retry.
func (m *Model) performSave() {
	f, err := os.Create(m.saveDraft)
	if err != nil {
		m.saveStatus = fmt.Sprintf("save failed: %v", err)
		return
	}
	defer f.Close()

	if err := merge.Write(f, m.left, m.right, m.hunks, m.resolutions); err != nil {
		m.saveStatus = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.saveStatus = fmt.Sprintf("saved to %s", m.saveDraft)
}

func (m *Model) viewportHeight() int {
	h := m.height - reservedChromeLines
	if h < 1 {
		return 1
	}
	return h
}

func clampScroll(row, total int) int {
	if total <= 0 {
		return 0
	}
	if row < 0 {
		return 0
	}
	if row >= total {
		return total - 1
	}
	return row
}

func nextNonEqual(hunks []diffcore.Hunk, from int) int {
	for i := from + 1; i < len(hunks); i++ {
		if hunks[i].Op != diffcore.OpEqual {
			return i
		}
	}
	return -1
}

func prevNonEqual(hunks []diffcore.Hunk, from int) int {
	for i := from - 1; i >= 0; i-- {
		if hunks[i].Op != diffcore.OpEqual {
			return i
		}
	}
	return -1
}
