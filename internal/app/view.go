package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/sidefold/sidefold/internal/render"
	"github.com/sidefold/sidefold/internal/uni"
	"github.com/sidefold/sidefold/internal/viewmap"
)

// fileExists reports whether path resolves to an existing non-directory --
// used only to annotate the Saving bar, never to block the write itself.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// reservedChromeLines is how many rows at the bottom of the screen are spent
// on the status/input bar, leaving the rest for the diff viewport.
const reservedChromeLines = 2

const gutterWidth = 6

// View renders the full screen for the current state.
func (m *Model) View() string {
	switch m.kind {
	case stateLoading:
		return m.viewLoading()
	case stateError:
		return m.viewError()
	case stateSaving:
		return m.viewDiff() + "\n" + m.viewSavingBar()
	default:
		return m.viewDiff() + "\n" + m.viewStatusBar()
	}
}

func (m *Model) viewLoading() string {
	var b strings.Builder
	frame := spinnerFrames[m.spinner%len(spinnerFrames)]
	fmt.Fprintf(&b, "%c loading %s / %s", frame, m.leftPath, m.rightPath)
	for _, line := range m.logLines {
		b.WriteString("\n  ")
		b.WriteString(line)
	}
	return b.String()
}

func (m *Model) viewError() string {
	return "error: " + m.errMsg + "\n(press q or Esc to quit)"
}

func (m *Model) viewDiff() string {
	height := m.viewportHeight()
	colWidth := m.colWidth()

	rows := render.Window(m.left, m.right, m.hunks, m.prefix, m.resolutions, m.selected, m.scrollRow, height, colWidth, m.theme)

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatSide(row.Left, row.Selected, colWidth, m.theme))
		b.WriteString(" | ")
		b.WriteString(formatSide(row.Right, row.Selected, colWidth, m.theme))
	}
	// Pad remaining viewport rows so the status bar stays pinned to the bottom.
	for i := len(rows); i < height; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

func formatSide(c render.Cell, selected bool, colWidth int, theme render.Theme) string {
	gutter := render.FormatGutter(c.LineNo, gutterWidth)
	if selected {
		gutter = theme.GutterSel.Wrap(gutter)
	}
	content := c.Text
	if content == "" {
		content = uni.PadToWidth("", colWidth)
	}
	return gutter + " " + content
}

func (m *Model) colWidth() int {
	w := (m.width - 2*gutterWidth - len(" |  ")) / 2
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) viewStatusBar() string {
	total := viewmap.TotalRows(m.prefix)
	selDesc := "none"
	if m.selected != -1 {
		selDesc = fmt.Sprintf("%d/%d", m.selected+1, len(m.hunks))
	}
	status := fmt.Sprintf("row %d/%d  hunk %s  [n/p navigate, 1/2/3 resolve, s save, q quit]", m.scrollRow+1, total, selDesc)
	if m.saveStatus != "" {
		status = m.saveStatus + "  " + status
	}
	return status
}

func (m *Model) viewSavingBar() string {
	bar := "save as: " + m.saveDraft + "_ (Enter to write, Esc to cancel)"
	if fileExists(m.saveDraft) {
		bar += "  (exists, will overwrite)"
	}
	return bar
}
