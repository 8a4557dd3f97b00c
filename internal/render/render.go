// Package render does virtual windowed rendering of the diff view. Only the
// rows actually visible in the viewport are ever touched -- no hunk's lines
// are read, truncated, or styled until viewmap.RowToHunk places them inside
// [top, top+height), which is what lets the view stay responsive over a
// million-line file.
//
// Styling uses pink for deletions, green for insertions, and a
// dimmed grey overlay for resolved-away sides, applied with
// internal/termformat.Style rather than hand-written ANSI literals; content
// is truncated by grapheme cluster (internal/uni.TruncateToWidth) before any
// style is applied. diffcore.ReplaceLinesCoincide suppresses highlighting on
// a Replace row whose two lines happen to be identical.
package render

import (
	"strconv"

	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/resolve"
	"github.com/sidefold/sidefold/internal/termformat"
	"github.com/sidefold/sidefold/internal/uni"
	"github.com/sidefold/sidefold/internal/viewmap"
)

// Cell is one side of one rendered row.
type Cell struct {
	LineNo int    // 1-indexed; 0 means this side has no line at this row
	Text   string // styled, truncated to the column width, gutter not included
}

// Row is one visible line of the two-pane view.
type Row struct {
	Left, Right Cell
	Selected    bool // true if this row belongs to the selected hunk
}

// Theme names the styles applied to each kind of cell content.
type Theme struct {
	Neutral  termformat.Style
	Removed  termformat.Style
	Added    termformat.Style
	Dimmed   termformat.Style
	GutterSel termformat.Style
}

// DefaultTheme mirrors the pack's pink-removed/green-added palette.
func DefaultTheme() Theme {
	return Theme{
		Neutral:  termformat.Style{Foreground: termformat.ColorBlackFG},
		Removed:  termformat.Style{Foreground: termformat.ColorBlackFG, Background: termformat.ColorRemovedBG},
		Added:    termformat.Style{Foreground: termformat.ColorBlackFG, Background: termformat.ColorAddedBG},
		Dimmed:   termformat.Style{Foreground: termformat.ColorDimFG, Dim: true},
		GutterSel: termformat.Style{Background: termformat.ColorSelectBG},
	}
}

// Window renders at most height rows starting at scroll row top, given the
// computed hunks, their row prefix, per-hunk resolutions, and the currently
// selected hunk (-1 if none). colWidth is the number of printable columns
// available to each side's content (gutter width is not included).
func Window(
	left, right *fileview.FileView,
	hunks []diffcore.Hunk,
	prefix []int,
	resolutions []resolve.Resolution,
	selected int,
	top, height, colWidth int,
	theme Theme,
) []Row {
	total := viewmap.TotalRows(prefix)
	rows := make([]Row, 0, height)

	for y := 0; y < height; y++ {
		row := top + y
		if row >= total {
			break
		}
		h, local := viewmap.RowToHunk(prefix, row)
		rows = append(rows, renderRow(left, right, hunks[h], h, local, resolutions[h], h == selected, colWidth, theme))
	}
	return rows
}

func renderRow(left, right *fileview.FileView, h diffcore.Hunk, hunkIdx, local int, r resolve.Resolution, selected bool, colWidth int, theme Theme) Row {
	var leftLine, rightLine int  // 0 means absent
	var leftStyle, rightStyle = theme.Neutral, theme.Neutral

	switch h.Op {
	case diffcore.OpEqual:
		leftLine = h.OldIndex + local + 1
		rightLine = h.NewIndex + local + 1
	case diffcore.OpDelete:
		leftLine = h.OldIndex + local + 1
		leftStyle = theme.Removed
	case diffcore.OpInsert:
		rightLine = h.NewIndex + local + 1
		rightStyle = theme.Added
	case diffcore.OpReplace:
		if local < h.OldLen {
			leftLine = h.OldIndex + local + 1
			leftStyle = theme.Removed
		}
		if local < h.NewLen {
			rightLine = h.NewIndex + local + 1
			rightStyle = theme.Added
		}
		if leftLine != 0 && rightLine != 0 && diffcore.ReplaceLinesCoincide(left, right, h, local) {
			leftStyle, rightStyle = theme.Neutral, theme.Neutral
		}
	}

	switch r {
	case resolve.PickLeft:
		rightStyle = theme.Dimmed
	case resolve.PickRight:
		leftStyle = theme.Dimmed
	}

	row := Row{Selected: selected}
	row.Left = buildCell(left, leftLine, colWidth, leftStyle)
	row.Right = buildCell(right, rightLine, colWidth, rightStyle)
	return row
}

func buildCell(v *fileview.FileView, lineNo, colWidth int, style termformat.Style) Cell {
	if lineNo == 0 {
		return Cell{}
	}
	text := v.LineString(lineNo - 1)
	text = uni.TruncateToWidth(text, colWidth)
	return Cell{LineNo: lineNo, Text: style.Wrap(text)}
}

// FormatGutter renders a line number right-aligned to width, or blank spaces
// if lineNo is 0.
func FormatGutter(lineNo, width int) string {
	if lineNo == 0 {
		return uni.PadToWidth("", width)
	}
	s := strconv.Itoa(lineNo)
	if len(s) >= width {
		return s
	}
	pad := width - len(s)
	out := make([]byte, 0, width)
	for i := 0; i < pad; i++ {
		out = append(out, ' ')
	}
	return string(out) + s
}
