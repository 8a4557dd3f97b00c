package render

import (
	"fmt"
	"strings"

	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/termformat"
)

// RenderUnified is the non-interactive counterpart to Window: a one-shot,
// scrollback-friendly colorized diff of the whole file, context-bounded the
// way a unified diff is. Lines are read lazily from the FileViews rather
// than materialized into the hunk itself.
func RenderUnified(left, right *fileview.FileView, hunks []diffcore.Hunk, color bool, contextSize int) string {
	removed := termformat.Style{Foreground: termformat.ColorBlackFG, Background: termformat.ColorRemovedBG}
	added := termformat.Style{Foreground: termformat.ColorBlackFG, Background: termformat.ColorAddedBG}
	neutral := termformat.Style{Foreground: termformat.ColorDimFG}

	wrap := func(s string, st termformat.Style) string {
		if !color {
			return s
		}
		return st.Wrap(s)
	}

	var out []string
	for i, h := range hunks {
		if h.Op == diffcore.OpEqual {
			continue
		}

		if i > 0 && hunks[i-1].Op == diffcore.OpEqual {
			out = append(out, contextTail(left, hunks[i-1], contextSize, wrap, neutral)...)
		}

		switch h.Op {
		case diffcore.OpDelete:
			for ln := h.OldIndex; ln < h.OldEnd(); ln++ {
				out = append(out, wrap("-"+left.LineString(ln), removed))
			}
		case diffcore.OpInsert:
			for ln := h.NewIndex; ln < h.NewEnd(); ln++ {
				out = append(out, wrap("+"+right.LineString(ln), added))
			}
		case diffcore.OpReplace:
			for ln := h.OldIndex; ln < h.OldEnd(); ln++ {
				out = append(out, wrap("-"+left.LineString(ln), removed))
			}
			for ln := h.NewIndex; ln < h.NewEnd(); ln++ {
				out = append(out, wrap("+"+right.LineString(ln), added))
			}
		}

		if i+1 < len(hunks) && hunks[i+1].Op == diffcore.OpEqual {
			out = append(out, contextHead(left, hunks[i+1], contextSize, wrap, neutral)...)
		}
	}
	return strings.Join(out, "\n")
}

func contextTail(left *fileview.FileView, eq diffcore.Hunk, n int, wrap func(string, termformat.Style) string, style termformat.Style) []string {
	start := eq.OldEnd() - n
	if start < eq.OldIndex {
		start = eq.OldIndex
	}
	var lines []string
	for ln := start; ln < eq.OldEnd(); ln++ {
		lines = append(lines, wrap(" "+left.LineString(ln), style))
	}
	return lines
}

func contextHead(left *fileview.FileView, eq diffcore.Hunk, n int, wrap func(string, termformat.Style) string, style termformat.Style) []string {
	end := eq.OldIndex + n
	if end > eq.OldEnd() {
		end = eq.OldEnd()
	}
	var lines []string
	for ln := eq.OldIndex; ln < end; ln++ {
		lines = append(lines, wrap(" "+left.LineString(ln), style))
	}
	return lines
}

// SummaryLine returns a one-line "left -> right: N hunk(s)" summary, where N
// counts the non-Equal hunks, used as a header above RenderUnified's output.
func SummaryLine(leftPath, rightPath string, hunks []diffcore.Hunk) string {
	changed := 0
	for _, h := range hunks {
		if h.Op != diffcore.OpEqual {
			changed++
		}
	}
	return fmt.Sprintf("%s -> %s: %d hunk(s)", leftPath, rightPath, changed)
}
