// Package diffcore computes a line-level diff between two fileview.FileViews
// by interning every line to an integer (rune) ID and running Myers'
// algorithm over the resulting integer sequences instead of the raw text,
// via github.com/sergi/go-diff/diffmatchpatch's
// DiffLinesToRunes/DiffMainRunes.
//
// A Hunk stores only line-range anchors into the two FileViews, never the
// hunk's text itself. A multi-million-line file would make copies of every
// changed line prohibitively expensive; an index pair costs 16 bytes
// regardless of line length, and the render/merge layers read the actual
// bytes lazily straight out of the FileViews when they need them.
package diffcore

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sidefold/sidefold/internal/fileview"
)

// Op identifies what a Hunk does to get from the left file to the right file.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Hunk is a contiguous span of lines on each side that a single resolution
// decision applies to. OldIndex/OldLen address lines in the left FileView;
// NewIndex/NewLen address lines in the right FileView. Both ranges are
// half-open: [OldIndex, OldIndex+OldLen).
type Hunk struct {
	Op       Op
	OldIndex int
	OldLen   int
	NewIndex int
	NewLen   int
}

// OldEnd returns the exclusive end of the hunk's left-side line range.
func (h Hunk) OldEnd() int { return h.OldIndex + h.OldLen }

// NewEnd returns the exclusive end of the hunk's right-side line range.
func (h Hunk) NewEnd() int { return h.NewIndex + h.NewLen }

// DisplayLen returns how many rendered rows this hunk needs: for Equal,
// Delete, and Insert that's the one side with content; for Replace it's
// whichever side has more lines, since the shorter side pads with blank rows.
func (h Hunk) DisplayLen() int {
	switch h.Op {
	case OpReplace:
		if h.OldLen > h.NewLen {
			return h.OldLen
		}
		return h.NewLen
	case OpDelete:
		return h.OldLen
	case OpInsert:
		return h.NewLen
	default:
		return h.OldLen
	}
}

// Compute diffs left against right and returns the ordered, validated list of
// hunks that partitions both files. An error here means the diff came back
// internally inconsistent (it does not partition both files cleanly); callers
// must treat this as a recoverable load failure, not crash the process.
func Compute(left, right *fileview.FileView) ([]Hunk, error) {
	dmp := diffmatchpatch.New()

	oldText := string(left.Bytes())
	newText := string(right.Bytes())

	runesOld, runesNew, _ := dmp.DiffLinesToRunes(oldText, newText)
	lineDiffs := dmp.DiffMainRunes(runesOld, runesNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	hunks := buildHunks(lineDiffs)
	hunks = mergeAdjacentEqual(hunks)

	if err := validate(hunks, left.LineCount(), right.LineCount()); err != nil {
		return nil, fmt.Errorf("diffcore: %w", err)
	}
	return hunks, nil
}

// buildHunks walks the line-level diffmatchpatch output and accumulates
// consecutive delete/insert runs into Replace (or pure Delete/Insert) hunks,
// counting lines via utf8.RuneCountInString on the still rune-encoded Text
// instead of decoding back to real line strings, since all a Hunk needs is
// how many lines each run covers.
func buildHunks(lineDiffs []diffmatchpatch.Diff) []Hunk {
	var hunks []Hunk
	oldPos, newPos := 0, 0
	delLen, insLen := 0, 0

	flush := func() {
		if delLen == 0 && insLen == 0 {
			return
		}
		var op Op
		switch {
		case delLen > 0 && insLen > 0:
			op = OpReplace
		case delLen > 0:
			op = OpDelete
		default:
			op = OpInsert
		}
		hunks = append(hunks, Hunk{
			Op:       op,
			OldIndex: oldPos - delLen,
			OldLen:   delLen,
			NewIndex: newPos - insLen,
			NewLen:   insLen,
		})
		delLen, insLen = 0, 0
	}

	for _, d := range lineDiffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			hunks = append(hunks, Hunk{Op: OpEqual, OldIndex: oldPos, OldLen: n, NewIndex: newPos, NewLen: n})
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			oldPos += n
			delLen += n
		case diffmatchpatch.DiffInsert:
			newPos += n
			insLen += n
		}
	}
	flush()
	return hunks
}

// mergeAdjacentEqual is a defensive pass that merges any two Equal hunks left
// next to each other. DiffCleanupMerge should never let that happen, but the
// partition invariant (Equal never neighbors Equal) is cheap to guarantee
// outright rather than trust upstream to hold it forever.
func mergeAdjacentEqual(hunks []Hunk) []Hunk {
	if len(hunks) == 0 {
		return hunks
	}
	out := hunks[:1]
	for _, h := range hunks[1:] {
		last := &out[len(out)-1]
		if last.Op == OpEqual && h.Op == OpEqual {
			last.OldLen += h.OldLen
			last.NewLen += h.NewLen
			continue
		}
		out = append(out, h)
	}
	return out
}

// validate checks the partition invariants: hunks cover [0, oldLineCount) and
// [0, newLineCount) with no gaps or overlaps, and no two Equal hunks are
// adjacent.
func validate(hunks []Hunk, oldLineCount, newLineCount int) error {
	oldPos, newPos := 0, 0
	for i, h := range hunks {
		if h.OldIndex != oldPos {
			return fmt.Errorf("hunk[%d]: OldIndex=%d, expected %d", i, h.OldIndex, oldPos)
		}
		if h.NewIndex != newPos {
			return fmt.Errorf("hunk[%d]: NewIndex=%d, expected %d", i, h.NewIndex, newPos)
		}
		switch h.Op {
		case OpEqual:
			if h.OldLen != h.NewLen {
				return fmt.Errorf("hunk[%d]: OpEqual requires OldLen==NewLen", i)
			}
		case OpInsert:
			if h.OldLen != 0 || h.NewLen == 0 {
				return fmt.Errorf("hunk[%d]: OpInsert requires OldLen==0 and NewLen>0", i)
			}
		case OpDelete:
			if h.OldLen == 0 || h.NewLen != 0 {
				return fmt.Errorf("hunk[%d]: OpDelete requires OldLen>0 and NewLen==0", i)
			}
		case OpReplace:
			if h.OldLen == 0 || h.NewLen == 0 {
				return fmt.Errorf("hunk[%d]: OpReplace requires OldLen>0 and NewLen>0", i)
			}
		default:
			return fmt.Errorf("hunk[%d]: unknown op %v", i, h.Op)
		}
		if i > 0 && hunks[i-1].Op == OpEqual && h.Op == OpEqual {
			return fmt.Errorf("hunk[%d]: two adjacent Equal hunks", i)
		}
		oldPos += h.OldLen
		newPos += h.NewLen
	}
	if oldPos != oldLineCount {
		return fmt.Errorf("hunks cover %d old lines, expected %d", oldPos, oldLineCount)
	}
	if newPos != newLineCount {
		return fmt.Errorf("hunks cover %d new lines, expected %d", newPos, newLineCount)
	}
	return nil
}

// ReplaceLinesCoincide reports whether a Replace hunk's i'th old line and i'th
// new line are byte-identical, used by the renderer to skip highlighting a
// line pair that differs only because Replace pairs lines positionally rather
// than by content (scenario where two single-line changes happen to land in
// the same Replace hunk but one of the lines didn't actually change).
func ReplaceLinesCoincide(left, right *fileview.FileView, h Hunk, i int) bool {
	if h.Op != OpReplace || i >= h.OldLen || i >= h.NewLen {
		return false
	}
	return strings.Compare(left.LineString(h.OldIndex+i), right.LineString(h.NewIndex+i)) == 0
}
