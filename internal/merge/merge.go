// Package merge walks the hunk sequence and, per each hunk's resolution,
// copies raw byte ranges out of the left or right FileView straight into the
// output stream. It never decodes, reformats, or re-joins lines through a
// text layer, which is what keeps the output byte-exact on non-UTF-8 or
// CRLF-preserving inputs.
package merge

import (
	"io"

	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/resolve"
)

// Write serializes left and right into w according to hunks and resolutions.
// len(resolutions) must equal len(hunks).
func Write(w io.Writer, left, right *fileview.FileView, hunks []diffcore.Hunk, resolutions []resolve.Resolution) error {
	for i, h := range hunks {
		if err := writeHunk(w, left, right, h, resolutions[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeHunk(w io.Writer, left, right *fileview.FileView, h diffcore.Hunk, r resolve.Resolution) error {
	switch h.Op {
	case diffcore.OpEqual:
		return writeRange(w, left, h.OldIndex, h.OldEnd())
	case diffcore.OpDelete:
		switch r {
		case resolve.PickRight:
			return nil
		default: // Unresolved, PickLeft, PickBoth all keep the deleted left range.
			return writeRange(w, left, h.OldIndex, h.OldEnd())
		}
	case diffcore.OpInsert:
		switch r {
		case resolve.PickRight, resolve.PickBoth:
			return writeRange(w, right, h.NewIndex, h.NewEnd())
		default: // Unresolved, PickLeft both skip an insert-only hunk.
			return nil
		}
	case diffcore.OpReplace:
		switch r {
		case resolve.PickRight:
			return writeRange(w, right, h.NewIndex, h.NewEnd())
		case resolve.PickBoth:
			if err := writeRange(w, left, h.OldIndex, h.OldEnd()); err != nil {
				return err
			}
			return writeRange(w, right, h.NewIndex, h.NewEnd())
		default: // Unresolved, PickLeft.
			return writeRange(w, left, h.OldIndex, h.OldEnd())
		}
	}
	return nil
}

func writeRange(w io.Writer, v *fileview.FileView, startLine, endLine int) error {
	b := v.ByteRange(startLine, endLine)
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}
