// Package uni provides terminal-cell-width-aware text measurement: grapheme
// clusters (via uax29) are the unit of truncation, and each cluster's
// printable width (via go-runewidth) is the unit of column accounting.
// Treating a single combining-mark sequence or multi-rune emoji as one
// indivisible unit keeps line rendering from splitting a cluster in half.
package uni

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

var defaultCondition = newCondition()

func newCondition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}

// TextWidth returns the monospace terminal-cell width of s.
func TextWidth(s string) int {
	return defaultCondition.StringWidth(s)
}

// Iterator walks s grapheme cluster by grapheme cluster.
type Iterator struct {
	iter graphemes.Iterator[string]
}

// NewIterator returns a grapheme iterator over s.
func NewIterator(s string) *Iterator {
	return &Iterator{iter: graphemes.FromString(s)}
}

func (it *Iterator) Next() bool    { return it.iter.Next() }
func (it *Iterator) Value() string { return it.iter.Value() }
func (it *Iterator) Start() int    { return it.iter.Start() }
func (it *Iterator) End() int      { return it.iter.End() }

// Width returns the terminal-cell width of the current grapheme cluster.
func (it *Iterator) Width() int {
	return defaultCondition.StringWidth(it.iter.Value())
}

// TruncateToWidth returns the longest prefix of s (by whole grapheme clusters)
// whose printable width does not exceed maxWidth. It never splits a grapheme
// cluster, so the returned width may be less than maxWidth if the next cluster
// would overflow it.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	it := NewIterator(s)
	for it.Next() {
		w := it.Width()
		if width+w > maxWidth {
			return s[:it.Start()]
		}
		width += w
	}
	return s
}

// PadToWidth right-pads s with spaces until it occupies exactly width terminal
// cells. If s is already >= width, it is returned unchanged (callers should
// truncate first if a hard cap is required).
func PadToWidth(s string, width int) string {
	w := TextWidth(s)
	if w >= width {
		return s
	}
	pad := make([]byte, width-w)
	for i := range pad {
		pad[i] = ' '
	}
	return s + string(pad)
}
