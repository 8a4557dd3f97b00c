package diffcore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/fileview"
)

func newView(t *testing.T, data string) *fileview.FileView {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	src, err := content.Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return fileview.New(src)
}

// small edit: a single-line replace followed by a trailing insert.
func TestComputeSmallEdit(t *testing.T) {
	left := newView(t, "A\nB\nC\n")
	right := newView(t, "A\nMOD\nC\nD\n")

	hunks, err := Compute(left, right)
	require.NoError(t, err)

	require.Equal(t, []Hunk{
		{Op: OpEqual, OldIndex: 0, OldLen: 1, NewIndex: 0, NewLen: 1},
		{Op: OpReplace, OldIndex: 1, OldLen: 1, NewIndex: 1, NewLen: 1},
		{Op: OpEqual, OldIndex: 2, OldLen: 1, NewIndex: 2, NewLen: 1},
		{Op: OpInsert, OldIndex: 3, OldLen: 0, NewIndex: 3, NewLen: 1},
	}, hunks)
}

// identical files collapse to a single Equal hunk.
func TestComputePureIdentity(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString("same\n")
	}
	text := b.String()
	left := newView(t, text)
	right := newView(t, text)

	hunks, err := Compute(left, right)
	require.NoError(t, err)

	require.Len(t, hunks, 1)
	require.Equal(t, OpEqual, hunks[0].Op)
	require.Equal(t, 1000, hunks[0].OldLen)
	require.Equal(t, 1000, hunks[0].NewLen)
}

// an empty left file against a non-empty right file yields a single Insert.
func TestComputePureInsert(t *testing.T) {
	left := newView(t, "")
	right := newView(t, "X\nY\n")

	hunks, err := Compute(left, right)
	require.NoError(t, err)

	require.Equal(t, []Hunk{
		{Op: OpInsert, OldIndex: 0, OldLen: 0, NewIndex: 0, NewLen: 2},
	}, hunks)
}

// the matching lines a and c land in Equal hunks, so only b->x forms a
// one-line Replace, and ReplaceLinesCoincide reports that pair as differing.
func TestReplaceLinesCoincide(t *testing.T) {
	left := newView(t, "a\nb\nc\n")
	right := newView(t, "a\nx\nc\n")

	hunks, err := Compute(left, right)
	require.NoError(t, err)

	require.Equal(t, []Hunk{
		{Op: OpEqual, OldIndex: 0, OldLen: 1, NewIndex: 0, NewLen: 1},
		{Op: OpReplace, OldIndex: 1, OldLen: 1, NewIndex: 1, NewLen: 1},
		{Op: OpEqual, OldIndex: 2, OldLen: 1, NewIndex: 2, NewLen: 1},
	}, hunks)
	require.False(t, ReplaceLinesCoincide(left, right, hunks[1], 0))
}

func TestReplaceLinesCoincideHelper(t *testing.T) {
	left := newView(t, "a\nsame\nc\nd\n")
	right := newView(t, "a\nsame\nX\nd\n")

	hunks, err := Compute(left, right)
	require.NoError(t, err)

	var replace Hunk
	for _, h := range hunks {
		if h.Op == OpReplace {
			replace = h
		}
	}
	require.Equal(t, OpReplace, replace.Op)
	require.False(t, ReplaceLinesCoincide(left, right, replace, 0))

	// A Replace spanning lines 1-2 on both sides pairs "same" with "same" at
	// local row 0 and "c" with "X" at local row 1.
	wide := Hunk{Op: OpReplace, OldIndex: 1, OldLen: 2, NewIndex: 1, NewLen: 2}
	require.True(t, ReplaceLinesCoincide(left, right, wide, 0))
	require.False(t, ReplaceLinesCoincide(left, right, wide, 1))
}

// every produced hunk set partitions both files exactly, with no two Equal
// hunks adjacent, across a handful of edited cases.
func TestComputePartitionInvariant(t *testing.T) {
	cases := []struct{ left, right string }{
		{"", ""},
		{"a\n", ""},
		{"", "a\n"},
		{"a\nb\nc\n", "a\nb\nc\n"},
		{"a\nb\nc\n", "x\ny\nz\n"},
		{"a\nb\nc\nd\ne\n", "a\nB\nc\nD\ne\nf\n"},
	}
	for _, c := range cases {
		left := newView(t, c.left)
		right := newView(t, c.right)
		hunks, err := Compute(left, right)
		require.NoError(t, err)

		oldSum, newSum := 0, 0
		for i, h := range hunks {
			oldSum += h.OldLen
			newSum += h.NewLen
			if i > 0 {
				require.False(t, hunks[i-1].Op == OpEqual && h.Op == OpEqual, "adjacent Equal hunks")
			}
		}
		require.Equal(t, left.LineCount(), oldSum)
		require.Equal(t, right.LineCount(), newSum)
	}
}

func TestDisplayLen(t *testing.T) {
	require.Equal(t, 3, Hunk{Op: OpEqual, OldLen: 3, NewLen: 3}.DisplayLen())
	require.Equal(t, 4, Hunk{Op: OpDelete, OldLen: 4}.DisplayLen())
	require.Equal(t, 5, Hunk{Op: OpInsert, NewLen: 5}.DisplayLen())
	require.Equal(t, 7, Hunk{Op: OpReplace, OldLen: 7, NewLen: 2}.DisplayLen())
	require.Equal(t, 7, Hunk{Op: OpReplace, OldLen: 2, NewLen: 7}.DisplayLen())
}
