package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/resolve"
	"github.com/sidefold/sidefold/internal/viewmap"
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

func TestWindowEqualHunkShowsBothLineNumbers(t *testing.T) {
	left := newView(t, "A\nB\nC\n")
	right := newView(t, "A\nB\nC\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	prefix := viewmap.BuildRowIndex(hunks)
	res := resolve.NewVector(len(hunks))

	rows := Window(left, right, hunks, prefix, res, -1, 0, 3, 40, DefaultTheme())
	require.Len(t, rows, 3)
	require.Equal(t, 1, rows[0].Left.LineNo)
	require.Equal(t, 1, rows[0].Right.LineNo)
}

func TestWindowDeleteHunkLeavesRightBlank(t *testing.T) {
	left := newView(t, "A\nB\n")
	right := newView(t, "A\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	prefix := viewmap.BuildRowIndex(hunks)
	res := resolve.NewVector(len(hunks))

	rows := Window(left, right, hunks, prefix, res, -1, 0, 2, 40, DefaultTheme())
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[1].Left.LineNo)
	require.Equal(t, 0, rows[1].Right.LineNo)
}

func TestWindowReplaceCoincidentLineNeutral(t *testing.T) {
	left := newView(t, "a\nsame\nc\n")
	right := newView(t, "a\nsame\nX\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)

	var replace diffcore.Hunk
	for _, h := range hunks {
		if h.Op == diffcore.OpReplace {
			replace = h
		}
	}
	require.Equal(t, diffcore.OpReplace, replace.Op)

	// A Replace spanning lines 1-2 pairs "same" with "same" at local row 0;
	// that row renders neutral while the differing row keeps its styling.
	hunks = []diffcore.Hunk{
		{Op: diffcore.OpEqual, OldIndex: 0, OldLen: 1, NewIndex: 0, NewLen: 1},
		{Op: diffcore.OpReplace, OldIndex: 1, OldLen: 2, NewIndex: 1, NewLen: 2},
	}
	theme := DefaultTheme()
	rows := Window(left, right, hunks, viewmap.BuildRowIndex(hunks), resolve.NewVector(len(hunks)), -1, 0, 3, 40, theme)
	require.Len(t, rows, 3)
	require.Equal(t, theme.Neutral.Wrap("same"), rows[1].Left.Text)
	require.Equal(t, theme.Neutral.Wrap("same"), rows[1].Right.Text)
	require.Equal(t, theme.Removed.Wrap("c"), rows[2].Left.Text)
	require.Equal(t, theme.Added.Wrap("X"), rows[2].Right.Text)
}

func TestWindowRespectsScrollOffsetAndHeight(t *testing.T) {
	left := newView(t, "1\n2\n3\n4\n5\n")
	right := newView(t, "1\n2\n3\n4\n5\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	prefix := viewmap.BuildRowIndex(hunks)
	res := resolve.NewVector(len(hunks))

	rows := Window(left, right, hunks, prefix, res, -1, 2, 2, 40, DefaultTheme())
	require.Len(t, rows, 2)
	require.Equal(t, 3, rows[0].Left.LineNo)
	require.Equal(t, 4, rows[1].Left.LineNo)
}

func TestFormatGutterBlankWhenNoLine(t *testing.T) {
	require.Equal(t, "    ", FormatGutter(0, 4))
	require.Equal(t, "  12", FormatGutter(12, 4))
	require.Equal(t, "12345", FormatGutter(12345, 3))
}
