package merge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/diffcore"
	"github.com/sidefold/sidefold/internal/fileview"
	"github.com/sidefold/sidefold/internal/resolve"
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

// small edit, checked with every hunk unresolved, with the Replace picked
// right, and with the Replace kept both ways plus the trailing Insert picked
// right.
func TestWriteSmallEditScenarios(t *testing.T) {
	left := newView(t, "A\nB\nC\n")
	right := newView(t, "A\nMOD\nC\nD\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	require.Len(t, hunks, 4)

	t.Run("all unresolved", func(t *testing.T) {
		var buf bytes.Buffer
		res := resolve.NewVector(len(hunks))
		require.NoError(t, Write(&buf, left, right, hunks, res))
		require.Equal(t, "A\nB\nC\n", buf.String())
	})

	t.Run("replace picked right", func(t *testing.T) {
		var buf bytes.Buffer
		res := resolve.NewVector(len(hunks))
		res[1] = resolve.PickRight
		require.NoError(t, Write(&buf, left, right, hunks, res))
		require.Equal(t, "A\nMOD\nC\n", buf.String())
	})

	t.Run("replace both, insert right", func(t *testing.T) {
		var buf bytes.Buffer
		res := resolve.NewVector(len(hunks))
		res[1] = resolve.PickBoth
		res[3] = resolve.PickRight
		require.NoError(t, Write(&buf, left, right, hunks, res))
		require.Equal(t, "A\nB\nMOD\nC\nD\n", buf.String())
	})
}

// with every hunk left Unresolved, the output equals the left file verbatim.
func TestWriteRoundTripIdentity(t *testing.T) {
	cases := []struct{ left, right string }{
		{"a\nb\nc\n", "a\nb\nc\n"},
		{"a\nb\nc\n", "x\ny\nz\n"},
		{"", "a\nb\n"},
		{"a\nb\n", ""},
		{"a\nb\nc\nd\n", "a\nB\nc\nD\ne\n"},
	}
	for _, c := range cases {
		left := newView(t, c.left)
		right := newView(t, c.right)
		hunks, err := diffcore.Compute(left, right)
		require.NoError(t, err)
		res := resolve.NewVector(len(hunks))

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, left, right, hunks, res))
		require.Equal(t, c.left, buf.String())
	}
}

// with every non-Equal hunk set to PickRight, the output equals the right
// file verbatim.
func TestWriteAcceptRightIdentity(t *testing.T) {
	cases := []struct{ left, right string }{
		{"a\nb\nc\n", "a\nb\nc\n"},
		{"a\nb\nc\n", "x\ny\nz\n"},
		{"", "a\nb\n"},
		{"a\nb\n", ""},
		{"a\nb\nc\nd\n", "a\nB\nc\nD\ne\n"},
	}
	for _, c := range cases {
		left := newView(t, c.left)
		right := newView(t, c.right)
		hunks, err := diffcore.Compute(left, right)
		require.NoError(t, err)
		res := resolve.NewVector(len(hunks))
		for i, h := range hunks {
			if h.Op != diffcore.OpEqual {
				res[i] = resolve.PickRight
			}
		}

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, left, right, hunks, res))
		require.Equal(t, c.right, buf.String())
	}
}

// pure insert hunk: skipped by default, written in full under PickRight.
func TestWritePureInsert(t *testing.T) {
	left := newView(t, "")
	right := newView(t, "X\nY\n")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	require.Len(t, hunks, 1)

	var buf bytes.Buffer
	res := resolve.NewVector(1)
	require.NoError(t, Write(&buf, left, right, hunks, res))
	require.Equal(t, "", buf.String())

	buf.Reset()
	res[0] = resolve.PickRight
	require.NoError(t, Write(&buf, left, right, hunks, res))
	require.Equal(t, "X\nY\n", buf.String())
}

func TestWritePreservesMissingTrailingNewline(t *testing.T) {
	left := newView(t, "a\nb")
	right := newView(t, "a\nB")
	hunks, err := diffcore.Compute(left, right)
	require.NoError(t, err)
	res := resolve.NewVector(len(hunks))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, left, right, hunks, res))
	require.Equal(t, "a\nb", buf.String())
}
