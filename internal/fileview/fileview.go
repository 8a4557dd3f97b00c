// Package fileview provides a thin, allocation-free line-addressable window
// over a content.Source's bytes, keyed by the offset array lineindex.Build
// produces. No line is ever copied out into its own string until a caller
// asks for one; until then the view is just two slices and an offset array,
// which is what lets sidefold open a multi-hundred-megabyte file without a
// proportional up-front allocation.
package fileview

import (
	"github.com/sidefold/sidefold/internal/content"
	"github.com/sidefold/sidefold/internal/lineindex"
)

// FileView is a read-only, line-addressable view over a loaded file.
type FileView struct {
	src     *content.Source
	offsets []int64
}

// New builds a FileView over src, computing its line index. The returned
// FileView does not take ownership of src; callers remain responsible for
// calling src.Close() once every view over it is done.
func New(src *content.Source) *FileView {
	return &FileView{src: src, offsets: lineindex.Build(src.Data)}
}

// LineCount returns the number of lines in the view (L in spec terms).
func (v *FileView) LineCount() int {
	return lineindex.LineCount(v.offsets)
}

// Line returns the raw bytes of the i'th line (0-indexed), excluding its
// trailing newline if one is present. The returned slice aliases the
// underlying source and must not be retained past the source's lifetime.
func (v *FileView) Line(i int) []byte {
	start, end := v.lineBounds(i)
	line := v.src.Data[start:end]
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line
}

// LineString is Line with a string conversion; this does copy, since Go
// strings are immutable and cannot alias a mutable byte slice safely across
// the mmap unmap boundary.
func (v *FileView) LineString(i int) string {
	return string(v.Line(i))
}

// ByteRange returns the raw bytes spanning the half-open line range
// [startLine, endLine), including every newline within it but not decoding or
// copying anything -- this is what the merge writer uses to copy whole hunks
// byte-for-byte.
func (v *FileView) ByteRange(startLine, endLine int) []byte {
	if startLine >= endLine {
		return nil
	}
	start := v.offsets[startLine]
	end := v.offsets[endLine]
	return v.src.Data[start:end]
}

// Bytes returns the view's full underlying byte slice.
func (v *FileView) Bytes() []byte {
	return v.src.Data
}

// Mapped reports whether the underlying source is memory-mapped rather than
// heap-resident.
func (v *FileView) Mapped() bool {
	return v.src.Mapped
}

// Source returns the content.Source backing this view, so callers can
// inspect load-time bookkeeping (e.g. whether JSON pretty-print fired)
// without the view itself growing flags for every content.Source field.
func (v *FileView) Source() *content.Source {
	return v.src
}

func (v *FileView) lineBounds(i int) (int64, int64) {
	return v.offsets[i], v.offsets[i+1]
}
