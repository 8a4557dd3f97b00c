// Package viewmap translates a scroll row into a (hunk index, local row)
// pair via a cumulative row prefix, in O(log H) using binary search over the
// prefix array.
package viewmap

import (
	"sort"

	"github.com/sidefold/sidefold/internal/diffcore"
)

// BuildRowIndex returns P, the cumulative row prefix: P[k] is the sum of
// display lengths of hunks[0:k]. len(P) == len(hunks)+1; P[len(hunks)] is the
// total row count.
func BuildRowIndex(hunks []diffcore.Hunk) []int {
	prefix := make([]int, len(hunks)+1)
	for i, h := range hunks {
		prefix[i+1] = prefix[i] + h.DisplayLen()
	}
	return prefix
}

// TotalRows returns the total number of display rows covered by prefix.
func TotalRows(prefix []int) int {
	if len(prefix) == 0 {
		return 0
	}
	return prefix[len(prefix)-1]
}

// RowToHunk maps a scroll row to the hunk it falls in and the local row
// within that hunk's display span. row must be in [0, TotalRows(prefix)).
func RowToHunk(prefix []int, row int) (hunkIdx, localRow int) {
	// sort.Search finds the first index i such that prefix[i] > row; the hunk
	// containing row is therefore i-1.
	i := sort.Search(len(prefix), func(i int) bool { return prefix[i] > row })
	hunkIdx = i - 1
	localRow = row - prefix[hunkIdx]
	return hunkIdx, localRow
}
