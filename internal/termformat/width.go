package termformat

import "github.com/sidefold/sidefold/internal/uni"

// TextWidthWithANSICodes returns the terminal-cell width of s, ignoring any ANSI
// escape sequences embedded in it. Used by the terminal runtime to decide whether
// a changed line needs a clear-to-end-of-line before being overwritten in place.
func TextWidthWithANSICodes(s string) int {
	width := 0
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			n := ansiSequenceLength(s[i:])
			if n == 0 {
				n = 1
			}
			i += n
			continue
		}
		nextEsc := indexByte(s[i:], '\x1b')
		segEnd := len(s)
		if nextEsc >= 0 {
			segEnd = i + nextEsc
		}
		width += uni.TextWidth(s[i:segEnd])
		i = segEnd
	}
	return width
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// ansiSequenceLength returns the byte length of the ANSI escape sequence starting
// at s (which must begin with ESC), or 0 if s does not look like a recognized
// sequence (CSI or a bare two-byte escape).
func ansiSequenceLength(s string) int {
	if len(s) < 2 || s[0] != '\x1b' {
		return 0
	}
	if s[1] != '[' {
		return 2
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if c >= '@' && c <= '~' {
			return i + 1
		}
	}
	return len(s)
}
