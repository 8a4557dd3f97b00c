// Package termformat provides small ANSI text-styling primitives: 256-color
// SGR wrapping and ANSI-aware width accounting for the terminal's
// diffed-render path.
package termformat

import "strconv"

// Color is a terminal color expressible as an ANSI 256-color palette index.
type Color struct {
	code    uint8
	isSet   bool
	useBold bool // true for "bright"/bold-as-color approximations on basic terminals
}

// RGB256 constructs a Color from a 256-color palette index (0-255).
func RGB256(code uint8) Color {
	return Color{code: code, isSet: true}
}

// IsZero reports whether c carries no color (i.e. "inherit terminal default").
func (c Color) IsZero() bool { return !c.isSet }

func (c Color) sgrForeground() string {
	if !c.isSet {
		return ""
	}
	return "38;5;" + strconv.Itoa(int(c.code))
}

func (c Color) sgrBackground() string {
	if !c.isSet {
		return ""
	}
	return "48;5;" + strconv.Itoa(int(c.code))
}

// A small palette reused across the renderer, expressed as reusable Color
// values instead of raw escape-sequence literals.
var (
	ColorBlackFG   = RGB256(16)
	ColorRemovedBG = RGB256(224) // light pink
	ColorRemovedEm = RGB256(217) // darker pink, for emphasized spans
	ColorAddedBG   = RGB256(194) // light green
	ColorAddedEm   = RGB256(114) // darker green, for emphasized spans
	ColorHeaderFG  = RGB256(51)  // cyan
	ColorDimFG     = RGB256(244) // grey, for dimmed/unselected side
	ColorSelectBG  = RGB256(24)  // steel blue, for selected-hunk gutter
)
