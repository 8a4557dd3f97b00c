package termformat

import "strings"

// ANSIReset is the SGR reset sequence.
const ANSIReset = "\x1b[0m"

// Style is a combination of SGR attributes applied to a run of text.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Dim        bool
	Reverse    bool
}

// IsZero reports whether the style changes nothing.
func (s Style) IsZero() bool {
	return s.Foreground.IsZero() && s.Background.IsZero() && !s.Bold && !s.Dim && !s.Reverse
}

func (s Style) sgrParams() []string {
	var params []string
	if s.Bold {
		params = append(params, "1")
	}
	if s.Dim {
		params = append(params, "2")
	}
	if s.Reverse {
		params = append(params, "7")
	}
	if fg := s.Foreground.sgrForeground(); fg != "" {
		params = append(params, fg)
	}
	if bg := s.Background.sgrBackground(); bg != "" {
		params = append(params, bg)
	}
	return params
}

// Wrap returns text surrounded by this style's SGR sequence and a trailing
// reset. If the style is zero-valued, text is returned unchanged.
func (s Style) Wrap(text string) string {
	if s.IsZero() || text == "" {
		return text
	}
	params := s.sgrParams()
	if len(params) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString("\x1b[")
	b.WriteString(strings.Join(params, ";"))
	b.WriteByte('m')
	b.WriteString(text)
	b.WriteString(ANSIReset)
	return b.String()
}
