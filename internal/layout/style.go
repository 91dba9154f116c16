package layout

import "strings"

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// Common colors.
var (
	Black     = Color{0, 0, 0}
	LinkBlue  = Color{0, 0, 238}
	MutedGray = Color{90, 90, 90}
)

// Style describes how a run of text is drawn.
// Styles are values; the modifier methods return changed copies.
type Style struct {
	Family    string  // core font family, e.g. "Helvetica"
	Size      float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	Color     Color
	Link      string // target URL, empty for plain text
}

// Bolded returns a copy of s with bold set.
func (s Style) Bolded() Style {
	s.Bold = true
	return s
}

// Regular returns a copy of s without bold, italic or underline.
func (s Style) Regular() Style {
	s.Bold, s.Italic, s.Underline = false, false, false
	return s
}

// Italicized returns a copy of s with italic set.
func (s Style) Italicized() Style {
	s.Italic = true
	return s
}

// Sized returns a copy of s with the given font size.
func (s Style) Sized(size float64) Style {
	s.Size = size
	return s
}

// Colored returns a copy of s with the given color.
func (s Style) Colored(c Color) Style {
	s.Color = c
	return s
}

// Linked returns a copy of s pointing at url, underlined and in link color.
func (s Style) Linked(url string) Style {
	s.Link = url
	s.Underline = true
	s.Color = LinkBlue
	return s
}

// FontStyle returns the fpdf style string: any combination of "B", "I", "U".
func (s Style) FontStyle() string {
	var b strings.Builder
	if s.Bold {
		b.WriteByte('B')
	}
	if s.Italic {
		b.WriteByte('I')
	}
	if s.Underline {
		b.WriteByte('U')
	}
	return b.String()
}

// Run is a piece of text drawn with one style.
type Run struct {
	Text  string
	Style Style
}
