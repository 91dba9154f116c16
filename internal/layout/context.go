package layout

import "strings"

// DefaultGap is the vertical space inserted after a section, in points.
const DefaultGap = 12.0

// lineHeightFactor converts a font size into a line height.
const lineHeightFactor = 1.25

// floatGutter separates floated content from the text beside it.
const floatGutter = 10.0

// minTextWidth is the narrowest text column left beside a floated image.
// Narrower columns are not worth wrapping into; text then spans the page.
const minTextWidth = 72.0

// Context holds the explicit layout state for one document: the canvas,
// a style stack, the section gap, and the region reserved by a floated image.
// A Context is used for a single document and must not be shared.
type Context struct {
	canvas Canvas
	stack  []Style
	gap    float64
	float  *floatRegion
}

// floatRegion is the area to the right of the text column taken by an image.
type floatRegion struct {
	page   int
	bottom float64
}

// NewContext returns a Context drawing on canvas with base as the initial style.
// A gap <= 0 selects DefaultGap.
func NewContext(canvas Canvas, base Style, gap float64) *Context {
	if gap <= 0 {
		gap = DefaultGap
	}
	c := &Context{
		canvas: canvas,
		stack:  []Style{base},
		gap:    gap,
	}
	canvas.SetStyle(base)
	return c
}

// Page returns the page geometry.
func (c *Context) Page() PageBox {
	return c.canvas.Page()
}

// Y returns the cursor's vertical position.
func (c *Context) Y() float64 {
	return c.canvas.Y()
}

// SetY moves the cursor to the left margin at y.
func (c *Context) SetY(y float64) {
	c.canvas.SetY(y)
}

// Style returns the style on top of the stack.
func (c *Context) Style() Style {
	return c.stack[len(c.stack)-1]
}

// Push makes s the current style until the matching Pop.
func (c *Context) Push(s Style) {
	c.stack = append(c.stack, s)
	c.canvas.SetStyle(s)
}

// Pop restores the style that was current before the last Push.
// The base style is never popped.
func (c *Context) Pop() {
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
	}
	c.canvas.SetStyle(c.Style())
}

// With runs fn with s pushed and pops it afterwards.
func (c *Context) With(s Style, fn func() error) error {
	c.Push(s)
	defer c.Pop()
	return fn()
}

// LineHeight returns the line height for the current style.
func (c *Context) LineHeight() float64 {
	return lineHeight(c.Style())
}

// Line writes runs on one logical line, wrapping as needed, then moves to
// the next line. Runs keep their own style; the current style is restored.
func (c *Context) Line(runs ...Run) {
	c.releaseFloat()

	h := c.LineHeight()
	for _, r := range runs {
		if rh := lineHeight(r.Style); rh > h {
			h = rh
		}
	}

	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		c.canvas.SetStyle(r.Style)
		c.canvas.Write(h, r.Text)
	}
	c.canvas.SetStyle(c.Style())
	c.canvas.NewLine(h)
}

// Text writes text as one line in the current style.
func (c *Context) Text(text string) {
	c.Line(Run{Text: text, Style: c.Style()})
}

// Paragraph writes text that may contain newlines, one Line per input line.
func (c *Context) Paragraph(text string) {
	for _, line := range strings.Split(text, "\n") {
		c.Text(line)
	}
}

// Block writes a wrapped, aligned paragraph in the current style.
func (c *Context) Block(text string, align Align) {
	c.releaseFloat()
	c.canvas.Block(c.LineHeight(), text, align)
}

// Gap advances the cursor by the section gap.
func (c *Context) Gap() {
	c.canvas.NewLine(c.gap)
}

// HalfGap advances the cursor by half the section gap.
func (c *Context) HalfGap() {
	c.canvas.NewLine(c.gap / 2)
}

// FloatRight draws img right-aligned against the right margin with its top
// at y, then returns the cursor to y. Until the cursor passes the image
// bottom (or a new page starts), text wraps before the image's left edge.
func (c *Context) FloatRight(img Image, y, w, h float64) {
	page := c.canvas.Page()
	x := page.ContentRight() - w

	c.canvas.DrawImage(img, x, y, w, h)
	c.canvas.SetY(y)

	right := page.Width - x + floatGutter
	if page.Width-page.Left-right < minTextWidth {
		return
	}
	c.canvas.SetRightMargin(right)
	c.float = &floatRegion{page: c.canvas.PageNo(), bottom: y + h}
}

// Err returns the first canvas error.
func (c *Context) Err() error {
	return c.canvas.Err()
}

// releaseFloat restores the full text width once the cursor has moved past
// a floated image.
func (c *Context) releaseFloat() {
	if c.float == nil {
		return
	}
	if c.canvas.PageNo() == c.float.page && c.canvas.Y() < c.float.bottom {
		return
	}
	c.canvas.SetRightMargin(c.canvas.Page().Right)
	c.float = nil
}

func lineHeight(s Style) float64 {
	return s.Size * lineHeightFactor
}
