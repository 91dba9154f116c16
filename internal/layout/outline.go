package layout

import (
	"fmt"
	"io"
	"strings"
)

// Line is one logical line recorded by Outline.
type Line struct {
	Page  int
	Y     float64
	Align Align // set for Block lines, empty for inline lines
	Runs  []Run
}

// Text returns the line's plain text.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Placement is an image drawn on an Outline.
type Placement struct {
	Name       string
	Type       string
	Page       int
	X, Y, W, H float64
}

// Outline is a Canvas that records text runs and image placements instead of
// producing a PDF. It tracks the cursor the same way the PDF canvas does
// (without measuring text, so long lines never wrap) and Finish writes a
// plain-text outline of the document.
type Outline struct {
	box      PageBox
	page     int
	y        float64
	right    float64
	style    Style
	pending  *Line
	entries  []Line
	images   []Placement
	err      error
	finished bool
}

// NewOutline returns an Outline canvas with the given page geometry.
func NewOutline(box PageBox) *Outline {
	return &Outline{box: box, page: 1, y: box.Top, right: box.Right}
}

// Page returns the page geometry.
func (o *Outline) Page() PageBox { return o.box }

// PageNo returns the current page number.
func (o *Outline) PageNo() int { return o.page }

// Y returns the cursor's vertical position.
func (o *Outline) Y() float64 { return o.y }

// SetY flushes the pending line and moves the cursor.
func (o *Outline) SetY(y float64) {
	o.flush()
	o.y = y
}

// SetRightMargin records the wrap position.
func (o *Outline) SetRightMargin(right float64) { o.right = right }

// RightMargin returns the current wrap position.
func (o *Outline) RightMargin() float64 { return o.right }

// SetStyle sets the style for following runs.
func (o *Outline) SetStyle(s Style) { o.style = s }

// Write appends a run to the pending line.
func (o *Outline) Write(lineHeight float64, text string) {
	if text == "" || o.finished {
		return
	}
	if o.pending == nil {
		o.breakPage(lineHeight)
		o.pending = &Line{Page: o.page, Y: o.y}
	}
	o.pending.Runs = append(o.pending.Runs, Run{Text: text, Style: o.style})
}

// Block records an aligned paragraph and moves below it.
func (o *Outline) Block(lineHeight float64, text string, align Align) {
	if o.finished {
		return
	}
	o.flush()
	o.breakPage(lineHeight)
	o.entries = append(o.entries, Line{
		Page:  o.page,
		Y:     o.y,
		Align: align,
		Runs:  []Run{{Text: text, Style: o.style}},
	})
	o.y += lineHeight * float64(strings.Count(text, "\n")+1)
}

// NewLine ends the pending line and moves the cursor down by h.
func (o *Outline) NewLine(h float64) {
	if o.pending == nil {
		o.entries = append(o.entries, Line{Page: o.page, Y: o.y})
	}
	o.flush()
	o.y += h
}

// DrawImage records an image placement.
func (o *Outline) DrawImage(img Image, x, y, w, h float64) {
	if img.Name == "" {
		o.setErr(fmt.Errorf("image without a name at (%.1f, %.1f)", x, y))
		return
	}
	o.images = append(o.images, Placement{
		Name: img.Name, Type: img.Type, Page: o.page,
		X: x, Y: y, W: w, H: h,
	})
}

// Err returns the first recorded error.
func (o *Outline) Err() error { return o.err }

// Lines returns recorded lines that carry text, in order.
func (o *Outline) Lines() []Line {
	o.flush()
	lines := make([]Line, 0, len(o.entries))
	for _, l := range o.entries {
		if len(l.Runs) > 0 {
			lines = append(lines, l)
		}
	}
	return lines
}

// Texts returns the plain text of every recorded line.
func (o *Outline) Texts() []string {
	lines := o.Lines()
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return texts
}

// Images returns recorded image placements.
func (o *Outline) Images() []Placement {
	return o.images
}

// Finish writes the outline as text: **bold**, _italic_, [link](url),
// and one "[image ...]" line per placement.
func (o *Outline) Finish(w io.Writer) error {
	if o.finished {
		return ErrCanvasClosed
	}
	o.flush()
	o.finished = true

	var b strings.Builder
	for _, img := range o.images {
		fmt.Fprintf(&b, "[image %s %.0fx%.0f]\n", img.Name, img.W, img.H)
	}
	for _, l := range o.entries {
		for _, r := range l.Runs {
			b.WriteString(decorate(r))
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}

func (o *Outline) flush() {
	if o.pending != nil {
		o.entries = append(o.entries, *o.pending)
		o.pending = nil
	}
}

// breakPage starts a new page when a line of height h would cross the bottom margin.
func (o *Outline) breakPage(h float64) {
	if o.y+h > o.box.Height-o.box.Bottom {
		o.page++
		o.y = o.box.Top
	}
}

func (o *Outline) setErr(err error) {
	if o.err == nil {
		o.err = err
	}
}

func decorate(r Run) string {
	text := r.Text
	if strings.TrimSpace(text) == "" {
		return text
	}
	if r.Style.Italic {
		text = "_" + text + "_"
	}
	if r.Style.Bold {
		text = "**" + text + "**"
	}
	if r.Style.Link != "" {
		text = "[" + text + "](" + r.Style.Link + ")"
	}
	return text
}
