// Package layout provides cursor-based document layout over an append-only canvas.
//
// A Canvas is a single-pass page surface: content is appended at the cursor
// and never rewritten. Context sits on top of a Canvas and owns the explicit
// layout state that section renderers share: the style stack, the line gap,
// and any region reserved beside a floated image.
package layout

import (
	"errors"
	"io"
)

// ErrCanvasClosed is returned when drawing on a canvas that was already finished.
var ErrCanvasClosed = errors.New("canvas already finished")

// Align is a horizontal text alignment.
type Align string

// Alignment values understood by Canvas.Block.
const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// PageBox describes page dimensions and margins in points.
type PageBox struct {
	Width, Height            float64
	Left, Top, Right, Bottom float64
}

// ContentRight returns the x coordinate of the right margin.
func (p PageBox) ContentRight() float64 {
	return p.Width - p.Right
}

// ContentWidth returns the width between the left and right margins.
func (p PageBox) ContentWidth() float64 {
	return p.Width - p.Left - p.Right
}

// Image is an encoded picture ready to embed.
type Image struct {
	Name string // unique key within one document
	Type string // "JPG", "PNG" or "GIF"
	Data []byte
}

// Canvas is an append-only page surface with a vertical cursor.
type Canvas interface {
	// Page returns the page geometry.
	Page() PageBox
	// PageNo returns the current 1-based page number.
	PageNo() int
	// Y returns the cursor's vertical position on the current page.
	Y() float64
	// SetY moves the cursor to the left margin at y.
	SetY(y float64)
	// SetRightMargin changes where text wraps.
	SetRightMargin(right float64)
	// SetStyle sets the style used by following Write and Block calls.
	SetStyle(s Style)
	// Write appends text inline at the cursor, wrapping at the right margin.
	Write(lineHeight float64, text string)
	// Block appends a wrapped paragraph and moves the cursor below it.
	Block(lineHeight float64, text string, align Align)
	// NewLine moves the cursor to the left margin, h points lower.
	NewLine(h float64)
	// DrawImage places img at (x, y) scaled to w x h without moving the cursor.
	DrawImage(img Image, x, y, w, h float64)
	// Err returns the first drawing error, if any.
	Err() error
	// Finish finalizes the document and writes it to w. The canvas is unusable afterwards.
	Finish(w io.Writer) error
}
