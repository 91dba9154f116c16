package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ErrPDFOutput indicates the PDF document could not be produced.
var ErrPDFOutput = errors.New("PDF output failed")

// Page size names accepted by NewPDF.
const (
	SizeLetter = "letter"
	SizeA4     = "a4"
	SizeLegal  = "legal"
)

// Orientation names accepted by NewPDF.
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// PDFOptions configures a PDF canvas.
type PDFOptions struct {
	Size        string  // letter, a4, legal (default letter)
	Orientation string  // portrait, landscape (default portrait)
	Margin      float64 // points, applied to all sides
	Title       string  // document metadata
	Creator     string  // document metadata
}

// PDF is a Canvas backed by fpdf. Text uses the core fonts, so UTF-8 input
// is translated to cp1252; characters outside it are replaced.
type PDF struct {
	doc       *fpdf.Fpdf
	box       PageBox
	translate func(string) string
	images    map[string]bool
	link      string
	finished  bool
}

// NewPDF creates a PDF canvas with one empty page.
func NewPDF(opts PDFOptions) *PDF {
	doc := fpdf.New(orientationCode(opts.Orientation), "pt", sizeName(opts.Size), "")
	doc.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	doc.SetAutoPageBreak(true, opts.Margin)
	doc.SetCompression(true)
	if opts.Title != "" {
		doc.SetTitle(opts.Title, true)
	}
	if opts.Creator != "" {
		doc.SetCreator(opts.Creator, true)
	}
	doc.AddPage()

	w, h := doc.GetPageSize()
	return &PDF{
		doc: doc,
		box: PageBox{
			Width: w, Height: h,
			Left: opts.Margin, Top: opts.Margin, Right: opts.Margin, Bottom: opts.Margin,
		},
		translate: doc.UnicodeTranslatorFromDescriptor(""),
		images:    make(map[string]bool),
	}
}

// Page returns the configured page geometry. Temporary right-margin changes
// made with SetRightMargin are not reflected.
func (p *PDF) Page() PageBox { return p.box }

// PageNo returns the current page number.
func (p *PDF) PageNo() int { return p.doc.PageNo() }

// Y returns the cursor's vertical position.
func (p *PDF) Y() float64 { return p.doc.GetY() }

// SetY moves the cursor to the left margin at y.
func (p *PDF) SetY(y float64) { p.doc.SetY(y) }

// SetRightMargin changes the wrap position for following text.
func (p *PDF) SetRightMargin(right float64) { p.doc.SetRightMargin(right) }

// SetStyle selects font, size and color.
func (p *PDF) SetStyle(s Style) {
	family := s.Family
	if family == "" {
		family = "Helvetica"
	}
	p.doc.SetFont(family, s.FontStyle(), s.Size)
	p.doc.SetTextColor(s.Color.R, s.Color.G, s.Color.B)
	p.link = s.Link
}

// Write appends text inline, as a hyperlink when the current style has one.
func (p *PDF) Write(lineHeight float64, text string) {
	if text == "" {
		return
	}
	if p.link != "" {
		p.doc.WriteLinkString(lineHeight, p.translate(text), p.link)
		return
	}
	p.doc.Write(lineHeight, p.translate(text))
}

// Block appends a wrapped paragraph spanning the text column.
func (p *PDF) Block(lineHeight float64, text string, align Align) {
	p.doc.MultiCell(0, lineHeight, p.translate(text), "", string(align), false)
}

// NewLine moves the cursor to the next line.
func (p *PDF) NewLine(h float64) { p.doc.Ln(h) }

// DrawImage embeds img once per document and draws it at (x, y).
func (p *PDF) DrawImage(img Image, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: img.Type}
	if !p.images[img.Name] {
		p.doc.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		p.images[img.Name] = true
	}
	p.doc.ImageOptions(img.Name, x, y, w, h, false, opts, 0, "")
}

// Err returns the first fpdf error.
func (p *PDF) Err() error {
	if p.finished {
		return ErrCanvasClosed
	}
	if p.doc.Err() {
		return fmt.Errorf("%w: %v", ErrPDFOutput, p.doc.Error())
	}
	return nil
}

// Finish closes the document and writes it to w.
func (p *PDF) Finish(w io.Writer) error {
	if p.finished {
		return ErrCanvasClosed
	}
	p.finished = true
	if err := p.doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFOutput, err)
	}
	return nil
}

// pageSizes holds portrait dimensions in points.
var pageSizes = map[string][2]float64{
	SizeLetter: {612, 792},
	SizeA4:     {595.28, 841.89},
	SizeLegal:  {612, 1008},
}

// PageDimensions returns the width and height in points of a named page
// size, letter when the name is unknown.
func PageDimensions(size, orientation string) (width, height float64) {
	dims, ok := pageSizes[strings.ToLower(size)]
	if !ok {
		dims = pageSizes[SizeLetter]
	}
	if orientationCode(orientation) == "L" {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

// sizeName maps page size names to fpdf size strings.
func sizeName(size string) string {
	switch strings.ToLower(size) {
	case SizeA4:
		return "A4"
	case SizeLegal:
		return "Legal"
	default:
		return "Letter"
	}
}

// orientationCode maps orientation names to fpdf orientation codes.
func orientationCode(orientation string) string {
	if strings.ToLower(orientation) == Landscape {
		return "L"
	}
	return "P"
}
