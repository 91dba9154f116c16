package recipe2pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-recipe2pdf/internal/fileutil"
	"github.com/alnah/go-recipe2pdf/internal/layout"
)

// Page size constants.
const (
	PageSizeLetter = layout.SizeLetter
	PageSizeA4     = layout.SizeA4
	PageSizeLegal  = layout.SizeLegal
)

// Orientation constants.
const (
	OrientationPortrait  = layout.Portrait
	OrientationLandscape = layout.Landscape
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// pointsPerInch converts margins to PDF units.
const pointsPerInch = 72.0

// Export defaults.
const (
	DefaultArchiveName = "all-recipes.json"
	DefaultOutputDir   = "recipe-pdfs"
	Unlimited          = -1
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// pdfOptions converts page settings to canvas options.
func (p *PageSettings) pdfOptions(title string) layout.PDFOptions {
	return layout.PDFOptions{
		Size:        strings.ToLower(p.Size),
		Orientation: strings.ToLower(p.Orientation),
		Margin:      p.Margin * pointsPerInch,
		Title:       title,
		Creator:     "go-recipe2pdf",
	}
}

// pageBox returns the page geometry without creating a document.
func (p *PageSettings) pageBox() layout.PageBox {
	w, h := layout.PageDimensions(p.Size, p.Orientation)
	m := p.Margin * pointsPerInch
	return layout.PageBox{Width: w, Height: h, Left: m, Top: m, Right: m, Bottom: m}
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// ExportOptions controls what an export run produces.
type ExportOptions struct {
	GenerateDocuments bool   // render one PDF per selected recipe
	MaxDocuments      int    // first N recipes only; <= 0 means all
	ArchiveName       string // archive file name inside the output directory
	Outline           bool   // also write a "<name>.txt" text outline per recipe
}

// DefaultExportOptions returns options that render every recipe.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		GenerateDocuments: true,
		MaxDocuments:      Unlimited,
		ArchiveName:       DefaultArchiveName,
	}
}

// Validate checks that the archive name is a plain file name.
func (o ExportOptions) Validate() error {
	name := o.ArchiveName
	if name == "" || fileutil.SanitizeFilename(name) != name || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidArchiveName, name)
	}
	return nil
}

// selectCount returns how many of total recipes are rendered.
func (o ExportOptions) selectCount(total int) int {
	if o.MaxDocuments > 0 && o.MaxDocuments < total {
		return o.MaxDocuments
	}
	return total
}

// RecipeSource provides the recipe collection.
type RecipeSource interface {
	// Login authenticates the session.
	Login(ctx context.Context) error
	// Recipes returns every recipe record, in service order.
	Recipes(ctx context.Context) ([]Recipe, error)
	// Teardown ends the session. It is called once after a successful Login.
	Teardown(ctx context.Context) error
}

// BlobFetcher downloads binary objects. Any non-200 response is an error.
type BlobFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FileSink stores export output in one directory.
type FileSink interface {
	// MkdirAll creates the directory. It is idempotent.
	MkdirAll() error
	// WriteFile stores data under name and returns the written path.
	// A failed write leaves no partial file.
	WriteFile(name string, data []byte) (string, error)
}
