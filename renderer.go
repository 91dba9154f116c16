package recipe2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-recipe2pdf/internal/layout"
	"github.com/alnah/go-recipe2pdf/internal/markup"
)

// Typography.
const (
	baseFontFamily = "Helvetica"
	bodySize       = 12.0
	headingSize    = 14.0
	titleSize      = 24.0
)

// RenderResult describes one rendered document.
type RenderResult struct {
	Sections []string // names of the sections drawn, in order
	ImageErr error    // photo failure that was skipped, if any
}

// Renderer lays out recipes as PDF documents. A Renderer holds no
// per-document state and can be reused for any number of recipes.
type Renderer struct {
	page          *PageSettings
	images        *ImageResolver
	notes         *markup.Parser
	notesMarkdown bool
	location      *time.Location
	gap           float64
	logger        logrus.FieldLogger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithPageSettings sets the page size, orientation and margin.
func WithPageSettings(p *PageSettings) RendererOption {
	return func(r *Renderer) {
		if p != nil {
			r.page = p
		}
	}
}

// WithImages enables the photo section. Without a resolver recipes render
// without pictures.
func WithImages(resolver *ImageResolver) RendererOption {
	return func(r *Renderer) {
		r.images = resolver
	}
}

// WithNotesMarkdown reads note bodies as inline Markdown.
func WithNotesMarkdown(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.notesMarkdown = enabled
	}
}

// WithLocation sets the time zone used for creation dates (default time.Local).
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithGap sets the space after each section, in points.
func WithGap(points float64) RendererOption {
	return func(r *Renderer) {
		if points > 0 {
			r.gap = points
		}
	}
}

// WithRendererLogger sets the logger for skipped photos.
func WithRendererLogger(l logrus.FieldLogger) RendererOption {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a Renderer. It fails when the page settings are invalid.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		page:     DefaultPageSettings(),
		notes:    markup.NewParser(),
		location: time.Local,
		gap:      layout.DefaultGap,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.page.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Render lays out recipe as a PDF and writes it to w. Nothing is written
// when rendering fails. A photo that cannot be fetched or decoded is skipped
// and reported in RenderResult.ImageErr.
func (r *Renderer) Render(ctx context.Context, recipe *Recipe, w io.Writer) (*RenderResult, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, ErrNilRecipe)
	}
	return r.render(ctx, recipe, layout.NewPDF(r.page.pdfOptions(recipe.Name)), w)
}

// Outline runs the same layout as Render on a text canvas and writes a
// plain-text outline of the document to w.
func (r *Renderer) Outline(ctx context.Context, recipe *Recipe, w io.Writer) (*RenderResult, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, ErrNilRecipe)
	}
	return r.render(ctx, recipe, layout.NewOutline(r.page.pageBox()), w)
}

// renderState is the per-document state shared by section renderers.
type renderState struct {
	ctx    context.Context
	r      *Renderer
	lc     *layout.Context
	recipe *Recipe
	result *RenderResult
	base   layout.Style
}

func (r *Renderer) render(ctx context.Context, recipe *Recipe, canvas layout.Canvas, w io.Writer) (res *RenderResult, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: %q: panic: %v", ErrRender, recipe.Name, p)
		}
	}()

	base := layout.Style{Family: baseFontFamily, Size: bodySize, Color: layout.Black}
	st := &renderState{
		ctx:    ctx,
		r:      r,
		lc:     layout.NewContext(canvas, base, r.gap),
		recipe: recipe,
		result: &RenderResult{},
		base:   base,
	}

	for _, s := range sections {
		if !s.include(st) {
			continue
		}
		if err := s.render(st); err != nil {
			if errors.Is(err, errSkipSection) {
				continue
			}
			return nil, fmt.Errorf("%w: %s section: %v", ErrRender, s.name, err)
		}
		if !s.keepCursor {
			st.lc.Gap()
		}
		if err := st.lc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s section: %v", ErrRender, s.name, err)
		}
		st.result.Sections = append(st.result.Sections, s.name)
	}

	// Finish into memory so a failing canvas never leaves partial output in w.
	var buf bytes.Buffer
	if err := canvas.Finish(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return st.result, nil
}

// discardLogger returns a logger that drops every entry.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
