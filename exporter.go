package recipe2pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-recipe2pdf/internal/dateutil"
	"github.com/alnah/go-recipe2pdf/internal/fileutil"
)

// Output file extensions.
const (
	documentExt = ".pdf"
	outlineExt  = ".txt"
)

// Outcome is the result of exporting one recipe.
type Outcome struct {
	Name     string        // recipe name
	Path     string        // written PDF, empty on failure
	Err      error         // render or write failure
	ImageErr error         // skipped photo, the document was still written
	Duration time.Duration // time spent on this recipe
}

// Report summarizes an export run.
type Report struct {
	RunID    string
	Total    int    // recipes retrieved
	Selected int    // recipes chosen for rendering
	Archive  string // archive path
	Outcomes []Outcome
}

// ResultSummary counts document outcomes.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// Summary counts succeeded and failed documents.
func (r *Report) Summary() ResultSummary {
	var s ResultSummary
	for _, o := range r.Outcomes {
		if o.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// Exporter runs one export: log in, archive every recipe, then render the
// selected recipes one at a time.
type Exporter struct {
	source   RecipeSource
	sink     FileSink
	renderer *Renderer
	opts     ExportOptions
	logger   logrus.FieldLogger
	location *time.Location
	newRunID func() string
	now      func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExportOptions sets what the run produces.
func WithExportOptions(o ExportOptions) ExporterOption {
	return func(e *Exporter) {
		e.opts = o
	}
}

// WithLogger sets the logger. Entries carry a run_id field.
func WithLogger(l logrus.FieldLogger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFileLocation sets the time zone of the date token in file names.
func WithFileLocation(loc *time.Location) ExporterOption {
	return func(e *Exporter) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewExporter creates an Exporter.
func NewExporter(source RecipeSource, sink FileSink, renderer *Renderer, opts ...ExporterOption) (*Exporter, error) {
	if source == nil || sink == nil || renderer == nil {
		return nil, fmt.Errorf("recipe2pdf: source, sink and renderer are required")
	}
	e := &Exporter{
		source:   source,
		sink:     sink,
		renderer: renderer,
		opts:     DefaultExportOptions(),
		logger:   discardLogger(),
		location: time.Local,
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Run performs the export. It returns an error only for failures that stop
// the whole run: login, listing, writing the archive, or ctx cancellation.
// Per-recipe failures are recorded in the report's outcomes.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: e.newRunID()}
	log := e.logger.WithField("run_id", report.RunID)

	if err := e.source.Login(ctx); err != nil {
		return report, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	log.Debug("Logged in to recipe service")
	defer func() {
		if tdErr := e.source.Teardown(context.WithoutCancel(ctx)); tdErr != nil {
			log.WithError(tdErr).Warn("Closing recipe service session failed")
		}
	}()

	recipes, err := e.source.Recipes(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrFetchList, err)
	}
	report.Total = len(recipes)
	log.WithField("count", report.Total).Info("Retrieved recipes")

	archive, err := MarshalArchive(recipes)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	report.Archive, err = e.sink.WriteFile(e.opts.ArchiveName, archive)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	log.WithField("file", report.Archive).Info("Wrote recipe archive")

	if e.opts.GenerateDocuments {
		if err := e.sink.MkdirAll(); err != nil {
			return report, fmt.Errorf("%w: %v", ErrWriteDocument, err)
		}
		selected := recipes[:e.opts.selectCount(len(recipes))]
		report.Selected = len(selected)

		for i := range selected {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			outcome := e.exportOne(ctx, log, &selected[i])
			report.Outcomes = append(report.Outcomes, outcome)
		}
	}

	summary := report.Summary()
	log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	}).Infof("Processed %d recipes", report.Total)
	return report, nil
}

// exportOne renders and writes one recipe. Failures are returned in the Outcome.
func (e *Exporter) exportOne(ctx context.Context, log logrus.FieldLogger, recipe *Recipe) (out Outcome) {
	start := e.now()
	out.Name = recipe.Name
	log = log.WithField("recipe", recipe.Name)
	defer func() { out.Duration = e.now().Sub(start) }()

	token := dateutil.FormatCreated(recipe.CreationTimestamp, e.location).FileToken
	name, err := fileutil.OutputName(token, recipe.Name, recipe.Identifier, documentExt)
	if err != nil {
		out.Err = fmt.Errorf("%w: %v", ErrWriteDocument, err)
		log.WithError(out.Err).Error("Failed to name recipe document")
		return out
	}
	log = log.WithField("file", name)

	var buf bytes.Buffer
	result, err := e.renderer.Render(ctx, recipe, &buf)
	if err != nil {
		out.Err = err
		log.WithError(err).Error("Failed to render recipe")
		return out
	}
	out.ImageErr = result.ImageErr

	out.Path, err = e.sink.WriteFile(name, buf.Bytes())
	if err != nil {
		out.Err = fmt.Errorf("%w: %v", ErrWriteDocument, err)
		log.WithError(out.Err).Error("Failed to write recipe document")
		return out
	}

	if e.opts.Outline {
		e.writeOutline(ctx, log, recipe, name)
	}

	log.WithField("sections", len(result.Sections)).Info("Wrote recipe document")
	return out
}

// writeOutline writes the text outline next to the PDF. Failures are logged only.
func (e *Exporter) writeOutline(ctx context.Context, log logrus.FieldLogger, recipe *Recipe, pdfName string) {
	var buf bytes.Buffer
	if _, err := e.renderer.Outline(ctx, recipe, &buf); err != nil {
		log.WithError(err).Warn("Failed to render recipe outline")
		return
	}
	name := pdfName[:len(pdfName)-len(documentExt)] + outlineExt
	if _, err := e.sink.WriteFile(name, buf.Bytes()); err != nil {
		log.WithError(err).Warn("Failed to write recipe outline")
	}
}
