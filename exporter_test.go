package recipe2pdf

// Notes:
// - The exporter runs against fakeSource and memSink; documents are real
//   PDFs produced by the renderer.
// - Log assertions use logrus' test hook and look entries up by message.

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeRecipes() []Recipe {
	return []Recipe{
		{Identifier: "r1", Name: "Pie", CreationTimestamp: march14},
		{Identifier: "r2", Name: "Soup/Stew"},
		{Identifier: "r3", Name: "Salad"},
	}
}

type exporterFixture struct {
	source *fakeSource
	sink   *memSink
	hook   *test.Hook
	exp    *Exporter
}

func newExporterFixture(t *testing.T, recipes []Recipe, opts ExportOptions) *exporterFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &exporterFixture{
		source: &fakeSource{recipes: recipes},
		sink:   newMemSink(),
		hook:   hook,
	}
	exp, err := NewExporter(f.source, f.sink, newTestRenderer(t),
		WithExportOptions(opts),
		WithLogger(logger),
		WithFileLocation(time.UTC),
	)
	require.NoError(t, err)
	f.exp = exp
	return f
}

func (f *exporterFixture) entry(msg string) *logrus.Entry {
	for _, e := range f.hook.AllEntries() {
		if e.Message == msg {
			return e
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestExporter_MaxDocuments(t *testing.T) {
	t.Parallel()

	opts := DefaultExportOptions()
	opts.MaxDocuments = 2
	f := newExporterFixture(t, threeRecipes(), opts)

	report, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"03-14-2021 - Pie.pdf", "Soup-Stew.pdf"}, f.sink.names(".pdf"))

	archived, err := DecodeRecipes(f.sink.files[DefaultArchiveName])
	require.NoError(t, err)
	assert.Len(t, archived, 3)
	assert.Equal(t, DefaultArchiveName, f.sink.order[0], "archive written before any document")

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Selected)
	assert.Equal(t, "out/"+DefaultArchiveName, report.Archive)
	assert.Equal(t, ResultSummary{Succeeded: 2}, report.Summary())
	assert.NotEmpty(t, report.RunID)

	processed := f.entry("Processed 3 recipes")
	require.NotNil(t, processed)
	assert.Equal(t, report.RunID, processed.Data["run_id"])

	assert.True(t, f.source.loginCalled)
	assert.Equal(t, 1, f.source.teardownCalled)
	assert.Equal(t, 1, f.sink.mkdirs)
}

func TestExporter_Outcomes(t *testing.T) {
	t.Parallel()

	f := newExporterFixture(t, threeRecipes(), DefaultExportOptions())

	report, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 3)
	for i, o := range report.Outcomes {
		assert.Equal(t, threeRecipes()[i].Name, o.Name)
		assert.NoError(t, o.Err)
		assert.NotEmpty(t, o.Path)
		assert.GreaterOrEqual(t, o.Duration, time.Duration(0))
	}

	wrote := f.entry("Wrote recipe document")
	require.NotNil(t, wrote)
	assert.Equal(t, "Pie", wrote.Data["recipe"])
	assert.Equal(t, "03-14-2021 - Pie.pdf", wrote.Data["file"])
}

func TestExporter_ArchiveOnly(t *testing.T) {
	t.Parallel()

	opts := DefaultExportOptions()
	opts.GenerateDocuments = false
	f := newExporterFixture(t, threeRecipes(), opts)

	report, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, f.sink.names(".pdf"))
	assert.Contains(t, f.sink.files, DefaultArchiveName)
	assert.Zero(t, f.sink.mkdirs)
	assert.Zero(t, report.Selected)
	assert.NotNil(t, f.entry("Processed 3 recipes"))
}

func TestExporter_EmptyCollection(t *testing.T) {
	t.Parallel()

	f := newExporterFixture(t, []Recipe{}, DefaultExportOptions())

	report, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, string(f.sink.files[DefaultArchiveName]))
	assert.Empty(t, report.Outcomes)
	assert.NotNil(t, f.entry("Processed 0 recipes"))
}

func TestExporter_OutlineFiles(t *testing.T) {
	t.Parallel()

	opts := DefaultExportOptions()
	opts.Outline = true
	opts.MaxDocuments = 1
	f := newExporterFixture(t, threeRecipes(), opts)

	_, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"03-14-2021 - Pie.txt"}, f.sink.names(".txt"))
	assert.Contains(t, string(f.sink.files["03-14-2021 - Pie.txt"]), "**Pie**")
}

func TestExporter_CustomArchiveName(t *testing.T) {
	t.Parallel()

	opts := DefaultExportOptions()
	opts.ArchiveName = "backup.json"
	f := newExporterFixture(t, threeRecipes(), opts)

	_, err := f.exp.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, f.sink.files, "backup.json")
}

// ---------------------------------------------------------------------------
// Fatal errors
// ---------------------------------------------------------------------------

func TestExporter_FatalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		setup        func(*exporterFixture)
		wantErr      error
		wantTeardown int
	}{
		{
			name:         "login fails",
			setup:        func(f *exporterFixture) { f.source.loginErr = errors.New("bad password") },
			wantErr:      ErrAuth,
			wantTeardown: 0,
		},
		{
			name:         "listing fails",
			setup:        func(f *exporterFixture) { f.source.recipesErr = errors.New("HTTP 500") },
			wantErr:      ErrFetchList,
			wantTeardown: 1,
		},
		{
			name:         "archive write fails",
			setup:        func(f *exporterFixture) { f.sink.failNames[DefaultArchiveName] = errors.New("disk full") },
			wantErr:      ErrWriteArchive,
			wantTeardown: 1,
		},
		{
			name:         "output directory fails",
			setup:        func(f *exporterFixture) { f.sink.mkdirErr = errors.New("permission denied") },
			wantErr:      ErrWriteDocument,
			wantTeardown: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newExporterFixture(t, threeRecipes(), DefaultExportOptions())
			tt.setup(f)

			_, err := f.exp.Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.sink.names(".pdf"), "nothing rendered")
			assert.Equal(t, tt.wantTeardown, f.source.teardownCalled)
		})
	}
}

func TestExporter_TeardownErrorIsLogged(t *testing.T) {
	t.Parallel()

	f := newExporterFixture(t, threeRecipes(), DefaultExportOptions())
	f.source.teardownErr = errors.New("connection reset")

	_, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	entry := f.entry("Closing recipe service session failed")
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
}

func TestExporter_CanceledBetweenRecipes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	f := newExporterFixture(t, threeRecipes(), DefaultExportOptions())
	f.exp.newRunID = func() string {
		cancel()
		return "run-1"
	}

	report, err := f.exp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 1, f.source.teardownCalled)
}

// ---------------------------------------------------------------------------
// Recoverable errors
// ---------------------------------------------------------------------------

func TestExporter_DocumentWriteFailureContinues(t *testing.T) {
	t.Parallel()

	f := newExporterFixture(t, threeRecipes(), DefaultExportOptions())
	f.sink.failNames["Soup-Stew.pdf"] = errors.New("disk full")

	report, err := f.exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"03-14-2021 - Pie.pdf", "Salad.pdf"}, f.sink.names(".pdf"))
	require.Len(t, report.Outcomes, 3)
	assert.ErrorIs(t, report.Outcomes[1].Err, ErrWriteDocument)
	assert.Empty(t, report.Outcomes[1].Path)
	assert.Equal(t, ResultSummary{Succeeded: 2, Failed: 1}, report.Summary())

	failed := f.entry("Failed to write recipe document")
	require.NotNil(t, failed)
	assert.Equal(t, "Soup/Stew", failed.Data["recipe"])
	assert.Equal(t, logrus.ErrorLevel, failed.Level)
	assert.NotNil(t, f.entry("Processed 3 recipes"))
}

func TestExporter_ImageFailureStillWritesDocument(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	renderer := newTestRenderer(t,
		WithImages(NewImageResolver(&fakeFetcher{err: errors.New("timeout")}, testPhotoBase)),
		WithRendererLogger(logger),
	)
	sink := newMemSink()
	exp, err := NewExporter(&fakeSource{recipes: []Recipe{{Name: "Soup", PhotoIDs: []string{"p1"}}}}, sink, renderer,
		WithLogger(logger))
	require.NoError(t, err)

	report, err := exp.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.NoError(t, report.Outcomes[0].Err)
	assert.ErrorIs(t, report.Outcomes[0].ImageErr, ErrImageFetch)
	assert.Equal(t, []string{"Soup.pdf"}, sink.names(".pdf"))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Skipping recipe photo" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestNewExporter_Validation(t *testing.T) {
	t.Parallel()

	renderer := newTestRenderer(t)

	_, err := NewExporter(nil, newMemSink(), renderer)
	assert.Error(t, err)

	opts := DefaultExportOptions()
	opts.ArchiveName = "a/b.json"
	_, err = NewExporter(&fakeSource{}, newMemSink(), renderer, WithExportOptions(opts))
	assert.ErrorIs(t, err, ErrInvalidArchiveName)
}
