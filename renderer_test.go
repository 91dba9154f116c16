package recipe2pdf

// Notes:
// - Layout assertions render onto layout.Outline, which records every line
//   with its runs, so content and styling are checked without parsing PDFs.
// - Dates use time.UTC; 1615680000 is 2021-03-14T00:00:00Z.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-recipe2pdf/internal/layout"
)

const march14 = 1615680000.0

func ptr(v float64) *float64 { return &v }

func newTestRenderer(t *testing.T, opts ...RendererOption) *Renderer {
	t.Helper()
	r, err := NewRenderer(append([]RendererOption{WithLocation(time.UTC)}, opts...)...)
	require.NoError(t, err)
	return r
}

// renderOutline renders recipe onto a recording canvas.
func renderOutline(t *testing.T, r *Renderer, recipe *Recipe) (*layout.Outline, *RenderResult) {
	t.Helper()
	out := layout.NewOutline(r.page.pageBox())
	res, err := r.render(context.Background(), recipe, out, io.Discard)
	require.NoError(t, err)
	return out, res
}

// lineByText returns the first recorded line with the given text.
func lineByText(t *testing.T, out *layout.Outline, text string) layout.Line {
	t.Helper()
	for _, l := range out.Lines() {
		if l.Text() == text {
			return l
		}
	}
	t.Fatalf("no line %q in %q", text, out.Texts())
	return layout.Line{}
}

func indexOf(lines []string, text string) int {
	for i, l := range lines {
		if l == text {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Section policy
// ---------------------------------------------------------------------------

func TestRender_MinimalRecipe(t *testing.T) {
	t.Parallel()

	out, res := renderOutline(t, newTestRenderer(t), &Recipe{Name: "Toast"})

	assert.Equal(t, []string{
		"Toast",
		"Created: Unknown",
		"Rating: No rating available",
		"Ingredients",
	}, out.Texts())
	assert.Equal(t, []string{SectionTitle, SectionCreated, SectionRating, SectionIngredients}, res.Sections)
	assert.NoError(t, res.ImageErr)
}

func TestRender_FullRecipeSectionOrder(t *testing.T) {
	t.Parallel()

	recipe := &Recipe{
		Name:              "Pancakes",
		CreationTimestamp: march14,
		SourceName:        "Kitchen",
		SourceURL:         "https://example.com/p",
		Servings:          "4",
		Rating:            ptr(5),
		PrepTime:          ptr(600),
		CookTime:          ptr(900),
		Categories:        []string{"Breakfast", "Sweet"},
		Notes:             "B",
		Note:              "A",
		Ingredients:       []Ingredient{{RawIngredient: "1 cup flour"}, {RawIngredient: "2 eggs"}},
		Instructions:      "Mix\n\n  Cook  \n",
		PreparationSteps:  []string{"Whisk"},
		NutritionalInfo:   "200 kcal\n5 g fat",
	}

	out, res := renderOutline(t, newTestRenderer(t), recipe)

	assert.Equal(t, []string{
		SectionTitle, SectionCreated, SectionSource, SectionServings, SectionRating,
		SectionTimes, SectionCategories, SectionNotes, SectionIngredients,
		SectionInstructions, SectionPreparationSteps, SectionNote, SectionNutritionalInfo,
	}, res.Sections)

	assert.Equal(t, []string{
		"Pancakes",
		"Created: March 14, 2021",
		"Source: Kitchen",
		"Servings: 4",
		"Rating: 5 stars",
		"Prep Time: 10 min | Cook Time: 15 min",
		"Categories: Breakfast, Sweet",
		"Notes:",
		"B",
		"Ingredients",
		"1 cup flour",
		"2 eggs",
		"Instructions",
		"1. Mix",
		"2. Cook",
		"Preparation Steps",
		"1. Whisk",
		"Notes:",
		"A",
		"Nutritional Info",
		"200 kcal",
		"5 g fat",
	}, out.Texts())
}

func TestRender_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{name: "Apple Pie", want: "Apple Pie"},
		{name: "   ", want: untitled},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			out, _ := renderOutline(t, newTestRenderer(t), &Recipe{Name: tt.name})
			title := out.Lines()[0]
			assert.Equal(t, tt.want, title.Text())
			assert.Equal(t, layout.AlignCenter, title.Align)
			assert.True(t, title.Runs[0].Style.Bold)
			assert.Equal(t, titleSize, title.Runs[0].Style.Size)
		})
	}
}

func TestRender_CreatedStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ts         float64
		want       string
		wantItalic bool
	}{
		{name: "known date is regular", ts: march14, want: "Created: March 14, 2021"},
		{name: "unknown date is italic", ts: 0, want: "Created: Unknown", wantItalic: true},
		{name: "before 2000 is unknown", ts: 946684799, want: "Created: Unknown", wantItalic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _ := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", CreationTimestamp: tt.ts})
			line := lineByText(t, out, tt.want)
			require.Len(t, line.Runs, 2)
			assert.True(t, line.Runs[0].Style.Bold)
			assert.Equal(t, tt.wantItalic, line.Runs[1].Style.Italic)
		})
	}
}

func TestRender_SourceVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		recipe   Recipe
		want     string
		wantLink string
	}{
		{
			name:     "name and url",
			recipe:   Recipe{SourceName: "Kitchen", SourceURL: "https://example.com/k"},
			want:     "Source: Kitchen",
			wantLink: "https://example.com/k",
		},
		{name: "name only", recipe: Recipe{SourceName: "Grandma"}, want: "Source: Grandma"},
		{
			name:     "url only",
			recipe:   Recipe{SourceURL: "https://example.com/u"},
			want:     "Source URL: https://example.com/u",
			wantLink: "https://example.com/u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recipe := tt.recipe
			recipe.Name = "X"
			out, res := renderOutline(t, newTestRenderer(t), &recipe)

			assert.Contains(t, res.Sections, SectionSource)
			line := lineByText(t, out, tt.want)
			require.Len(t, line.Runs, 2)
			assert.True(t, line.Runs[0].Style.Bold)
			assert.Equal(t, tt.wantLink, line.Runs[1].Style.Link)
			assert.Equal(t, tt.wantLink != "", line.Runs[1].Style.Underline)
		})
	}
}

func TestRender_OptionalSectionsOmitted(t *testing.T) {
	t.Parallel()

	recipe := &Recipe{
		Name:       "X",
		Servings:   " ",
		Rating:     ptr(0),
		PrepTime:   ptr(0),
		Categories: []string{},
	}

	_, res := renderOutline(t, newTestRenderer(t), recipe)

	assert.NotContains(t, res.Sections, SectionServings)
	assert.NotContains(t, res.Sections, SectionTimes)
	assert.NotContains(t, res.Sections, SectionCategories)
	assert.NotContains(t, res.Sections, SectionSource)
	assert.Contains(t, res.Sections, SectionRating)
}

func TestRender_Times(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prep *float64
		cook *float64
		want string
	}{
		{name: "prep only", prep: ptr(600), want: "Prep Time: 10 min"},
		{name: "cook only", cook: ptr(90), want: "Cook Time: 1.5 min"},
		{name: "both", prep: ptr(300), cook: ptr(1200), want: "Prep Time: 5 min | Cook Time: 20 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _ := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", PrepTime: tt.prep, CookTime: tt.cook})
			assert.Contains(t, out.Texts(), tt.want)
		})
	}
}

func TestRender_RatingText(t *testing.T) {
	t.Parallel()

	out, _ := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", Rating: ptr(4.5)})
	assert.Contains(t, out.Texts(), "Rating: 4.5 stars")
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

func TestRender_TwoNotesBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		notes     string
		note      string
		wantEarly string
		wantLate  string
	}{
		{name: "note and notes", notes: "B", note: "A", wantEarly: "B", wantLate: "A"},
		{name: "notes only appear twice", notes: "B", wantEarly: "B", wantLate: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, res := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", Notes: tt.notes, Note: tt.note})
			texts := out.Texts()

			assert.Contains(t, res.Sections, SectionNotes)
			assert.Contains(t, res.Sections, SectionNote)

			ingredients := indexOf(texts, "Ingredients")
			require.GreaterOrEqual(t, ingredients, 2)
			assert.Equal(t, []string{"Notes:", tt.wantEarly}, texts[ingredients-2:ingredients])
			assert.Equal(t, []string{"Notes:", tt.wantLate}, texts[len(texts)-2:])
		})
	}
}

func TestRender_NoteOnly(t *testing.T) {
	t.Parallel()

	out, res := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", Note: "A"})

	assert.NotContains(t, res.Sections, SectionNotes)
	assert.Contains(t, res.Sections, SectionNote)
	texts := out.Texts()
	assert.Equal(t, []string{"Notes:", "A"}, texts[len(texts)-2:])
}

func TestRender_NotesMarkdown(t *testing.T) {
	t.Parallel()

	recipe := &Recipe{Name: "X", Note: "Use **cold** butter, see [tips](https://example.com/t)"}

	plain, _ := renderOutline(t, newTestRenderer(t), recipe)
	assert.Contains(t, plain.Texts(), recipe.Note, "verbatim by default")

	md, _ := renderOutline(t, newTestRenderer(t, WithNotesMarkdown(true)), recipe)
	line := lineByText(t, md, "Use cold butter, see tips")
	require.Len(t, line.Runs, 4)
	assert.True(t, line.Runs[1].Style.Bold)
	assert.Equal(t, "https://example.com/t", line.Runs[3].Style.Link)
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

func TestRender_PreparationSteps(t *testing.T) {
	t.Parallel()

	recipe := &Recipe{
		Name:             "X",
		PreparationSteps: []string{"# Heading", "Do X", "  ", "## Sauce ", "Do Y"},
	}

	out, _ := renderOutline(t, newTestRenderer(t), recipe)
	texts := out.Texts()

	start := indexOf(texts, "Preparation Steps")
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, []string{"Heading", "1. Do X", "Sauce", "2. Do Y"}, texts[start+1:start+5])

	heading := lineByText(t, out, "Heading")
	require.Len(t, heading.Runs, 1)
	assert.True(t, heading.Runs[0].Style.Bold)

	step := lineByText(t, out, "1. Do X")
	require.Len(t, step.Runs, 2)
	assert.True(t, step.Runs[0].Style.Bold, "number is bold")
	assert.False(t, step.Runs[1].Style.Bold, "text is regular")
}

func TestRender_PreparationStepsHalfGap(t *testing.T) {
	t.Parallel()

	out, _ := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", PreparationSteps: []string{"a", "b"}})

	a := lineByText(t, out, "1. a")
	b := lineByText(t, out, "2. b")
	lineHeight := bodySize * 1.25
	assert.InDelta(t, lineHeight+layout.DefaultGap/2, b.Y-a.Y, 0.001)
}

func TestRender_EmptyIngredientsKeepHeading(t *testing.T) {
	t.Parallel()

	out, res := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", Ingredients: nil})

	assert.Contains(t, res.Sections, SectionIngredients)
	assert.Equal(t, "Ingredients", out.Texts()[len(out.Texts())-1])
}

func TestRender_IngredientsVerbatim(t *testing.T) {
	t.Parallel()

	recipe := &Recipe{Name: "X", Ingredients: []Ingredient{{RawIngredient: "  ½ tsp salt *fine*"}}}
	out, _ := renderOutline(t, newTestRenderer(t, WithNotesMarkdown(true)), recipe)

	assert.Contains(t, out.Texts(), "  ½ tsp salt *fine*")
}

// ---------------------------------------------------------------------------
// Photo
// ---------------------------------------------------------------------------

func TestRender_ImageFloatsBesideText(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{blobs: map[string][]byte{testPhotoBase + "p1.jpg": encodeJPEG(t, 400, 200)}}
	r := newTestRenderer(t, WithImages(NewImageResolver(fetcher, testPhotoBase)))

	out, res := renderOutline(t, r, &Recipe{Name: "X", PhotoIDs: []string{"p1", "p2"}, CreationTimestamp: march14})

	assert.Equal(t, []string{testPhotoBase + "p1.jpg"}, fetcher.urls, "only the first photo is fetched")
	assert.Contains(t, res.Sections, SectionImage)
	assert.NoError(t, res.ImageErr)

	imgs := out.Images()
	require.Len(t, imgs, 1)
	box := r.page.pageBox()
	assert.InDelta(t, 200.0, imgs[0].W, 0.001)
	assert.InDelta(t, 100.0, imgs[0].H, 0.001)
	assert.InDelta(t, box.ContentRight()-200, imgs[0].X, 0.001, "right-aligned")

	created := lineByText(t, out, "Created: March 14, 2021")
	assert.InDelta(t, imgs[0].Y, created.Y, 0.001, "cursor restored to the image top")

	title := out.Lines()[0]
	assert.Greater(t, imgs[0].Y, title.Y, "image sits below the title")
}

func TestRender_ImageFailureIsRecoverable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher *fakeFetcher
		wantErr error
	}{
		{name: "fetch fails", fetcher: &fakeFetcher{err: errors.New("timeout")}, wantErr: ErrImageFetch},
		{
			name:    "bytes not an image",
			fetcher: &fakeFetcher{blobs: map[string][]byte{testPhotoBase + "p1.jpg": []byte("nope")}},
			wantErr: ErrImageDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, hook := test.NewNullLogger()
			r := newTestRenderer(t,
				WithImages(NewImageResolver(tt.fetcher, testPhotoBase)),
				WithRendererLogger(logger),
			)

			var buf bytes.Buffer
			res, err := r.Render(context.Background(), &Recipe{Name: "Soup", PhotoIDs: []string{"p1"}}, &buf)
			require.NoError(t, err)

			assert.ErrorIs(t, res.ImageErr, tt.wantErr)
			assert.NotContains(t, res.Sections, SectionImage)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "document still produced")

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Equal(t, "Soup", entry.Data["recipe"])
			assert.Equal(t, "p1", entry.Data["photo"])
		})
	}
}

func TestRender_NoResolverSkipsPhoto(t *testing.T) {
	t.Parallel()

	out, res := renderOutline(t, newTestRenderer(t), &Recipe{Name: "X", PhotoIDs: []string{"p1"}})

	assert.NotContains(t, res.Sections, SectionImage)
	assert.Empty(t, out.Images())
}

// ---------------------------------------------------------------------------
// Render and Outline output
// ---------------------------------------------------------------------------

func TestRender_WritesPDF(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{blobs: map[string][]byte{testPhotoBase + "p1.jpg": encodePNG(t, 50, 80)}}
	r := newTestRenderer(t, WithImages(NewImageResolver(fetcher, testPhotoBase)))

	long := strings.Repeat("Stir gently and keep stirring. ", 40)
	recipe := &Recipe{
		Name:              "Crème Brûlée",
		CreationTimestamp: march14,
		PhotoIDs:          []string{"p1"},
		SourceName:        "Bistro",
		SourceURL:         "https://example.com/b",
		Instructions:      strings.Repeat(long+"\n", 30),
	}

	var buf bytes.Buffer
	res, err := r.Render(context.Background(), recipe, &buf)
	require.NoError(t, err)
	assert.Contains(t, res.Sections, SectionImage)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_NilRecipe(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	var buf bytes.Buffer

	_, err := r.Render(context.Background(), nil, &buf)
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, err, ErrNilRecipe)

	_, err = r.Outline(context.Background(), nil, &buf)
	require.ErrorIs(t, err, ErrRender)
	assert.Zero(t, buf.Len())
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := newTestRenderer(t).Render(ctx, &Recipe{Name: "X"}, &buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestRender_CanvasErrorWritesNothing(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	canvas := &failingCanvas{Outline: layout.NewOutline(r.page.pageBox())}

	var buf bytes.Buffer
	_, err := r.render(context.Background(), &Recipe{Name: "X"}, canvas, &buf)
	require.ErrorIs(t, err, ErrRender)
	assert.Zero(t, buf.Len())
}

func TestRender_PanicBecomesError(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	canvas := &panickingCanvas{Outline: layout.NewOutline(r.page.pageBox())}

	_, err := r.render(context.Background(), &Recipe{Name: "X"}, canvas, io.Discard)
	require.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "panic")
}

func TestOutline_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newTestRenderer(t).Outline(context.Background(), &Recipe{
		Name:       "Soup",
		SourceName: "Site",
		SourceURL:  "https://example.com/s",
	}, &buf)
	require.NoError(t, err)

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "**Soup**\n"))
	assert.Contains(t, got, "**Source: **[Site](https://example.com/s)\n")
	assert.Contains(t, got, "**Rating: **No rating available\n")
}

func TestNewRenderer_InvalidPage(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithPageSettings(&PageSettings{Size: "a5", Orientation: "portrait", Margin: 1}))
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

// failingCanvas reports a drawing error after the first section.
type failingCanvas struct {
	*layout.Outline
}

func (c *failingCanvas) Err() error { return errors.New("font not found") }

// panickingCanvas panics when a section draws a block.
type panickingCanvas struct {
	*layout.Outline
}

func (c *panickingCanvas) Block(float64, string, layout.Align) { panic("boom") }
