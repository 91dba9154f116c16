// Package recipe2pdf exports a recipe collection as one PDF per recipe plus
// a JSON archive of the raw records.
//
// # Quick Start
//
// Wire a recipe source, a file sink and a renderer, then run the export:
//
//	renderer, err := recipe2pdf.NewRenderer(
//	    recipe2pdf.WithImages(recipe2pdf.NewImageResolver(fetch.NewClient(), photoBaseURL)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp, err := recipe2pdf.NewExporter(src, fileutil.NewDir("recipe-pdfs"), renderer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := exp.Run(ctx)
//
// # Export Pipeline
//
//  1. Log in to the recipe source and retrieve every recipe.
//  2. Write the unmodified records to the archive (all-recipes.json).
//  3. Render the first MaxDocuments recipes, one at a time, each into memory.
//  4. Write each document atomically as "<MM-DD-YYYY> - <name>.pdf".
//  5. Log "Processed N recipes" and end the session.
//
// Login, listing and archive failures stop the run. A recipe that fails to
// render or write is recorded in Report.Outcomes and the run continues.
// A photo that fails to download or decode only drops the picture.
//
// # Document Layout
//
// Sections are drawn in a fixed order: title, photo, created date, source,
// servings, rating, times, categories, notes, ingredients, instructions,
// preparation steps, notes again (preferring "note"), and nutritional info.
// Optional sections are omitted when their field is empty.
//
// Renderer.Outline produces a plain-text rendition of the same layout,
// useful to check what a document contains without opening the PDF.
package recipe2pdf
