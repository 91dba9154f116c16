package recipe2pdf

import "errors"

// Sentinel errors for export operations.
var (
	ErrAuth          = errors.New("login to recipe service failed")
	ErrFetchList     = errors.New("fetching recipe list failed")
	ErrWriteArchive  = errors.New("writing recipe archive failed")
	ErrWriteDocument = errors.New("writing recipe document failed")
	ErrRender        = errors.New("rendering recipe failed")
	ErrNilRecipe     = errors.New("recipe is nil")

	// Image errors. Both are recoverable: the document is produced without a picture.
	ErrImageFetch  = errors.New("image fetch failed")
	ErrImageDecode = errors.New("image decode failed")

	// Recipe data errors.
	ErrInvalidRecipes = errors.New("invalid recipe data")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Export options validation errors.
	ErrInvalidArchiveName = errors.New("invalid archive name")
)
