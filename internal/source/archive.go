package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	recipe2pdf "github.com/alnah/go-recipe2pdf"
)

// ErrInvalidArchive reports an archive path that is not a recipe archive.
var ErrInvalidArchive = errors.New("invalid archive")

// Archive reads recipes from a JSON archive written by an earlier export,
// so documents can be rendered again without contacting the service.
type Archive struct {
	path string
}

// NewArchive returns a source reading path.
func NewArchive(path string) *Archive {
	return &Archive{path: path}
}

// Login checks that the archive is readable.
func (a *Archive) Login(context.Context) error {
	info, err := os.Stat(a.path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidArchive, a.path)
	}
	return nil
}

// Recipes decodes the archive.
func (a *Archive) Recipes(ctx context.Context) ([]recipe2pdf.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	recipes, err := recipe2pdf.DecodeRecipes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArchive, a.path, err)
	}
	return recipes, nil
}

// Teardown does nothing.
func (a *Archive) Teardown(context.Context) error {
	return nil
}
