package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	recipe2pdf "github.com/alnah/go-recipe2pdf"
	"github.com/alnah/go-recipe2pdf/internal/config"
	"github.com/alnah/go-recipe2pdf/internal/source"
)

// ErrUsage reports invalid flags or arguments.
var ErrUsage = errors.New("invalid usage")

// errorf wraps sentinel with a formatted message.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Exit codes for the recipe2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Export finished, per-recipe failures included
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Archive or output directory not writable, archive not readable
	ExitRemote  = 4 // Login or recipe list download failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Interrupted runs (exit 1)
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitGeneral
	}

	if errors.Is(err, source.ErrMissingCredentials) {
		return ExitUsage
	}

	// Remote service errors (exit 4)
	if errors.Is(err, recipe2pdf.ErrAuth) ||
		errors.Is(err, recipe2pdf.ErrFetchList) {
		// A saved archive that cannot be read is a local problem.
		if errors.Is(err, source.ErrInvalidArchive) ||
			errors.Is(err, os.ErrNotExist) ||
			errors.Is(err, os.ErrPermission) {
			return ExitIO
		}
		return ExitRemote
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, recipe2pdf.ErrWriteArchive) ||
		errors.Is(err, recipe2pdf.ErrWriteDocument) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, recipe2pdf.ErrInvalidPageSize) ||
		errors.Is(err, recipe2pdf.ErrInvalidOrientation) ||
		errors.Is(err, recipe2pdf.ErrInvalidMargin) ||
		errors.Is(err, recipe2pdf.ErrInvalidArchiveName) {
		return ExitUsage
	}

	return ExitGeneral
}
