// Package fileutil provides file naming and output directory utilities.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrInvalidFileName        = errors.New("invalid file name")
)

// File permission constants.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// unsafeFileChars lists the characters replaced by SanitizeFilename.
const unsafeFileChars = `/\?%*:|"<>`

// fallbackName is used when a recipe has neither a usable name nor an identifier.
const fallbackName = "untitled"

// filenameReplacer maps every unsafe character to a hyphen.
var filenameReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(unsafeFileChars)*2)
	for _, r := range unsafeFileChars {
		pairs = append(pairs, string(r), "-")
	}
	return strings.NewReplacer(pairs...)
}()

// SanitizeFilename replaces each of / \ ? % * : | " < > with "-" and trims
// surrounding whitespace. The result never contains a path separator and
// SanitizeFilename(SanitizeFilename(s)) == SanitizeFilename(s).
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}

// OutputName builds a document file name: "<token> - <name><ext>", or
// "<name><ext>" when token is empty. The name is sanitized; when nothing is
// left of it, fallback (usually the recipe identifier) is used instead.
//
// Examples:
//   - ("03-14-2021", "Pie", "", ".pdf") -> "03-14-2021 - Pie.pdf"
//   - ("", "A/B", "", ".pdf") -> "A-B.pdf"
//   - ("", "  ", "id-1", ".pdf") -> "id-1.pdf"
func OutputName(token, name, fallback, ext string) (string, error) {
	if err := ValidateExtension(strings.TrimPrefix(ext, ".")); err != nil {
		return "", err
	}

	base := SanitizeFilename(name)
	if base == "" {
		base = SanitizeFilename(fallback)
	}
	if base == "" {
		base = fallbackName
	}
	if token != "" {
		base = token + " - " + base
	}
	return base + ext, nil
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Dir writes files into a single output directory.
// The zero value is not usable; create with NewDir.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory is not created until
// MkdirAll or WriteFile is called.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// MkdirAll creates the directory and any missing parents.
// Calling it on an existing directory is not an error.
func (d *Dir) MkdirAll() error {
	if err := os.MkdirAll(d.path, DirPermissions); err != nil {
		return fmt.Errorf("creating output directory %s: %w", d.path, err)
	}
	return nil
}

// WriteFile writes data to name inside the directory and returns the full path.
// Content goes to a temporary file first and is renamed into place, so a
// failed write never leaves a truncated file behind.
func (d *Dir) WriteFile(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	if err := d.MkdirAll(); err != nil {
		return "", err
	}

	target := filepath.Join(d.path, name)
	if err := writeAtomic(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// writeAtomic writes data to a temp file next to target, then renames it.
func writeAtomic(target string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".recipe2pdf-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, FilePermissions); chmodErr != nil {
		cleanup()
		return fmt.Errorf("setting file permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, target); renameErr != nil {
		cleanup()
		return fmt.Errorf("moving %s into place: %w", filepath.Base(target), renameErr)
	}
	return nil
}
