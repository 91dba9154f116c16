// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-recipe2pdf/internal/fileutil"
)

// Credential variables read by the CLI.
const (
	EnvEmail    = "ANYLIST_EMAIL"
	EnvPassword = "ANYLIST_PASSWORD"
)

// HasDotEnv reports whether a .env file exists in the working directory.
var HasDotEnv = func() bool {
	return fileutil.FileExists(".env")
}

// ForCredentials returns hints for missing or rejected credentials.
// Names the variables that are unset and suggests a .env file when none exists.
func ForCredentials() string {
	var hints []string

	var missing []string
	for _, name := range []string{EnvEmail, EnvPassword} {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		hints = append(hints, "set "+strings.Join(missing, " and "))
	} else {
		hints = append(hints, "check "+EnvEmail+" and "+EnvPassword)
	}

	if !HasDotEnv() {
		hints = append(hints, "or put them in a .env file in the working directory")
	}

	return formatHints(hints)
}

// ForRecipeList returns hints for recipe list download errors.
func ForRecipeList() string {
	return format("check your network connection; use --from-archive to render a saved archive")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-recipe2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForConfigInvalid returns a hint for config values that fail validation.
func ForConfigInvalid() string {
	return format("run with --print-config to see every key and its default")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable, or pick another with --output")
}

// ForArchive returns hints for archive read errors.
func ForArchive() string {
	return format("pass the all-recipes.json written by an earlier export")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
