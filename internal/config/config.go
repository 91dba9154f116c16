package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-recipe2pdf/internal/yamlutil"
)

// AppName names the per-user config directory.
const AppName = "go-recipe2pdf"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// Field limits.
const (
	MaxDomainLength   = 253  // RFC 1035
	MaxURLLength      = 2048 // Browser limit
	MaxFileNameLength = 255  // Common filesystem limit
	MinMargin         = 0.25 // inches
	MaxMargin         = 3.0  // inches
)

// Accepted enumerations.
var (
	PageSizes    = []any{"letter", "a4", "legal"}
	Orientations = []any{"portrait", "landscape"}
	LogLevels    = []any{"debug", "info", "warn", "error"}
	LogFormats   = []any{"text", "json"}
)

func init() {
	// Report fields under their config file keys.
	validation.ErrorTag = "yaml"
}

// Config holds all configuration for an export run.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Export ExportConfig `yaml:"export"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig locates the recipe service.
type SourceConfig struct {
	Domain       string `yaml:"domain"`
	BaseURL      string `yaml:"baseURL"`      // empty = https://www.<domain>
	PhotoBaseURL string `yaml:"photoBaseURL"` // empty = https://photos.<domain>/
}

// ExportConfig controls what an export run writes.
type ExportConfig struct {
	OutputDir         string `yaml:"outputDir"`
	ArchiveName       string `yaml:"archiveName"`
	GenerateDocuments bool   `yaml:"generateDocuments"`
	MaxDocuments      int    `yaml:"maxDocuments"` // -1 = unlimited
	Outline           bool   `yaml:"outline"`
}

// RenderConfig controls document layout.
type RenderConfig struct {
	Page          PageConfig `yaml:"page"`
	NotesMarkdown bool       `yaml:"notesMarkdown"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{Domain: "anylist.com"},
		Export: ExportConfig{
			OutputDir:         "recipe-pdfs",
			ArchiveName:       "all-recipes.json",
			GenerateDocuments: true,
			MaxDocuments:      -1,
		},
		Render: RenderConfig{
			Page: PageConfig{Size: "letter", Orientation: "portrait", Margin: 1.0},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate normalises enumerated values to lower case and checks every field.
// Called by LoadConfig, but available for callers that build a Config by hand
// or override fields after loading.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("%w: source: %v", ErrConfigInvalid, err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("%w: export: %v", ErrConfigInvalid, err)
	}
	if err := c.Render.Page.Validate(); err != nil {
		return fmt.Errorf("%w: render.page: %v", ErrConfigInvalid, err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: log: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Domain, validation.Required, validation.Length(1, MaxDomainLength), validation.By(plainDomain)),
		validation.Field(&c.BaseURL, validation.Length(0, MaxURLLength), validation.By(httpURL)),
		validation.Field(&c.PhotoBaseURL, validation.Length(0, MaxURLLength), validation.By(httpURL)),
	)
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.ArchiveName, validation.Required, validation.Length(1, MaxFileNameLength), validation.By(plainName)),
		validation.Field(&c.MaxDocuments, validation.Min(-1)),
	)
}

// Validate validates the page configuration.
func (c *PageConfig) Validate() error {
	c.Size = strings.ToLower(strings.TrimSpace(c.Size))
	c.Orientation = strings.ToLower(strings.TrimSpace(c.Orientation))
	return validation.ValidateStruct(c,
		validation.Field(&c.Size, validation.Required, validation.In(PageSizes...)),
		validation.Field(&c.Orientation, validation.Required, validation.In(Orientations...)),
		validation.Field(&c.Margin, validation.Required, validation.Min(MinMargin), validation.Max(MaxMargin)),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In(LogLevels...)),
		validation.Field(&c.Format, validation.Required, validation.In(LogFormats...)),
	)
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Marshal(c)
}

func plainDomain(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "/:@ ") {
		return errors.New("must be a bare host name such as anylist.com")
	}
	return nil
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

func plainName(value any) error {
	s, _ := value.(string)
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return errors.New("must be a file name, not a path")
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <UserConfigDir>/go-recipe2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
