package main

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-recipe2pdf/internal/config"
	"github.com/alnah/go-recipe2pdf/internal/hints"
	"github.com/alnah/go-recipe2pdf/internal/source"
)

const envPrefix = "RECIPE2PDF_"

// envConfig holds configuration from environment variables.
// Pointers distinguish unset from zero values.
type envConfig struct {
	ConfigPath        string // RECIPE2PDF_CONFIG: config file name or path
	OutputDir         string // RECIPE2PDF_OUTPUT_DIR: output directory
	GenerateDocuments *bool  // RECIPE2PDF_GENERATE_DOCUMENTS: render PDFs
	MaxDocuments      *int   // RECIPE2PDF_MAX_DOCUMENTS: first N recipes only
	LogFormat         string // RECIPE2PDF_LOG_FORMAT: text, json

	Credentials source.Credentials // ANYLIST_EMAIL, ANYLIST_PASSWORD

	invalid []string // set variables whose value could not be parsed
}

// knownEnvVars lists valid RECIPE2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"RECIPE2PDF_CONFIG":             true,
	"RECIPE2PDF_OUTPUT_DIR":         true,
	"RECIPE2PDF_GENERATE_DOCUMENTS": true,
	"RECIPE2PDF_MAX_DOCUMENTS":      true,
	"RECIPE2PDF_LOG_FORMAT":         true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("RECIPE2PDF_CONFIG"),
		OutputDir:  getenv("RECIPE2PDF_OUTPUT_DIR"),
		LogFormat:  getenv("RECIPE2PDF_LOG_FORMAT"),
		Credentials: source.Credentials{
			Email:    strings.TrimSpace(getenv(hints.EnvEmail)),
			Password: getenv(hints.EnvPassword),
		},
	}

	if v := getenv("RECIPE2PDF_GENERATE_DOCUMENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.GenerateDocuments = &b
		} else {
			cfg.invalid = append(cfg.invalid, "RECIPE2PDF_GENERATE_DOCUMENTS")
		}
	}

	if v := getenv("RECIPE2PDF_MAX_DOCUMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= -1 {
			cfg.MaxDocuments = &n
		} else {
			cfg.invalid = append(cfg.invalid, "RECIPE2PDF_MAX_DOCUMENTS")
		}
	}

	return cfg
}

// warnEnv logs unrecognized RECIPE2PDF_* variables and unparsable values.
// Helps catch typos like RECIPE2PDF_MAX instead of RECIPE2PDF_MAX_DOCUMENTS.
func warnEnv(log logrus.FieldLogger, env *envConfig, environ []string) {
	for _, kv := range environ {
		if strings.HasPrefix(kv, envPrefix) {
			name := strings.SplitN(kv, "=", 2)[0]
			if !knownEnvVars[name] {
				log.WithField("variable", name).Warn("Unknown environment variable (typo?)")
			}
		}
	}
	for _, name := range env.invalid {
		log.WithField("variable", name).Warn("Ignoring environment variable with invalid value")
	}
}

// applyEnvConfig applies environment variable values to config.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via applyFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.GenerateDocuments != nil {
		cfg.Export.GenerateDocuments = *env.GenerateDocuments
	}
	if env.MaxDocuments != nil {
		cfg.Export.MaxDocuments = *env.MaxDocuments
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}

// applyFlags applies explicitly set flags to config.
func applyFlags(f *cliFlags, cfg *config.Config) {
	if f.export.output != "" {
		cfg.Export.OutputDir = f.export.output
	}
	if f.export.maxSet {
		cfg.Export.MaxDocuments = f.export.max
	}
	if f.export.noDocuments {
		cfg.Export.GenerateDocuments = false
	}
	if f.export.outline {
		cfg.Export.Outline = true
	}
	if f.common.logFormat != "" {
		cfg.Log.Format = f.common.logFormat
	}
	switch {
	case f.common.verbose:
		cfg.Log.Level = "debug"
	case f.common.quiet:
		cfg.Log.Level = "warn"
	}
}
