package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	recipe2pdf "github.com/alnah/go-recipe2pdf"
	"github.com/alnah/go-recipe2pdf/internal/config"
	"github.com/alnah/go-recipe2pdf/internal/fetch"
	"github.com/alnah/go-recipe2pdf/internal/fileutil"
	"github.com/alnah/go-recipe2pdf/internal/hints"
	"github.com/alnah/go-recipe2pdf/internal/source"
)

// runMain runs the command and returns its exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	f, err := parseFlags(args, env.Stderr)
	if err != nil {
		return fail(env.Stderr, err)
	}
	if f.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if f.version {
		fmt.Fprintf(env.Stdout, "recipe2pdf %s\n", Version)
		return ExitSuccess
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg, err := resolveConfig(f, envCfg)
	if err != nil {
		return fail(env.Stderr, err)
	}

	logger, err := newLogger(env.Stderr, cfg.Log)
	if err != nil {
		return fail(env.Stderr, err)
	}
	warnEnv(logger, envCfg, env.Environ())

	if f.printConfig {
		out, err := cfg.YAML()
		if err != nil {
			return fail(env.Stderr, err)
		}
		_, _ = env.Stdout.Write(out)
		return ExitSuccess
	}

	report, err := export(ctx, f, cfg, envCfg, env, logger)
	if err != nil {
		return fail(env.Stderr, err)
	}
	if !f.common.quiet {
		printReport(env.Stdout, report)
	}
	return ExitSuccess
}

// resolveConfig loads the config file, if any, then applies the environment
// and flags on top and validates the result.
func resolveConfig(f *cliFlags, envCfg *envConfig) (*config.Config, error) {
	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	applyFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// export wires the source, fetcher, renderer and sink and runs one export.
func export(ctx context.Context, f *cliFlags, cfg *config.Config, envCfg *envConfig, env *Environment, logger logrus.FieldLogger) (*recipe2pdf.Report, error) {
	fetcher := fetch.NewClient(fetch.WithHTTPClient(env.HTTPClient))
	defer fetcher.CloseIdleConnections()

	var src recipe2pdf.RecipeSource
	if f.export.fromArchive != "" {
		src = source.NewArchive(f.export.fromArchive)
	} else {
		baseURL := cfg.Source.BaseURL
		if baseURL == "" {
			baseURL = source.BaseURL(cfg.Source.Domain)
		}
		src = source.NewClient(envCfg.Credentials,
			source.WithBaseURL(baseURL),
			source.WithHTTPClient(env.HTTPClient),
			source.WithLogger(logger),
		)
	}

	photoBaseURL := cfg.Source.PhotoBaseURL
	if photoBaseURL == "" {
		photoBaseURL = source.PhotoBaseURL(cfg.Source.Domain)
	}

	renderer, err := recipe2pdf.NewRenderer(
		recipe2pdf.WithPageSettings(&recipe2pdf.PageSettings{
			Size:        cfg.Render.Page.Size,
			Orientation: cfg.Render.Page.Orientation,
			Margin:      cfg.Render.Page.Margin,
		}),
		recipe2pdf.WithImages(recipe2pdf.NewImageResolver(fetcher, photoBaseURL)),
		recipe2pdf.WithNotesMarkdown(cfg.Render.NotesMarkdown),
		recipe2pdf.WithLocation(env.Location),
		recipe2pdf.WithRendererLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := recipe2pdf.NewExporter(src, fileutil.NewDir(cfg.Export.OutputDir), renderer,
		recipe2pdf.WithExportOptions(recipe2pdf.ExportOptions{
			GenerateDocuments: cfg.Export.GenerateDocuments,
			MaxDocuments:      cfg.Export.MaxDocuments,
			ArchiveName:       cfg.Export.ArchiveName,
			Outline:           cfg.Export.Outline,
		}),
		recipe2pdf.WithLogger(logger),
		recipe2pdf.WithFileLocation(env.Location),
	)
	if err != nil {
		return nil, err
	}

	return exporter.Run(ctx)
}

// printReport prints where the export went and which recipes failed.
func printReport(w io.Writer, report *recipe2pdf.Report) {
	fmt.Fprintf(w, "Archive: %s (%d recipes)\n", report.Archive, report.Total)
	if len(report.Outcomes) == 0 {
		return
	}
	s := report.Summary()
	fmt.Fprintf(w, "Documents: %d written, %d failed\n", s.Succeeded, s.Failed)
	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  failed: %s: %v\n", o.Name, o.Err)
		}
	}
}

// fail prints err with a hint and returns its exit code.
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, config.ErrConfigInvalid):
		return hints.ForConfigInvalid()
	case errors.Is(err, source.ErrMissingCredentials),
		errors.Is(err, source.ErrInvalidCredentials):
		return hints.ForCredentials()
	case errors.Is(err, source.ErrInvalidArchive):
		return hints.ForArchive()
	case errors.Is(err, recipe2pdf.ErrFetchList):
		return hints.ForRecipeList()
	case errors.Is(err, recipe2pdf.ErrWriteArchive),
		errors.Is(err, recipe2pdf.ErrWriteDocument):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
