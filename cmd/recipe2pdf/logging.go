package main

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-recipe2pdf/internal/config"
)

// newLogger builds the run logger from validated log settings.
func newLogger(w io.Writer, cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errorf(ErrUsage, "log level: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	default:
		return nil, errorf(ErrUsage, "unknown log format %q", cfg.Format)
	}

	return logger, nil
}
