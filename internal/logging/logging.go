// Package logging builds the zap logger shared by the CLI and the pipeline.
package logging

import (
	"go.uber.org/zap"
)

// New returns a development logger when verbose, and an info-level
// production logger otherwise. Construction failures yield a no-op logger.
func New(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
		logger, err = cfg.Build()
	}

	if err != nil {
		return zap.NewNop()
	}

	return logger
}
