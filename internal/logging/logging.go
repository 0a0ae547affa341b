// Package logging configures a structured logrus logger for mvtinspect,
// following the level/format/output setup the tileserver pack repos use.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vtzero-go/mvt/internal/config"
)

// New builds a logrus.Logger from the given configuration.
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch cfg.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "file":
		return nil, fmt.Errorf("file log output is not supported: no log file path can be configured")
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, nil
}
