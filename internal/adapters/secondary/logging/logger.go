package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// New builds a logger from configuration. The returned closer releases the
// log file, if one was opened; it is never nil.
func New(cfg entities.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetLevel(Level(cfg.GetLevel()))

	if cfg.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   cfg.Verbose,
			TimestampFormat: "15:04:05",
		})
	}

	if cfg.File == "" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 - configured log path
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	logger.SetOutput(file)

	return logger, file, nil
}

// Level maps a configured level onto logrus
func Level(level entities.LogLevel) logrus.Level {
	switch level {
	case entities.LogLevelDebug:
		return logrus.DebugLevel
	case entities.LogLevelWarn:
		return logrus.WarnLevel
	case entities.LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
