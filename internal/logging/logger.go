// Package logging builds the engine's logrus logger from configuration.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// Level is a log level name
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format is a log line format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds the logger configuration
type Config struct {
	Level  Level     `mapstructure:"level" yaml:"level"`
	Format Format    `mapstructure:"format" yaml:"format"`
	Output io.Writer `mapstructure:"-" yaml:"-"` // defaults to stderr
}

// DefaultConfig logs warnings and above as text
func DefaultConfig() Config {
	return Config{Level: LevelWarn, Format: FormatText}
}

// Validate checks the level and format names
func (c Config) Validate() error {
	if err := utils.IsOneOf("log.level", LevelDebug, LevelInfo, LevelWarn, LevelError)(c.Level); err != nil {
		return errors.WrapConfigurationError("log", "validate", err)
	}
	if err := utils.IsOneOf("log.format", FormatText, FormatJSON)(c.Format); err != nil {
		return errors.WrapConfigurationError("log", "validate", err)
	}
	return nil
}

// New creates a logger from cfg
func New(cfg Config) (*logrus.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(string(cfg.Level))
	if err != nil {
		return nil, errors.WrapConfigurationError("log", "parse level", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)

	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	switch cfg.Format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	return logger, nil
}
