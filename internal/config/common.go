package config

import (
	"strings"

	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/dlog"
)

// CommonConfig stores configuration shared by all commands.
type CommonConfig struct {
	// Logger is one of stdout, stderr, none or file:<path>.
	Logger   string `yaml:"logger"`
	LogLevel string `yaml:"log_level"`
	// MetricsFile receives the run counters in Prometheus text format. Empty
	// disables metrics.
	MetricsFile string `yaml:"metrics_file"`
	// NoColor disables painting of summaries on a terminal.
	NoColor bool `yaml:"no_color"`
}

func newDefaultCommonConfig() *CommonConfig {
	return &CommonConfig{
		Logger:   DefaultLogger,
		LogLevel: DefaultLogLevel,
	}
}

func (c *CommonConfig) validate() error {
	switch {
	case c.Logger == dlog.LoggerStdout, c.Logger == dlog.LoggerStderr, c.Logger == dlog.LoggerNone:
	case strings.HasPrefix(c.Logger, dlog.LoggerFilePrefix) && len(c.Logger) > len(dlog.LoggerFilePrefix):
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown logger %q", c.Logger)
	}
	if _, err := dlog.ParseLevel(c.LogLevel); err != nil {
		return errors.Mark(errors.ErrInvalidConfig, err)
	}
	return nil
}
