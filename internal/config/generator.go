package config

import (
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
)

// GeneratorConfig configures lgen.
type GeneratorConfig struct {
	Lines      int `yaml:"lines"`
	ErrorEvery int `yaml:"error_every"`
	// Output is the generated file. Extensions .gz, .zst and .lz4 compress.
	Output           string `yaml:"output"`
	CompressionLevel int    `yaml:"compression_level"`
	Progress         bool   `yaml:"progress"`
}

func newDefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		Lines:      constants.DefaultGeneratorLines,
		ErrorEvery: constants.DefaultErrorEvery,
		Output:     DefaultInput,
	}
}

func (c *GeneratorConfig) validate() error {
	if c.Lines < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "generator: line count %d", c.Lines)
	}
	if c.ErrorEvery < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "generator: error_every %d", c.ErrorEvery)
	}
	if c.Output == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "generator: empty output path")
	}
	return nil
}
