package config

import (
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/line"
	"github.com/logsift/logsift/internal/marker"
)

// ScannerConfig configures lscan.
type ScannerConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Marker string `yaml:"marker"`
	// Plain writes matching lines unchanged instead of issue records.
	Plain bool `yaml:"plain"`
}

func newDefaultScannerConfig() *ScannerConfig {
	return &ScannerConfig{
		Input:  DefaultInput,
		Output: DefaultScannerOutput,
		Marker: constants.DefaultMarker,
	}
}

// Format returns the output format selected by Plain.
func (c *ScannerConfig) Format() line.Format {
	if c.Plain {
		return line.FormatPlain
	}
	return line.FormatIssue
}

func (c *ScannerConfig) validate() error {
	if c.Input == "" || c.Output == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "scanner: input and output are required")
	}
	if _, err := marker.New(c.Marker); err != nil {
		return errors.Wrap(err, "scanner")
	}
	return nil
}
