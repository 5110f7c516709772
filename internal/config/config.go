// Package config provides configuration management for the LogSift commands.
// It handles hierarchical configuration from multiple sources including a
// configuration file, environment variables and command-line flags with
// proper precedence.
//
// The configuration system supports:
// - Common configuration shared between all commands (logging, metrics)
// - Generator, scanner and filter specific configuration
// - Environment variable overrides with LOGSIFT_ prefix
// - YAML configuration file support
// - Sizes such as "64KB" or "1MiB" wherever a byte count is expected
//
// Configuration precedence (highest to lowest):
// 1. Command-line flags
// 2. Environment variables
// 3. Configuration file
// 4. Default values
package config

import (
	"github.com/logsift/logsift/internal/constants"
)

const (
	// InterruptTimeoutS specifies the Ctrl+C confirmation interval.
	InterruptTimeoutS int = constants.InterruptTimeoutSeconds
	// DefaultLogLevel specifies the default log level.
	DefaultLogLevel string = "info"
	// DefaultLogger specifies the default logger of all commands.
	DefaultLogger string = "stderr"
	// DefaultInput is the log file read by the scanner and the filter.
	DefaultInput string = "massive-log.txt"
	// DefaultScannerOutput is the issue report written by the scanner.
	DefaultScannerOutput string = "errors-only.txt"
	// DefaultFilterOutput is the compressed file written by the filter.
	DefaultFilterOutput string = "errors-only.log.gz"
	// EnvPrefix prefixes all environment overrides.
	EnvPrefix string = "LOGSIFT_"
)

// Config is the complete configuration of a command.
type Config struct {
	Common    *CommonConfig    `yaml:"common"`
	Generator *GeneratorConfig `yaml:"generator"`
	Scanner   *ScannerConfig   `yaml:"scanner"`
	Filter    *FilterConfig    `yaml:"filter"`
}

// Common holds the configuration shared by all commands.
// This global variable provides access to shared settings after Setup.
var Common *CommonConfig

// Generator holds the lgen configuration after Setup.
var Generator *GeneratorConfig

// Scanner holds the lscan configuration after Setup.
var Scanner *ScannerConfig

// Filter holds the lfilter configuration after Setup.
var Filter *FilterConfig

// Setup initializes the configuration from all sources and makes it
// available via the global variables. Nothing is changed on error.
func Setup(args *Args) error {
	cfg, err := Load(args)
	if err != nil {
		return err
	}

	Common = cfg.Common
	Generator = cfg.Generator
	Scanner = cfg.Scanner
	Filter = cfg.Filter
	return nil
}

// Load builds a validated configuration from defaults, the configuration
// file (if any), the environment and args, in that order.
func Load(args *Args) (*Config, error) {
	initializer := initializer{Config: newDefaultConfig()}

	if err := initializer.parseConfig(args); err != nil {
		return nil, err
	}
	if err := initializer.applyEnv(lookupEnv); err != nil {
		return nil, err
	}
	if err := initializer.transformConfig(args); err != nil {
		return nil, err
	}
	if err := initializer.Config.Validate(); err != nil {
		return nil, err
	}
	return initializer.Config, nil
}

func newDefaultConfig() *Config {
	return &Config{
		Common:    newDefaultCommonConfig(),
		Generator: newDefaultGeneratorConfig(),
		Scanner:   newDefaultScannerConfig(),
		Filter:    newDefaultFilterConfig(),
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	for _, validate := range []func() error{
		c.Common.validate,
		c.Generator.validate,
		c.Scanner.validate,
		c.Filter.validate,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}
