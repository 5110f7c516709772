package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/logsift/logsift/internal/errors"
)

// Used to initialize the configuration.
type initializer struct {
	Config *Config
}

// parseConfig reads the YAML file named by args.ConfigFile over the
// defaults. Keys missing in the file keep their defaults; unknown keys are
// rejected. An empty ConfigFile or "none" skips the file.
func (in *initializer) parseConfig(args *Args) error {
	if args == nil || args.ConfigFile == "" || args.ConfigFile == "none" {
		return nil
	}

	data, err := os.ReadFile(args.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Mark(errors.ErrFileNotFound, err)
		}
		return errors.Mark(errors.ErrInvalidConfig, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(in.Config); err != nil && err != io.EOF {
		return errors.Wrapf(errors.ErrInvalidConfig, "parsing %s: %v", args.ConfigFile, err)
	}
	in.fillMissingSections()
	return nil
}

// A section set to null in the file would otherwise leave a nil pointer.
func (in *initializer) fillMissingSections() {
	defaults := newDefaultConfig()
	if in.Config.Common == nil {
		in.Config.Common = defaults.Common
	}
	if in.Config.Generator == nil {
		in.Config.Generator = defaults.Generator
	}
	if in.Config.Scanner == nil {
		in.Config.Scanner = defaults.Scanner
	}
	if in.Config.Filter == nil {
		in.Config.Filter = defaults.Filter
	}
}

// transformConfig applies the command-line flags the user actually set.
func (in *initializer) transformConfig(args *Args) error {
	if args == nil {
		return nil
	}
	changed := args.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	common := in.Config.Common
	if changed(FlagLogger) {
		common.Logger = args.Logger
	}
	if changed(FlagLogLevel) {
		common.LogLevel = args.LogLevel
	}
	if changed(FlagMetricsFile) {
		common.MetricsFile = args.MetricsFile
	}
	if changed(FlagNoColor) {
		common.NoColor = args.NoColor
	}

	switch args.Command {
	case CommandGenerator:
		gen := in.Config.Generator
		if changed(FlagLines) {
			gen.Lines = args.Lines
		}
		if changed(FlagErrorEvery) {
			gen.ErrorEvery = args.ErrorEvery
		}
		if changed(FlagOutput) {
			gen.Output = args.Output
		}
		if changed(FlagLevel) {
			gen.CompressionLevel = args.CompressionLevel
		}
		if changed(FlagProgress) {
			gen.Progress = args.Progress
		}
	case CommandScanner:
		scan := in.Config.Scanner
		if changed(FlagInput) {
			scan.Input = args.Input
		}
		if changed(FlagOutput) {
			scan.Output = args.Output
		}
		if changed(FlagMarker) {
			scan.Marker = args.Marker
		}
		if changed(FlagPlain) {
			scan.Plain = args.Plain
		}
	case CommandFilter:
		filter := in.Config.Filter
		if changed(FlagInput) {
			filter.Input = args.Input
		}
		if changed(FlagOutput) {
			filter.Output = args.Output
		}
		if changed(FlagMarker) {
			filter.Marker = args.Marker
		}
		if changed(FlagChunkSize) {
			filter.ChunkSize = args.ChunkSize
		}
		if changed(FlagCompression) {
			filter.Compression = args.Compression
		}
		if changed(FlagLevel) {
			filter.CompressionLevel = args.CompressionLevel
		}
		if changed(FlagMode) {
			filter.Mode = args.Mode
		}
		if changed(FlagQueueDepth) {
			filter.QueueDepth = args.QueueDepth
		}
		if changed(FlagDigest) {
			filter.Digest = args.Digest
		}
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown command %q", args.Command)
	}
	return nil
}
