package config

import (
	"os"
	"strconv"

	"github.com/logsift/logsift/internal/errors"
)

// Env returns true when a given environment variable is set to "yes".
func Env(env string) bool {
	return "yes" == os.Getenv(env)
}

func lookupEnv(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

// applyEnv overrides the configuration with LOGSIFT_* variables. lookup is
// called with the name without prefix.
func (in *initializer) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOGGER":       &in.Config.Common.Logger,
		"LOG_LEVEL":    &in.Config.Common.LogLevel,
		"METRICS_FILE": &in.Config.Common.MetricsFile,
		"MARKER":       &in.Config.Filter.Marker,
		"CHUNK_SIZE":   &in.Config.Filter.ChunkSize,
		"COMPRESSION":  &in.Config.Filter.Compression,
		"MODE":         &in.Config.Filter.Mode,
	}
	for name, field := range strs {
		if value, ok := lookup(name); ok {
			*field = value
		}
	}
	// One marker for both, the scanner and the filter.
	if value, ok := lookup("MARKER"); ok {
		in.Config.Scanner.Marker = value
	}

	ints := map[string]*int{
		"QUEUE_DEPTH":       &in.Config.Filter.QueueDepth,
		"COMPRESSION_LEVEL": &in.Config.Filter.CompressionLevel,
		"LINES":             &in.Config.Generator.Lines,
		"ERROR_EVERY":       &in.Config.Generator.ErrorEvery,
	}
	for name, field := range ints {
		value, ok := lookup(name)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "%s%s=%q", EnvPrefix, name, value)
		}
		*field = i
	}

	if value, ok := lookup("NO_COLOR"); ok {
		in.Config.Common.NoColor = value == "yes" || value == "true" || value == "1"
	}
	return nil
}
