package config

import (
	"github.com/docker/go-units"

	"github.com/logsift/logsift/internal/compress"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/pipeline"
)

// FilterConfig configures lfilter.
type FilterConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Marker string `yaml:"marker"`
	// ChunkSize is a size like "64KiB", "1MB" or a plain byte count.
	ChunkSize string `yaml:"chunk_size"`
	// Compression is none, gzip, zstd or lz4. "auto" picks the codec from
	// the output extension.
	Compression      string `yaml:"compression"`
	CompressionLevel int    `yaml:"compression_level"`
	Mode             string `yaml:"mode"`
	QueueDepth       int    `yaml:"queue_depth"`
	// Digest prints the BLAKE2b-256 digest of the output after a run.
	Digest bool `yaml:"digest"`
}

func newDefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		Input:            DefaultInput,
		Output:           DefaultFilterOutput,
		Marker:           constants.DefaultMarker,
		ChunkSize:        units.BytesSize(constants.DefaultChunkSize),
		Compression:      "auto",
		CompressionLevel: compress.DefaultLevel,
		Mode:             pipeline.ModeSequential.String(),
		QueueDepth:       constants.DefaultQueueDepth,
	}
}

// ChunkSizeBytes parses ChunkSize.
func (c *FilterConfig) ChunkSizeBytes() (int, error) {
	size, err := ParseSize(c.ChunkSize)
	if err != nil {
		return 0, err
	}
	if size < constants.MinChunkSize || size > constants.MaxChunkSize {
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "chunk size %s out of range", c.ChunkSize)
	}
	return int(size), nil
}

// CompressionKind resolves Compression, looking at the output path for "auto".
func (c *FilterConfig) CompressionKind() (compress.Kind, error) {
	if c.Compression == "auto" {
		return compress.KindFromPath(c.Output), nil
	}
	return compress.ParseKind(c.Compression)
}

// PipelineConfig converts the filter configuration into a pipeline
// configuration.
func (c *FilterConfig) PipelineConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	chunkSize, err := c.ChunkSizeBytes()
	if err != nil {
		return cfg, err
	}
	kind, err := c.CompressionKind()
	if err != nil {
		return cfg, err
	}
	mode, err := pipeline.ParseMode(c.Mode)
	if err != nil {
		return cfg, err
	}

	cfg.ChunkSize = chunkSize
	cfg.Marker = c.Marker
	cfg.Compression = kind
	cfg.CompressionLevel = c.CompressionLevel
	cfg.Mode = mode
	cfg.QueueDepth = c.QueueDepth
	return cfg, cfg.Validate()
}

func (c *FilterConfig) validate() error {
	if c.Input == "" || c.Output == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "filter: input and output are required")
	}
	if _, err := c.PipelineConfig(); err != nil {
		return errors.Wrap(err, "filter")
	}
	return nil
}

// ParseSize parses sizes like "64KB", "64KiB", "1m" or "4096". Both decimal
// and binary suffixes are read as powers of 1024, as chunk sizes usually are.
func ParseSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "size %q: %v", s, err)
	}
	return size, nil
}
