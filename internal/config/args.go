package config

import (
	"github.com/spf13/pflag"

	"github.com/logsift/logsift/internal/constants"
)

// Command names, as used in Args.Command.
const (
	CommandGenerator = "lgen"
	CommandScanner   = "lscan"
	CommandFilter    = "lfilter"
)

// Flag names.
const (
	FlagConfigFile  = "cfg"
	FlagLogger      = "logger"
	FlagLogLevel    = "logLevel"
	FlagMetricsFile = "metrics-file"
	FlagNoColor     = "no-color"
	FlagVersion     = "version"
	FlagLines       = "lines"
	FlagErrorEvery  = "error-every"
	FlagProgress    = "progress"
	FlagInput       = "input"
	FlagOutput      = "output"
	FlagMarker      = "marker"
	FlagPlain       = "plain"
	FlagChunkSize   = "chunk-size"
	FlagCompression = "compression"
	FlagLevel       = "level"
	FlagMode        = "mode"
	FlagQueueDepth  = "queue-depth"
	FlagDigest      = "digest"
)

// Args is a helper struct to summarize common command-line flags. Only the
// flags the user set override the file and the environment.
type Args struct {
	Command     string
	ConfigFile  string
	Logger      string
	LogLevel    string
	MetricsFile string
	NoColor     bool
	Version     bool

	Lines      int
	ErrorEvery int
	Progress   bool

	Input            string
	Output           string
	Marker           string
	Plain            bool
	ChunkSize        string
	Compression      string
	CompressionLevel int
	Mode             string
	QueueDepth       int
	Digest           bool

	changed func(name string) bool
}

// BindFlags registers the flags of args.Command on flags. Defaults shown in
// the help text are the built-in defaults.
func (a *Args) BindFlags(flags *pflag.FlagSet) {
	a.changed = flags.Changed

	flags.StringVar(&a.ConfigFile, FlagConfigFile, "", "Path to a YAML config file")
	flags.StringVar(&a.Logger, FlagLogger, DefaultLogger, "Logger: stdout, stderr, none or file:<path>")
	flags.StringVar(&a.LogLevel, FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&a.MetricsFile, FlagMetricsFile, "", "Write run metrics in Prometheus text format to this file")
	flags.BoolVar(&a.NoColor, FlagNoColor, false, "Disable colored output")
	flags.BoolVar(&a.Version, FlagVersion, false, "Display version")

	switch a.Command {
	case CommandGenerator:
		flags.IntVar(&a.Lines, FlagLines, constants.DefaultGeneratorLines, "Number of lines to generate")
		flags.IntVar(&a.ErrorEvery, FlagErrorEvery, constants.DefaultErrorEvery, "Every n-th line is an ERROR line")
		flags.StringVarP(&a.Output, FlagOutput, "o", DefaultInput, "Output file (.gz, .zst and .lz4 are compressed)")
		flags.IntVar(&a.CompressionLevel, FlagLevel, 0, "Compression level, 0 for the codec default")
		flags.BoolVar(&a.Progress, FlagProgress, false, "Show a progress bar")
	case CommandScanner:
		flags.StringVarP(&a.Input, FlagInput, "i", DefaultInput, "Input log file")
		flags.StringVarP(&a.Output, FlagOutput, "o", DefaultScannerOutput, "Output file")
		flags.StringVar(&a.Marker, FlagMarker, constants.DefaultMarker, "Substring a matching line contains")
		flags.BoolVar(&a.Plain, FlagPlain, false, "Write matching lines unchanged")
	case CommandFilter:
		flags.StringVarP(&a.Input, FlagInput, "i", DefaultInput, "Input log file")
		flags.StringVarP(&a.Output, FlagOutput, "o", DefaultFilterOutput, "Output file")
		flags.StringVar(&a.Marker, FlagMarker, constants.DefaultMarker, "Substring a matching line contains")
		flags.StringVar(&a.ChunkSize, FlagChunkSize, "64KiB", "Bytes read per cycle, e.g. 4096, 64KB or 1MiB")
		flags.StringVar(&a.Compression, FlagCompression, "auto", "Output compression: auto, none, gzip, zstd or lz4")
		flags.IntVar(&a.CompressionLevel, FlagLevel, -1, "Compression level, -1 for the codec default")
		flags.StringVar(&a.Mode, FlagMode, "sequential", "Execution mode: sequential or staged")
		flags.IntVar(&a.QueueDepth, FlagQueueDepth, constants.DefaultQueueDepth, "Queue depth between stages in staged mode")
		flags.BoolVar(&a.Digest, FlagDigest, false, "Print the BLAKE2b-256 digest of the output")
	}
}
