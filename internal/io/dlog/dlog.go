// Package dlog is the logging facade used by all LogSift commands. It keeps
// the call style of a tiny leveled logger (dlog.Common.Info("a", "b")) while
// handing encoding, level filtering and output to zap.
//
// Every log method returns the formatted message, so callers can also surface
// it to the user (e.g. as a warning on stderr) without formatting twice.
package dlog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger names understood by Start.
const (
	LoggerStdout = "stdout"
	LoggerStderr = "stderr"
	LoggerNone   = "none"
	// LoggerFilePrefix selects a log file, e.g. "file:/var/log/lfilter.log".
	LoggerFilePrefix = "file:"
)

// Common is the logger shared by all packages. It discards everything until
// Start replaced it.
var Common = New(zap.NewNop())

var mu sync.Mutex

// DLog is a leveled logger.
type DLog struct {
	logger *zap.Logger
}

// New wraps an existing zap logger.
func New(logger *zap.Logger) *DLog {
	return &DLog{logger: logger}
}

// Start builds the Common logger from a logger name and a level and arranges
// for it to be synced once ctx is done. wg.Done is called after the sync.
func Start(ctx context.Context, wg *sync.WaitGroup, loggerName, level string) error {
	logger, err := build(loggerName, level)
	if err != nil {
		wg.Done()
		return err
	}

	mu.Lock()
	Common = New(logger)
	mu.Unlock()

	go func() {
		defer wg.Done()
		<-ctx.Done()
		// Sync on stdout/stderr returns EINVAL on some platforms.
		_ = logger.Sync()
	}()
	return nil
}

func build(loggerName, level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var sink zapcore.WriteSyncer
	switch {
	case loggerName == LoggerNone:
		return zap.NewNop(), nil
	case loggerName == LoggerStdout:
		sink = zapcore.Lock(os.Stdout)
	case loggerName == LoggerStderr || loggerName == "":
		sink = zapcore.Lock(os.Stderr)
	case strings.HasPrefix(loggerName, LoggerFilePrefix):
		path := strings.TrimPrefix(loggerName, LoggerFilePrefix)
		fd, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", path, err)
		}
		sink = zapcore.AddSync(fd)
	default:
		return nil, fmt.Errorf("unknown logger %q", loggerName)
	}

	return zap.New(zapcore.NewCore(newEncoder(), sink, lvl)), nil
}

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = "|"
	return zapcore.NewConsoleEncoder(cfg)
}

// ParseLevel maps debug, info, warn and error to zap levels.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug", "trace", "devel":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// With returns a logger that adds key=value to every entry.
func (d *DLog) With(key string, value interface{}) *DLog {
	return New(d.logger.With(zap.Any(key, value)))
}

// Debug logs at debug level.
func (d *DLog) Debug(args ...interface{}) string {
	return d.log(zapcore.DebugLevel, args)
}

// Info logs at info level.
func (d *DLog) Info(args ...interface{}) string {
	return d.log(zapcore.InfoLevel, args)
}

// Warn logs at warn level.
func (d *DLog) Warn(args ...interface{}) string {
	return d.log(zapcore.WarnLevel, args)
}

// Error logs at error level.
func (d *DLog) Error(args ...interface{}) string {
	return d.log(zapcore.ErrorLevel, args)
}

func (d *DLog) log(level zapcore.Level, args []interface{}) string {
	msg := format(args)
	if ce := d.logger.Check(level, msg); ce != nil {
		ce.Write()
	}
	return msg
}

func format(args []interface{}) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, "|")
}
