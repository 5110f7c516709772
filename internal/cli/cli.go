// Package cli holds what lgen, lscan and lfilter share around their actual
// work: flag binding, configuration setup, logging, profiling, signal
// handling, metrics output and exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/logsift/logsift/internal/color"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/constants"
	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/io/dlog"
	"github.com/logsift/logsift/internal/io/signal"
	"github.com/logsift/logsift/internal/metrics"
	"github.com/logsift/logsift/internal/profiling"
	"github.com/logsift/logsift/internal/version"
)

// Runtime is handed to a command's run function once everything is set up.
type Runtime struct {
	// Metrics collects the run counters. Written to the metrics file, if
	// configured, after the run function returned.
	Metrics *metrics.Collector
	// Interrupts receives a hint on the first Ctrl+C. A command may print
	// its progress when it does.
	Interrupts <-chan string
	// Out receives the run summary.
	Out io.Writer
	// Painted tells whether Out is a terminal that may be painted.
	Painted bool
}

// RunFunc does the work of a command.
type RunFunc func(ctx context.Context, rt *Runtime) error

// NewCommand creates the root command of the command named name.
func NewCommand(name, short, long string, run RunFunc) *cobra.Command {
	args := &config.Args{Command: name}
	var profilingFlags profiling.Flags

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Long:  long,
		Args: func(cmd *cobra.Command, positional []string) error {
			return errors.Mark(errors.ErrInvalidArgument, cobra.NoArgs(cmd, positional))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if args.Version {
				version.Print(args.NoColor)
				return nil
			}
			return start(cmd.Context(), args, profilingFlags, run)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(errors.ErrInvalidArgument, err)
	})

	args.BindFlags(cmd.Flags())
	profiling.AddFlags(cmd.Flags(), &profilingFlags)
	return cmd
}

func start(ctx context.Context, args *config.Args, profilingFlags profiling.Flags, run RunFunc) error {
	if err := config.Setup(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	if err := dlog.Start(ctx, &wg, config.Common.Logger, config.Common.LogLevel); err != nil {
		return errors.Mark(errors.ErrInvalidConfig, err)
	}
	defer wg.Wait()
	defer cancel()

	profiler := profiling.NewProfiler(profilingFlags.ToConfig(args.Command))
	defer profiler.Stop()

	rt := &Runtime{
		Metrics:    metrics.New(),
		Interrupts: signal.InterruptChWithCancel(ctx, cancel),
		Out:        os.Stdout,
		Painted:    color.Enabled(os.Stdout, config.Common.NoColor),
	}

	err := run(ctx, rt)
	profiler.LogMetrics(args.Command)

	if path := config.Common.MetricsFile; path != "" {
		if merr := rt.Metrics.WriteTextfile(path); merr != nil {
			dlog.Common.Warn("Unable to write metrics", merr)
			if err == nil {
				err = merr
			}
		}
	}
	return err
}

// Execute runs cmd and exits the process with the matching exit code.
func Execute(cmd *cobra.Command) {
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Paint(color.Enabled(os.Stderr, false), color.Failure, "Error:"), err)
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps an error to the process exit status: 0 on success, 2 for
// usage and configuration errors, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return constants.ExitOK
	case errors.Is(err, errors.ErrInvalidArgument), errors.Is(err, errors.ErrInvalidConfig):
		return constants.ExitUsage
	default:
		return constants.ExitFailure
	}
}
