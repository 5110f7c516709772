// Package profiling writes pprof CPU and heap profiles of a command run, to
// compare the memory use of the line scanner and the chunked pipeline.
package profiling

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/docker/go-units"

	"github.com/logsift/logsift/internal/io/dlog"
)

const timestampFormat = "20060102_150405"

// Profiler manages CPU and memory profiling of a command.
type Profiler struct {
	cpuProfile  *os.File
	memProfile  string
	profileDir  string
	commandName string
	enabled     bool
}

// Config holds profiling configuration
type Config struct {
	CPUProfile  bool
	MemProfile  bool
	ProfileDir  string
	// CommandName prefixes the profile file names.
	CommandName string
}

// NewProfiler creates a profiler and starts CPU profiling if requested.
// Failures are logged and disable profiling; they never stop the command.
func NewProfiler(cfg Config) *Profiler {
	if !cfg.CPUProfile && !cfg.MemProfile {
		return &Profiler{enabled: false}
	}

	p := &Profiler{
		profileDir:  cfg.ProfileDir,
		commandName: cfg.CommandName,
		enabled:     true,
	}
	if p.profileDir == "" {
		p.profileDir = "profiles"
	}
	if err := os.MkdirAll(p.profileDir, 0755); err != nil {
		dlog.Common.Warn("Unable to create profile directory", p.profileDir, err)
		p.enabled = false
		return p
	}

	if cfg.CPUProfile {
		p.startCPUProfile()
	}
	if cfg.MemProfile {
		p.memProfile = p.path("mem")
	}
	return p
}

func (p *Profiler) path(kind string) string {
	name := fmt.Sprintf("%s_%s_%s.prof", p.commandName, kind, time.Now().Format(timestampFormat))
	return filepath.Join(p.profileDir, name)
}

func (p *Profiler) startCPUProfile() {
	path := p.path("cpu")
	f, err := os.Create(path)
	if err != nil {
		dlog.Common.Warn("Unable to create CPU profile", path, err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		dlog.Common.Warn("Unable to start CPU profile", err)
		f.Close()
		return
	}

	p.cpuProfile = f
	dlog.Common.Info("Started CPU profiling", path)
}

// Stop stops CPU profiling and writes the heap and allocation profiles.
func (p *Profiler) Stop() {
	if !p.enabled {
		return
	}

	if p.cpuProfile != nil {
		pprof.StopCPUProfile()
		p.cpuProfile.Close()
		p.cpuProfile = nil
		dlog.Common.Info("Stopped CPU profiling")
	}
	if p.memProfile != "" {
		p.writeHeapProfile(p.memProfile)
		p.writeAllocProfile()
	}
}

func (p *Profiler) writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		dlog.Common.Warn("Unable to create memory profile", path, err)
		return
	}
	defer f.Close()

	// Up to date statistics.
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		dlog.Common.Warn("Unable to write memory profile", path, err)
		return
	}
	dlog.Common.Info("Wrote memory profile", path)
}

func (p *Profiler) writeAllocProfile() {
	path := p.path("alloc")
	f, err := os.Create(path)
	if err != nil {
		dlog.Common.Warn("Unable to create allocation profile", path, err)
		return
	}
	defer f.Close()

	if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
		dlog.Common.Warn("Unable to write allocation profile", path, err)
		return
	}
	dlog.Common.Info("Wrote allocation profile", path)
}

// Snapshot writes a heap profile labeled label, e.g. between two runs.
func (p *Profiler) Snapshot(label string) {
	if !p.enabled || p.memProfile == "" {
		return
	}
	p.writeHeapProfile(p.path("snapshot_" + label))
}

// Metrics are runtime statistics worth logging next to a run summary.
type Metrics struct {
	Alloc        uint64
	TotalAlloc   uint64
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// GetMetrics returns current runtime metrics
func GetMetrics() Metrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Metrics{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// String formats the metrics with human readable sizes.
func (m Metrics) String() string {
	return fmt.Sprintf("alloc=%s total_alloc=%s sys=%s num_gc=%d gc_pause=%s goroutines=%d",
		units.BytesSize(float64(m.Alloc)), units.BytesSize(float64(m.TotalAlloc)),
		units.BytesSize(float64(m.Sys)), m.NumGC,
		time.Duration(m.PauseTotalNs).Round(time.Microsecond), m.NumGoroutine)
}

// LogMetrics logs current runtime metrics
func (p *Profiler) LogMetrics(label string) {
	if !p.enabled {
		return
	}
	dlog.Common.Info("Profile metrics", label, GetMetrics())
}
