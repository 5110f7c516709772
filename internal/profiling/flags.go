package profiling

import "github.com/spf13/pflag"

// Flags holds command-line flags for profiling
type Flags struct {
	CPUProfile bool
	MemProfile bool
	// Profile enables CPU and memory profiling.
	Profile    bool
	ProfileDir string
}

// AddFlags registers the profiling flags on flags.
func AddFlags(flags *pflag.FlagSet, f *Flags) {
	flags.BoolVar(&f.CPUProfile, "cpuprofile", false, "Enable CPU profiling")
	flags.BoolVar(&f.MemProfile, "memprofile", false, "Enable memory profiling")
	flags.BoolVar(&f.Profile, "profile", false, "Enable all profiling (CPU + memory)")
	flags.StringVar(&f.ProfileDir, "profiledir", "profiles", "Directory to store profiles")
}

// ToConfig converts flags to profiler config
func (f *Flags) ToConfig(commandName string) Config {
	return Config{
		CPUProfile:  f.CPUProfile || f.Profile,
		MemProfile:  f.MemProfile || f.Profile,
		ProfileDir:  f.ProfileDir,
		CommandName: commandName,
	}
}

// Enabled returns true if any profiling is enabled
func (f *Flags) Enabled() bool {
	return f.CPUProfile || f.MemProfile || f.Profile
}
