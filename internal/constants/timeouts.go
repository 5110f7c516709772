package constants

import "time"

// Timeout constants used throughout the application
const (
	// InterruptTimeoutSeconds is how long a second Ctrl+C is awaited before
	// the "hit again to exit" hint is reset
	InterruptTimeoutSeconds = 3

	// ShutdownGracePeriod is how long a cancelled run may take to close its
	// output before the process is forced to exit
	ShutdownGracePeriod = 5 * time.Second

	// ProgressThrottle is the minimum interval between progress bar redraws
	ProgressThrottle = 100 * time.Millisecond
)
