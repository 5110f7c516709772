package constants

// Channel buffer size constants
const (
	// DefaultQueueDepth is the number of units buffered between two pipeline
	// stages in staged mode. Every extra slot costs up to one chunk of memory.
	DefaultQueueDepth = 1

	// MaxQueueDepth bounds the configurable queue depth
	MaxQueueDepth = 64
)
