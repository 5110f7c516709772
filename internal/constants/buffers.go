package constants

// Buffer size constants in bytes
const (
	// DefaultChunkSize is the default number of bytes the filter pipeline reads per cycle (64KB)
	DefaultChunkSize = 64 * 1024

	// MinChunkSize is the smallest chunk size accepted by the pipeline
	MinChunkSize = 1

	// MaxChunkSize caps a single read so one chunk can never dominate memory (64MB)
	MaxChunkSize = 64 * 1024 * 1024

	// LineBufferInitialCapacity is the initial capacity for pooled line buffers (4KB)
	LineBufferInitialCapacity = 4096

	// ReadBufferSize is the size of the line scanner's read buffer (64KB)
	ReadBufferSize = 64 * 1024

	// WriteBufferSize is the size of buffered file writers (64KB)
	WriteBufferSize = 64 * 1024
)
