package constants

// Numeric limits and default values
const (
	// DefaultMarker is the substring a line must contain to be kept
	DefaultMarker = "[ERROR]"

	// LineTerminator separates logical lines
	LineTerminator byte = '\n'

	// DefaultGeneratorLines is how many lines the generator writes by default
	DefaultGeneratorLines = 1000000

	// DefaultErrorEvery makes every Nth generated line an ERROR line (10%)
	DefaultErrorEvery = 10

	// ExitOK is the exit status of a successful run
	ExitOK = 0

	// ExitFailure is the exit status of an aborted run
	ExitFailure = 1

	// ExitUsage is the exit status for invalid flags or configuration
	ExitUsage = 2
)

// PercentageMultiplier is used for percentage calculations
const PercentageMultiplier = 100.0

// MaxConsecutiveEmptyReads is how many (0, nil) reads a source may return in
// a row before it is considered broken
const MaxConsecutiveEmptyReads = 100
