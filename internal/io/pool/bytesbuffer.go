package pool

import (
	"bytes"
	"sync"

	"github.com/logsift/logsift/internal/constants"
)

// BytesBuffer is there to optimize memory allocations. The line scanner
// otherwise allocates a buffer for every line it reads.
var BytesBuffer = sync.Pool{
	New: func() interface{} {
		b := bytes.Buffer{}
		// Most log lines are between 50-500 bytes, but some can be larger
		b.Grow(constants.LineBufferInitialCapacity)
		return &b
	},
}

// RecycleBytesBuffer recycles the buffer again.
func RecycleBytesBuffer(b *bytes.Buffer) {
	b.Reset()
	BytesBuffer.Put(b)
}
