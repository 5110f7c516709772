package pool

import "sync"

// Chunks hands out read buffers of a single, fixed size. The filter pipeline
// uses one Chunks per run so buffers never mix between chunk sizes.
type Chunks struct {
	size int
	pool sync.Pool
}

// NewChunks returns a pool of size byte buffers.
func NewChunks(size int) *Chunks {
	c := &Chunks{size: size}
	c.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}
	return c
}

// Size returns the length of the buffers handed out.
func (c *Chunks) Size() int {
	return c.size
}

// Get returns a buffer of exactly Size() bytes.
func (c *Chunks) Get() *[]byte {
	buf := c.pool.Get().(*[]byte)
	*buf = (*buf)[:c.size]
	return buf
}

// Put returns a buffer to the pool. Buffers of a different capacity are dropped.
func (c *Chunks) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != c.size {
		return
	}
	c.pool.Put(buf)
}
