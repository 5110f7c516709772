// Package bufferedpipe provides bounded hand-off queues between the
// goroutines of a staged pipeline. A producer blocks once depth items are
// queued, so memory held in flight is bounded no matter how far the
// stages drift apart.
package bufferedpipe

import (
	"context"
	"io"
	"sync"

	"github.com/logsift/logsift/internal/errors"
)

// ErrClosed is returned by Send once the consumer side has been closed.
var ErrClosed = errors.New("pipe closed")

// Pipe is a single producer, single consumer queue of at most depth items.
type Pipe[T any] struct {
	items chan T
	done  chan struct{}
	once  sync.Once
}

// New creates a pipe buffering up to depth items. A depth below 1 is
// treated as 1.
func New[T any](depth int) *Pipe[T] {
	if depth < 1 {
		depth = 1
	}
	return &Pipe[T]{
		items: make(chan T, depth),
		done:  make(chan struct{}),
	}
}

// Depth returns the number of items the pipe buffers.
func (p *Pipe[T]) Depth() int {
	return cap(p.items)
}

// Send queues v, blocking while the pipe is full. It fails when ctx is done
// or the consumer closed the pipe.
func (p *Pipe[T]) Send(ctx context.Context, v T) error {
	select {
	case p.items <- v:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return errors.Mark(errors.ErrCanceled, ctx.Err())
	}
}

// CloseSend signals that the producer will not send any more items. Items
// already queued are still delivered. Only the producer may call it, once.
func (p *Pipe[T]) CloseSend() {
	close(p.items)
}

// Receive returns the next item. After CloseSend and once the queue is
// drained it returns io.EOF.
func (p *Pipe[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-p.items:
		if !ok {
			return zero, io.EOF
		}
		return v, nil
	case <-p.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, errors.Mark(errors.ErrCanceled, ctx.Err())
	}
}

// Close is called by the consumer to abandon the pipe. Blocked and future
// Sends return ErrClosed. It is safe to call more than once.
func (p *Pipe[T]) Close() error {
	p.once.Do(func() {
		close(p.done)
	})
	return nil
}

// Drain hands every item still queued to recycle (which may be nil) and
// returns without waiting for the producer. Call it once all stages have
// stopped.
func (p *Pipe[T]) Drain(recycle func(T)) {
	for {
		select {
		case v, ok := <-p.items:
			if !ok {
				return
			}
			if recycle != nil {
				recycle(v)
			}
		default:
			return
		}
	}
}
