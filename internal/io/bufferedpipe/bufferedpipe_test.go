package bufferedpipe

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/errors"
	"github.com/logsift/logsift/internal/testutil"
)

func TestPipeDeliversInOrder(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		items int
	}{
		{"depth_zero", 0, 10},
		{"depth_one", 1, 100},
		{"deep", 16, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p := New[int](tt.depth)

			go func() {
				defer p.CloseSend()
				for i := 0; i < tt.items; i++ {
					if err := p.Send(ctx, i); err != nil {
						t.Errorf("Send: %v", err)
						return
					}
				}
			}()

			for i := 0; i < tt.items; i++ {
				v, err := p.Receive(ctx)
				testutil.AssertNoError(t, err)
				testutil.AssertEqual(t, i, v)
			}
			_, err := p.Receive(ctx)
			testutil.AssertEqual(t, io.EOF, err)
		})
	}
}

func TestPipeIsBounded(t *testing.T) {
	ctx := context.Background()
	p := New[int](2)

	testutil.AssertNoError(t, p.Send(ctx, 1))
	testutil.AssertNoError(t, p.Send(ctx, 2))

	sent := make(chan struct{})
	go func() {
		p.Send(ctx, 3)
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("Send on a full pipe must block")
	case <-time.After(50 * time.Millisecond):
	}

	v, err := p.Receive(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 1, v)

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		t.Fatal("Send did not resume after Receive")
	}
}

func TestPipeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New[int](1)
	testutil.AssertNoError(t, p.Send(ctx, 1))

	cancel()
	err := p.Send(ctx, 2)
	if !errors.Is(err, errors.ErrCanceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}

	empty := New[int](1)
	_, err = empty.Receive(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPipeClose(t *testing.T) {
	ctx := context.Background()
	p := New[string](1)
	testutil.AssertNoError(t, p.Send(ctx, "a"))

	var wg sync.WaitGroup
	wg.Add(1)
	var sendErr error
	go func() {
		defer wg.Done()
		sendErr = p.Send(ctx, "b")
	}()

	testutil.AssertNoError(t, p.Close())
	testutil.AssertNoError(t, p.Close())
	wg.Wait()
	testutil.AssertEqual(t, ErrClosed, sendErr)
}

func TestPipeDrain(t *testing.T) {
	ctx := context.Background()
	p := New[int](4)
	for i := 0; i < 4; i++ {
		testutil.AssertNoError(t, p.Send(ctx, i))
	}

	var recycled []int
	p.Drain(func(v int) { recycled = append(recycled, v) })
	testutil.AssertEqual(t, 4, len(recycled))
	testutil.AssertEqual(t, 4, p.Depth())

	// Nothing queued and the producer still open: Drain must not block.
	p.Drain(nil)
	p.CloseSend()
	p.Drain(nil)
}
