package signal

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/logsift/logsift/internal/constants"
)

func TestSecondInterruptCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigIntCh := make(chan os.Signal, 2)
	statsCh := watch(ctx, cancel, sigIntCh, make(chan os.Signal), func(int) {})

	sigIntCh <- os.Interrupt
	select {
	case hint := <-statsCh:
		if hint == "" {
			t.Error("expected a hint")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no hint after first interrupt")
	}
	if ctx.Err() != nil {
		t.Fatal("first interrupt must not cancel")
	}

	sigIntCh <- os.Interrupt
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("second interrupt did not cancel")
	}
}

func TestTerminateCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigOtherCh := make(chan os.Signal, 1)
	watch(ctx, cancel, make(chan os.Signal), sigOtherCh, func(int) {})

	sigOtherCh <- syscall.SIGTERM
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("SIGTERM did not cancel")
	}
}

func TestInterruptCancelsWithoutReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigIntCh := make(chan os.Signal, 3)
	watch(ctx, cancel, sigIntCh, make(chan os.Signal), func(int) {})

	for i := 0; i < 3; i++ {
		sigIntCh <- os.Interrupt
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("repeated interrupts without a hint reader did not cancel")
	}
}

func TestInterruptAfterTimeoutOnlyHints(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the interrupt timeout")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigIntCh := make(chan os.Signal, 1)
	statsCh := watch(ctx, cancel, sigIntCh, make(chan os.Signal), func(int) {})

	sigIntCh <- os.Interrupt
	<-statsCh
	time.Sleep(time.Duration(constants.InterruptTimeoutSeconds)*time.Second + 200*time.Millisecond)

	sigIntCh <- os.Interrupt
	select {
	case <-statsCh:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a new hint once the timeout passed")
	}
	if ctx.Err() != nil {
		t.Error("an interrupt after the timeout must not cancel")
	}
}
