// Package signal turns process signals into context cancellation.
package signal

import (
	"context"
	"os"
	gosignal "os/signal"
	"syscall"
	"time"

	"github.com/logsift/logsift/internal/constants"
)

// InterruptChWithCancel returns a channel for "please print stats" signalling.
// The first Ctrl+C offers a hint on the returned channel; a second one within
// the interrupt timeout cancels the run, also when the hint was never read. SIGHUP, SIGTERM and SIGQUIT cancel
// right away. If the process is still alive after the shutdown grace period
// following a cancellation, it exits with a failure code.
func InterruptChWithCancel(ctx context.Context, cancel context.CancelFunc) <-chan string {
	sigIntCh := make(chan os.Signal, 10)
	gosignal.Notify(sigIntCh, os.Interrupt)
	sigOtherCh := make(chan os.Signal, 10)
	gosignal.Notify(sigOtherCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)

	return watch(ctx, cancel, sigIntCh, sigOtherCh, os.Exit)
}

func watch(ctx context.Context, cancel context.CancelFunc, sigIntCh, sigOtherCh <-chan os.Signal,
	exit func(int)) <-chan string {

	forceExit := func() {
		time.Sleep(constants.ShutdownGracePeriod)
		exit(constants.ExitFailure)
	}
	interruptTimeout := time.Second * time.Duration(constants.InterruptTimeoutSeconds)
	statsCh := make(chan string, 1)

	go func() {
		// A second Ctrl+C before armedUntil cancels, whether or not anybody
		// took the hint of the first one.
		var armedUntil time.Time
		for {
			select {
			case <-sigIntCh:
				now := time.Now()
				if now.Before(armedUntil) {
					cancel()
					go forceExit()
					continue
				}
				armedUntil = now.Add(interruptTimeout)
				select {
				case statsCh <- "Hint: Hit Ctrl+C again to abort":
				default:
					// Previous hint not taken yet.
				}
			case <-sigOtherCh:
				cancel()
				go forceExit()
			case <-ctx.Done():
				return
			}
		}
	}()
	return statsCh
}
