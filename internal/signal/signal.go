// Package signal ties interrupt signals to a context so a run can wind down
// its tasks instead of dying with the cursor hidden.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals are the signals SetUpHandler reacts to.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// exitCode is used when a second signal arrives before action returned.
const exitCode = 130

// SetUpHandler runs action with a context that is cancelled on the first
// SIGINT or SIGTERM. onSignal, if not nil, is called with the signal before
// the context is cancelled. A second signal exits the process at once.
func SetUpHandler(onSignal func(os.Signal), action func(context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, Signals...)
	defer signal.Stop(sigChan)

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-stop:
			return
		}

		select {
		case <-sigChan:
			os.Exit(exitCode)
		case <-stop:
		}
	}()

	return action(ctx)
}
