package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context cancelled on the first shutdown signal.
// Cancellation stops running office and browser processes; deferred cleanup
// such as listener shutdown still runs.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
