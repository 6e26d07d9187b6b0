package main

import (
	"context"
	"os/signal"
)

// signalContext returns a context cancelled when the process receives one of
// shutdownSignals. The returned stop function restores default handling.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
