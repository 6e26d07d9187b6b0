//go:build windows

package main

import "os"

// shutdownSignals holds Ctrl-C only; Windows delivers no SIGTERM.
var shutdownSignals = []os.Signal{os.Interrupt}
