//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals cancel a running simulation, server or MCP session.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
