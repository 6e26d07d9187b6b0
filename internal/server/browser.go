package server

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// browserCommands maps GOOS to the launcher that opens a URL.
var browserCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenBrowser opens url in the desktop browser without waiting for it.
// $BROWSER, when set, takes precedence over the platform launcher.
func OpenBrowser(url string) error {
	args, err := browserCommand(runtime.GOOS, os.Getenv("BROWSER"))
	if err != nil {
		return err
	}
	return exec.Command(args[0], append(args[1:], url)...).Start()
}

func browserCommand(goos, override string) ([]string, error) {
	if override != "" {
		return []string{override}, nil
	}
	args, ok := browserCommands[goos]
	if !ok {
		return nil, fmt.Errorf("no browser launcher for %s", goos)
	}
	return args, nil
}
