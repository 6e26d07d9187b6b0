package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Long: `Start a local HTTP server with the interactive simulator page.

Endpoints:
  GET    /                 single-page UI
  POST   /api/simulate     run a simulation, streaming NDJSON progress
  POST   /api/hash         toy-hash a string
  GET    /api/history      recent runs and summary
  DELETE /api/history      clear recorded runs

Wordlist files can only be referenced from server.wordlist_dirs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			noOpen, _ := cmd.Flags().GetBool("no-open")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			srv := server.New(a.svc, server.Options{
				Addr:          addr,
				RatePerMinute: a.cfg.Server.RatePerMinute,
				Burst:         a.cfg.Server.Burst,
				WordlistDirs:  a.cfg.Server.WordlistDirs,
				Paced:         a.cfg.Simulation.Runner(true),
				Logger:        a.logger,
			})
			return runServer(cmd, cmd.Context(), srv, noOpen)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default server.addr from config)")
	cmd.Flags().Bool("no-open", false, "Do not open a browser")

	return cmd
}

// runServer starts srv and blocks until Ctrl-C.
func runServer(cmd *cobra.Command, ctx context.Context, srv *server.Server, noOpen bool) error {
	srvCtx, stop := signalContext(ctx)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(srvCtx) }()

	// Wait for server to start
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Addr() != "" {
			break
		}
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-time.After(10 * time.Millisecond):
		}
	}

	addr := srv.Addr()
	if addr == "" {
		return fmt.Errorf("server failed to start")
	}

	url := "http://" + addr
	fmt.Fprintf(cmd.OutOrStdout(), "Simulator running at %s\n", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

	if !noOpen {
		if err := server.OpenBrowser(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
		}
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
