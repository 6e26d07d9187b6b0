package main

import (
	"fmt"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run as an MCP server over stdio",
		Long: `Run attacksim as a Model Context Protocol server on stdin/stdout.

Tools:
  attack_simulate   run a dictionary or brute-force simulation
  toy_hash          compute the toy hash of a string
  attack_history    list or clear recorded runs

Tool calls are rate limited and audited to ~/.attacksim/audit.jsonl.
Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := mcp.NewServer(a.svc, &mcp.Config{
				Name:         "attacksim",
				Version:      version,
				WordlistDirs: a.cfg.Server.WordlistDirs,
				AuditDir:     a.dataDir,
				Logger:       a.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a.logger.Info("mcp server starting", "version", version)
			return srv.Run(ctx)
		},
	}
}
