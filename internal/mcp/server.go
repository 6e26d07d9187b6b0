// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the attack simulator as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/logging"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/ratelimit"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
)

// Server wraps the MCP SDK server and routes tool calls to a simulate.Service.
type Server struct {
	server       *sdk.Server
	svc          *simulate.Service
	limits       simulate.Limits
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "attacksim")
	Version string // Server version

	// WordlistDirs lists directories the wordlist_ref argument may point into.
	WordlistDirs []string
	// MaxCeiling caps requested ceilings. Zero means simulate.DefaultMaxCeiling.
	MaxCeiling int

	// AuditDir receives audit.jsonl. Empty disables the audit log.
	AuditDir string

	Logger *slog.Logger
}

// NewServer creates a new MCP server with the simulator tools registered.
func NewServer(svc *simulate.Service, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, errors.New("mcp: nil simulate service")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		svc:          svc,
		limits:       simulate.Limits{WordlistDirs: cfg.WordlistDirs, MaxCeiling: cfg.MaxCeiling},
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       logger,
	}
	if cfg.AuditDir != "" {
		s.auditLogger = NewAuditLogger(cfg.AuditDir)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled, then closes the audit log.
func (s *Server) Run(ctx context.Context) error {
	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.Close()
	return err
}

// Close releases the audit log. The Service's store and sink belong to
// the caller.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}
