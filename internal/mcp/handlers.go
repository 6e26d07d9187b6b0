package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/ratelimit"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/toyhash"
)

const (
	recentRunsURI   = "attacksim://history/recent"
	defaultListSize = 20
)

// registerTools registers all simulator tools with the MCP server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name: "attack_simulate",
		Description: "Run an educational dictionary or brute-force attack against a password or toy-hash digest you supply. " +
			"Nothing outside this process is contacted. Sends progress notifications when the request carries a progress token.",
	}, s.handleAttackSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "toy_hash",
		Description: "Compute the toy 32-bit string hash used for hashed targets. Not a real password hash.",
	}, s.handleToyHash)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "attack_history",
		Description: "List recorded simulation runs with an aggregate summary, or clear them",
	}, s.handleAttackHistory)
}

// registerResources exposes recent runs as a readable resource.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         recentRunsURI,
		Name:        "attacksim-recent-runs",
		Description: "The most recent simulation runs and how many were cracked.",
		MIMEType:    "text/markdown",
	}, s.handleRecentRunsResource)
}

// handleAttackSimulate implements the attack_simulate tool.
func (s *Server) handleAttackSimulate(ctx context.Context, req *sdk.CallToolRequest, args AttackSimulateInput) (_ *sdk.CallToolResult, _ AttackSimulateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("attack_simulate", start, retErr, sanitizeToolParams(map[string]interface{}{
			"mode": args.Mode, "encoding": args.Encoding, "ceiling": args.Ceiling,
			"target": args.Target, "wordlist": args.Wordlist, "wordlist_ref": args.WordlistRef,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "attack_simulate"); err != nil {
		return nil, AttackSimulateOutput{}, err
	}

	cfg, err := s.limits.Config(simulate.Request{
		Mode:        args.Mode,
		Encoding:    args.Encoding,
		Target:      args.Target,
		Ceiling:     args.Ceiling,
		Words:       args.Wordlist,
		WordlistRef: args.WordlistRef,
	})
	if err != nil {
		return nil, AttackSimulateOutput{}, err
	}

	report, err := s.svc.Run(ctx, history.SourceMCP, cfg, s.progressNotifier(ctx, req, cfg.Ceiling))
	if err != nil && !errors.Is(err, attack.ErrCancelled) {
		return nil, AttackSimulateOutput{}, err
	}

	res := report.Result
	return nil, AttackSimulateOutput{
		RunID:     report.Record.ID,
		Cracked:   res.Cracked,
		Match:     res.Match,
		Attempts:  res.Attempts,
		ElapsedMS: res.ElapsedMillis(),
		Cancelled: report.Record.Cancelled,
		Verdict:   res.Verdict(),
		Analysis:  res.Analysis(cfg.Mode),
	}, nil
}

// progressNotifier forwards whole-percent progress to the client when the
// call carries a progress token. It returns nil otherwise.
func (s *Server) progressNotifier(ctx context.Context, req *sdk.CallToolRequest, ceiling int) func(attack.Progress) {
	if req == nil || req.Session == nil || req.Params == nil {
		return nil
	}
	token := req.Params.GetProgressToken()
	if token == nil {
		return nil
	}
	return simulate.PercentSteps(ceiling, func(p attack.Progress) {
		err := req.Session.NotifyProgress(ctx, &sdk.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(p.Attempt),
			Total:         float64(ceiling),
			Message:       fmt.Sprintf("attempt %d of %d", p.Attempt, ceiling),
		})
		if err != nil {
			s.logger.Debug("progress notification failed", "error", err)
		}
	})
}

// handleToyHash implements the toy_hash tool.
func (s *Server) handleToyHash(ctx context.Context, req *sdk.CallToolRequest, args ToyHashInput) (_ *sdk.CallToolResult, _ ToyHashOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("toy_hash", start, retErr, sanitizeToolParams(map[string]interface{}{"input": args.Input}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "toy_hash"); err != nil {
		return nil, ToyHashOutput{}, err
	}

	return nil, ToyHashOutput{
		Hash:  toyhash.Sum(args.Input),
		Value: toyhash.Sum32(args.Input),
	}, nil
}

// handleAttackHistory implements the attack_history tool.
func (s *Server) handleAttackHistory(ctx context.Context, req *sdk.CallToolRequest, args AttackHistoryInput) (_ *sdk.CallToolResult, _ AttackHistoryOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("attack_history", start, retErr, sanitizeToolParams(map[string]interface{}{
			"limit": args.Limit, "clear": args.Clear,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "attack_history"); err != nil {
		return nil, AttackHistoryOutput{}, err
	}
	if args.Limit < 0 {
		return nil, AttackHistoryOutput{}, fmt.Errorf("limit must be non-negative, got %d", args.Limit)
	}

	out := AttackHistoryOutput{Runs: []history.Record{}}
	store := s.svc.Store
	if store == nil {
		return nil, out, nil
	}

	if args.Clear {
		n, err := store.Clear(ctx)
		if err != nil {
			return nil, AttackHistoryOutput{}, fmt.Errorf("failed to clear history: %w", err)
		}
		out.Cleared = n
		return nil, out, nil
	}

	limit := args.Limit
	if limit == 0 {
		limit = defaultListSize
	}
	runs, err := store.List(ctx, limit)
	if err != nil {
		return nil, AttackHistoryOutput{}, fmt.Errorf("failed to list history: %w", err)
	}
	if runs != nil {
		out.Runs = runs
	}
	out.Summary, err = store.Summary(ctx)
	if err != nil {
		return nil, AttackHistoryOutput{}, fmt.Errorf("failed to summarize history: %w", err)
	}
	return nil, out, nil
}

// handleRecentRunsResource renders the last runs as a markdown table.
func (s *Server) handleRecentRunsResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	text, err := s.recentRunsMarkdown(ctx)
	if err != nil {
		return nil, err
	}
	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      recentRunsURI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		},
	}, nil
}

func (s *Server) recentRunsMarkdown(ctx context.Context) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Recent Simulation Runs\n\n")

	store := s.svc.Store
	if store == nil {
		sb.WriteString("Run history is disabled.\n")
		return sb.String(), nil
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		return "", fmt.Errorf("failed to list history: %w", err)
	}
	if len(runs) == 0 {
		sb.WriteString("No runs recorded yet. Start one with `attack_simulate`.\n")
		return sb.String(), nil
	}
	sum, err := store.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to summarize history: %w", err)
	}

	fmt.Fprintf(&sb, "%d runs recorded, %d cracked (%.0f%%).\n\n", sum.Runs, sum.Cracked, sum.CrackRate*100)
	sb.WriteString("| started | mode | encoding | target | outcome | attempts |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range runs {
		fmt.Fprintf(&sb, "| %s | %s | %s | `%s` | %s | %d |\n",
			r.StartedAt.Format(time.RFC3339), r.Mode, r.Encoding, r.TargetMask, r.Outcome(), r.Attempts)
	}
	return sb.String(), nil
}
