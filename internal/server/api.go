package server

import (
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/toyhash"
)

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	Mode     string `json:"mode"`
	Encoding string `json:"encoding"`
	Target   string `json:"target"`
	// Wordlist is newline-separated text. WordlistRef names "common" or a
	// file inside the configured wordlist directories. Wordlist wins when
	// both are set.
	Wordlist    string `json:"wordlist,omitempty"`
	WordlistRef string `json:"wordlist_ref,omitempty"`
	Ceiling     int    `json:"ceiling"`
	Pace        bool   `json:"pace,omitempty"`
}

// StreamLine is one NDJSON line of a simulate response. Type is
// "progress", "result" or "error". Result lines carry every RunResult field.
type StreamLine struct {
	Type    string  `json:"type"`
	Attempt int     `json:"attempt,omitempty"`
	Percent float64 `json:"percent,omitempty"`
	Error   string  `json:"error,omitempty"`
	*RunResult
}

// RunResult is the outcome part of a "result" line.
type RunResult struct {
	RunID     string `json:"run_id"`
	Cracked   bool   `json:"cracked"`
	Match     string `json:"match,omitempty"`
	Attempts  int    `json:"attempts"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Cancelled bool   `json:"cancelled"`
	Verdict   string `json:"verdict"`
	Analysis  string `json:"analysis"`
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSimulate validates the request, then streams progress as NDJSON
// followed by one result line. Progress is thinned to whole-percent steps.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	client := clientKey(r)
	if !s.limiter.Allow(client) {
		retry := s.limiter.RetryAfter(client)
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, please try again shortly"})
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	cfg, err := s.buildConfig(req)
	if err != nil {
		writeError(w, err)
		return
	}

	svc := s.svc
	if req.Pace {
		svc = s.svc.WithRunner(s.opts.Paced)
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)

	send := func(line StreamLine) bool {
		if err := enc.Encode(line); err != nil {
			return false
		}
		rc.Flush()
		return true
	}

	progress := simulate.PercentSteps(cfg.Ceiling, func(p attack.Progress) {
		send(StreamLine{Type: "progress", Attempt: p.Attempt, Percent: attack.Percent(p.Attempt, cfg.Ceiling)})
	})

	report, err := svc.Run(r.Context(), history.SourceHTTP, cfg, progress)
	if err != nil && !errors.Is(err, attack.ErrCancelled) {
		s.logger.Error("simulation failed", "client", client, "error", err)
		send(StreamLine{Type: "error", Error: err.Error()})
		return
	}

	res := report.Result
	send(StreamLine{Type: "result", RunResult: &RunResult{
		RunID:     report.Record.ID,
		Cracked:   res.Cracked,
		Match:     res.Match,
		Attempts:  res.Attempts,
		ElapsedMS: res.ElapsedMillis(),
		Cancelled: report.Record.Cancelled,
		Verdict:   res.Verdict(),
		Analysis:  res.Analysis(cfg.Mode),
	}})
}

// buildConfig turns a request into a validated attack.Config.
func (s *Server) buildConfig(req SimulateRequest) (attack.Config, error) {
	limits := simulate.Limits{WordlistDirs: s.opts.WordlistDirs, MaxCeiling: s.opts.MaxCeiling}
	return limits.Config(simulate.Request{
		Mode:         req.Mode,
		Encoding:     req.Encoding,
		Target:       req.Target,
		Ceiling:      req.Ceiling,
		WordlistText: req.Wordlist,
		WordlistRef:  req.WordlistRef,
	})
}

type hashRequest struct {
	Input string `json:"input"`
}

type hashResponse struct {
	Input string `json:"input"`
	Hash  string `json:"hash"`
}

func (s *Server) handleHash(w http.ResponseWriter, r *http.Request) {
	var req hashRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, hashResponse{Input: req.Input, Hash: toyhash.Sum(req.Input)})
}

type historyResponse struct {
	Records []history.Record `json:"records"`
	Summary history.Summary  `json:"summary"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.svc.Store == nil {
		writeJSON(w, http.StatusOK, historyResponse{Records: []history.Record{}})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer", Field: "limit"})
			return
		}
		limit = n
	}

	records, err := s.svc.Store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing history", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
		return
	}
	sum, err := s.svc.Store.Summary(r.Context())
	if err != nil {
		s.logger.Error("summarizing history", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Records: records, Summary: sum})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.svc.Store == nil {
		writeJSON(w, http.StatusOK, map[string]int{"cleared": 0})
		return
	}
	n, err := s.svc.Store.Clear(r.Context())
	if err != nil {
		s.logger.Error("clearing history", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// writeError maps configuration errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var cfgErr *attack.ConfigError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: cfgErr.Field})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// clientKey identifies the caller for rate limiting.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
