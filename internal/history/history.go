// Package history records completed simulation runs.
//
// Records never hold a target or matched candidate in clear; both are
// masked with sanitize.Mask before they reach a Store.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/sanitize"
)

// Sources identify which front end started a run.
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
	SourceMCP  = "mcp"
)

// Record is one completed run.
type Record struct {
	ID            string    `json:"id" bson:"_id"`
	StartedAt     time.Time `json:"started_at" bson:"started_at"`
	Source        string    `json:"source" bson:"source"`
	Mode          string    `json:"mode" bson:"mode"`
	Encoding      string    `json:"encoding" bson:"encoding"`
	TargetMask    string    `json:"target_mask" bson:"target_mask"`
	Ceiling       int       `json:"ceiling" bson:"ceiling"`
	Cracked       bool      `json:"cracked" bson:"cracked"`
	Cancelled     bool      `json:"cancelled,omitempty" bson:"cancelled"`
	MatchMask     string    `json:"match_mask,omitempty" bson:"match_mask,omitempty"`
	Attempts      int       `json:"attempts" bson:"attempts"`
	ElapsedMillis int64     `json:"elapsed_ms" bson:"elapsed_ms"`
}

// NewRecord builds the Record of run id, which started at startedAt and ended
// with res and runErr. Only runs that produced a Result are recorded, so
// runErr is either nil or a cancellation.
func NewRecord(id, source string, cfg attack.Config, res attack.Result, runErr error, startedAt time.Time) Record {
	return Record{
		ID:            id,
		StartedAt:     startedAt.UTC(),
		Source:        source,
		Mode:          cfg.Mode.String(),
		Encoding:      cfg.Encoding.String(),
		TargetMask:    sanitize.Mask(cfg.Target),
		Ceiling:       cfg.Ceiling,
		Cracked:       res.Cracked,
		Cancelled:     errors.Is(runErr, attack.ErrCancelled),
		MatchMask:     sanitize.Mask(res.Match),
		Attempts:      res.Attempts,
		ElapsedMillis: res.ElapsedMillis(),
	}
}

// Outcome is "cracked", "exhausted" or "cancelled".
func (r Record) Outcome() string {
	switch {
	case r.Cracked:
		return "cracked"
	case r.Cancelled:
		return "cancelled"
	default:
		return "exhausted"
	}
}

// Validate checks that r can be stored.
func (r Record) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("record id %q: %w", r.ID, err)
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("record %s: started_at is required", r.ID)
	}
	if _, err := attack.ParseMode(r.Mode); err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	if _, err := attack.ParseEncoding(r.Encoding); err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	if r.Attempts < 0 || r.Ceiling < 1 || r.Attempts > r.Ceiling {
		return fmt.Errorf("record %s: attempts %d outside ceiling %d", r.ID, r.Attempts, r.Ceiling)
	}
	return nil
}

// Summary aggregates stored runs.
type Summary struct {
	Runs          int     `json:"runs"`
	Cracked       int     `json:"cracked"`
	Exhausted     int     `json:"exhausted"`
	Cancelled     int     `json:"cancelled"`
	TotalAttempts int64   `json:"total_attempts"`
	CrackRate     float64 `json:"crack_rate"`
}

func (s *Summary) add(r Record) {
	s.Runs++
	s.TotalAttempts += int64(r.Attempts)
	switch r.Outcome() {
	case "cracked":
		s.Cracked++
	case "cancelled":
		s.Cancelled++
	default:
		s.Exhausted++
	}
}

func (s *Summary) finish() {
	if s.Runs > 0 {
		s.CrackRate = float64(s.Cracked) / float64(s.Runs)
	}
}

// Store persists Records. Implementations are safe for concurrent use.
type Store interface {
	// Add stores a validated record.
	Add(ctx context.Context, r Record) error

	// List returns up to limit records, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Record, error)

	// Summary aggregates every stored record.
	Summary(ctx context.Context) (Summary, error)

	// Clear deletes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}

// sortNewestFirst orders records by StartedAt descending, breaking ties by ID.
func sortNewestFirst(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].StartedAt.After(records[j].StartedAt)
		}
		return records[i].ID > records[j].ID
	})
}
